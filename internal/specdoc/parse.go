package specdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eykd/clibate-go/internal/clibtext"
	"github.com/eykd/clibate-go/internal/diagnostics"
)

// Loader resolves an include: directive's spec_file reference (relative
// to the including file's directory) to an absolute path and its
// content. Parse's default loader reads from the filesystem, trying the
// ".clib" extension when the bare name doesn't exist; tests substitute a
// fake.
type Loader func(parentFile, specFile string) (resolvedPath, content string, err error)

// Parse reads a complete spec document, including every include: chain
// it reaches, and returns the flattened Document: every file:/copy:
// declaration and every test, in document order, with included content
// spliced in at its include: site.
func Parse(filename, content string) (*Document, error) {
	return parseFile(filename, content, FileLoader, nil)
}

// ParseWithLoader is Parse with an explicit Loader, for tests that don't
// want to touch the real filesystem.
func ParseWithLoader(filename, content string, load Loader) (*Document, error) {
	return parseFile(filename, content, load, nil)
}

// FileLoader is the default Loader: it resolves specFile relative to
// parentFile's directory, appending ".clib" if the bare name isn't found.
func FileLoader(parentFile, specFile string) (string, string, error) {
	dir := filepath.Dir(parentFile)
	candidates := []string{filepath.Join(dir, specFile)}
	if !strings.HasSuffix(specFile, ".clib") {
		candidates = append(candidates, filepath.Join(dir, specFile+".clib"))
	}
	for _, c := range candidates {
		data, err := os.ReadFile(c)
		if err == nil {
			abs, _ := filepath.Abs(c)
			return abs, string(data), nil
		}
	}
	return "", "", fmt.Errorf("missing file to include: %s", specFile)
}

func parseFile(filename, content string, load Loader, ancestry []string) (*Document, error) {
	if abs, err := filepath.Abs(filename); err == nil {
		filename = abs
	}
	lex := clibtext.New(filename, content)
	return parseLexer(lex, filename, load, ancestry, newBuilder())
}

func parseLexer(lex *clibtext.Lexer, filename string, load Loader, ancestry []string, b *builder) (*Document, error) {
	values, err := registry().ParseAll(lex)
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		inc, isInclude := v.(includeStmt)
		if !isInclude {
			act, ok := v.(actor)
			if !ok {
				return nil, fmt.Errorf("internal error: unexpected statement type %T", v)
			}
			tc, err := act.execute(b)
			if err != nil {
				return nil, err
			}
			if tc != nil {
				b.doc.Tests = append(b.doc.Tests, *tc)
			}
			continue
		}

		resolvedPath, childContent, loadErr := load(filename, inc.SpecFile)
		if loadErr != nil {
			return nil, diagnostics.NewRunError(fmt.Sprintf("Missing file to include: %s.", inc.SpecFile), inc.At)
		}
		for _, anc := range ancestry {
			if anc == resolvedPath {
				return nil, diagnostics.NewRunError(
					fmt.Sprintf("Circular inclusion detected: %s includes %s again.", filename, inc.SpecFile), inc.At)
			}
		}

		childLex := clibtext.NewIncluded(resolvedPath, childContent, inc.At)
		if _, err := parseLexer(childLex, resolvedPath, load, append(ancestry, resolvedPath), b); err != nil {
			return nil, err
		}
	}

	return b.doc, nil
}
