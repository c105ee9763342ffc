// Package runner is clibate's test orchestrator: the external
// collaborator spec.md §1 calls out as "command execution, stream
// capture, exit-code checking" and "test orchestration, rollback of
// temporary edits, reporting" — out of scope for the edit engine, but
// the thing that actually drives internal/sandbox and internal/editlang
// end to end against a specdoc.Document.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/eykd/clibate-go/internal/sandbox"
	"github.com/eykd/clibate-go/internal/specdoc"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Result is one test's outcome.
type Result struct {
	Name    string
	Passed  bool
	Message string // empty on pass; a human-readable failure explanation otherwise
	Stdout  string
	Stderr  string
	Code    int
}

// Options configures how tests are run.
type Options struct {
	// Shell is the interpreter invoked for each test's command, as
	// Shell[0] command... Shell[len-1] "<command text>". Defaults to
	// []string{"sh", "-c"}.
	Shell []string
	// Timeout bounds each test's command; zero means no timeout.
	Timeout time.Duration
}

func (o Options) shellOrDefault() []string {
	if len(o.Shell) > 0 {
		return o.Shell
	}
	return []string{"sh", "-c"}
}

// Run executes every test in doc against sb in order, applying each
// test's edit batches first and rolling back its non-persistent ones
// once the test has run, regardless of pass/fail.
func Run(ctx context.Context, sb *sandbox.Sandbox, doc *specdoc.Document, opts Options) ([]Result, error) {
	results := make([]Result, 0, len(doc.Tests))
	for _, tc := range doc.Tests {
		res, err := runOne(ctx, sb, tc, opts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if err := sb.RestoreAll(); err != nil {
			return results, err
		}
	}
	return results, nil
}

func runOne(ctx context.Context, sb *sandbox.Sandbox, tc specdoc.TestCase, opts Options) (Result, error) {
	for _, batch := range tc.Edits {
		if err := sb.ApplyBatch(batch); err != nil {
			return Result{}, err
		}
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	shell := opts.shellOrDefault()
	args := append(append([]string{}, shell[1:]...), tc.Command)
	cmd := exec.CommandContext(runCtx, shell[0], args...)
	cmd.Dir = sb.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code := 0
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		} else {
			return Result{}, fmt.Errorf("running command for test %q: %w", tc.Name, err)
		}
	}

	res := Result{Name: tc.Name, Passed: true, Stdout: stdout.String(), Stderr: stderr.String(), Code: code}

	var failures []string
	if code != tc.ExitCode {
		failures = append(failures, fmt.Sprintf("Expected return code %d, got %d instead.", tc.ExitCode, code))
	}
	if msg := checkOutput("stdout", tc.Stdout, res.Stdout, sb); msg != "" {
		failures = append(failures, msg)
	}
	if msg := checkOutput("stderr", tc.Stderr, res.Stderr, sb); msg != "" {
		failures = append(failures, msg)
	}

	if len(failures) > 0 {
		res.Passed = false
		res.Message = strings.Join(failures, "\n")
	}
	return res, nil
}

// escapeCodes strips terminal escape sequences from captured output
// before comparison, mirroring output.py's `unescape`.
var escapeCodes = regexp.MustCompile(`\x1B\[([0-9]{1,3}(;[0-9]{1,2})?)?[mGK]`)

func expandTokens(sb *sandbox.Sandbox, text string) string {
	text = strings.ReplaceAll(text, "<TEST_FOLDER>", sb.Dir)
	text = strings.ReplaceAll(text, "<INPUT_FOLDER>", sb.InputFolder)
	return text
}

func checkOutput(channel string, expect specdoc.OutputExpectation, actual string, sb *sandbox.Sandbox) string {
	clean := escapeCodes.ReplaceAllString(actual, "")
	switch expect.Mode {
	case specdoc.OutputUnset, specdoc.OutputClear:
		return ""
	case specdoc.OutputEmpty:
		if clean == "" {
			return ""
		}
		return fmt.Sprintf("Expected no output on %s, but got:\n%s", channel, actual)
	case specdoc.OutputExact:
		want := expandTokens(sb, expect.Text)
		if clean == want {
			return ""
		}
		return fmt.Sprintf("Expected to find on %s:\n%s\n%s", channel, want, renderDiff(want, clean))
	case specdoc.OutputSubstring:
		want := normalizeWhitespace(expandTokens(sb, expect.Text))
		haystack := normalizeWhitespace(clean)
		if strings.Contains(haystack, want) {
			return ""
		}
		if actual == "" {
			return fmt.Sprintf("Expected to find on %s:\n%s\nfound nothing instead.", channel, want)
		}
		return fmt.Sprintf("Expected to find on %s:\n%s\nfound instead:\n%s", channel, want, actual)
	}
	return ""
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// renderDiff renders a unified-style text diff between want and got,
// grounded on jsnanigans-copre's diffmatchpatch usage for readable
// before/after comparisons.
func renderDiff(want, got string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	return "diff:\n" + dmp.DiffPrettyText(diffs)
}
