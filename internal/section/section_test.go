package section

import (
	"strings"
	"testing"

	"github.com/eykd/clibate-go/internal/clibtext"
	"github.com/eykd/clibate-go/internal/location"
)

// hardReader recognizes `greet: <name>` and consumes the whole line
// itself, the way file:: / edit: blocks do.
type hardReader struct{}

func (hardReader) Keyword() string { return "greet" }

func (hardReader) TryMatch(lex *clibtext.Lexer) (any, Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("greet") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	if !lex.Find(":") {
		return nil, nil, true, lex.Errorf("missing colon")
	}
	name, _, err := lex.ReadLineRest()
	if err != nil {
		return nil, nil, true, err
	}
	return "greet:" + strings.TrimSpace(name), nil, true, nil
}

// softReader recognizes `list:` and accumulates subsequent lines until
// another keyword reappears.
type softReader struct{}

func (softReader) Keyword() string { return "list" }

func (softReader) TryMatch(lex *clibtext.Lexer) (any, Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("list") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	if !lex.Find(":") {
		return nil, nil, true, lex.Errorf("missing colon")
	}
	return nil, &listAutomaton{}, true, nil
}

type listAutomaton struct {
	items []string
}

func (a *listAutomaton) Feed(line string, _ location.Location) error {
	if s := strings.TrimSpace(line); s != "" {
		a.items = append(a.items, s)
	}
	return nil
}

func (a *listAutomaton) Terminate() (any, error) {
	return "list:" + strings.Join(a.items, ","), nil
}

func TestRegistry_HardMatchConsumesWholeLine(t *testing.T) {
	lex := clibtext.New("t.clib", "greet: world\n")
	values, err := NewRegistry(hardReader{}, softReader{}).ParseAll(lex)
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(values) != 1 || values[0] != "greet:world" {
		t.Fatalf("values = %v", values)
	}
}

func TestRegistry_SoftMatchFeedsUntilNextKeyword(t *testing.T) {
	lex := clibtext.New("t.clib", "list:\n  one\n  two\ngreet: bob\n")
	values, err := NewRegistry(hardReader{}, softReader{}).ParseAll(lex)
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %d: %v", len(values), values)
	}
	if values[0] != "list:one,two" {
		t.Errorf("values[0] = %v", values[0])
	}
	if values[1] != "greet:bob" {
		t.Errorf("values[1] = %v", values[1])
	}
}

func TestRegistry_UnrecognizedLineIsError(t *testing.T) {
	lex := clibtext.New("t.clib", "nonsense here\n")
	_, err := NewRegistry(hardReader{}, softReader{}).ParseAll(lex)
	if err == nil {
		t.Fatal("expected error for unrecognized line")
	}
}

func TestRegistry_SoftMatchRunsToEOF(t *testing.T) {
	lex := clibtext.New("t.clib", "list:\n  one\n")
	values, err := NewRegistry(hardReader{}, softReader{}).ParseAll(lex)
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(values) != 1 || values[0] != "list:one" {
		t.Fatalf("values = %v", values)
	}
}
