package specdoc

import (
	"strconv"
	"strings"

	"github.com/eykd/clibate-go/internal/clibtext"
	"github.com/eykd/clibate-go/internal/diagnostics"
	"github.com/eykd/clibate-go/internal/editlang"
	"github.com/eykd/clibate-go/internal/location"
	"github.com/eykd/clibate-go/internal/section"
)

// Statement values are what a section.Reader hands back to the top-level
// parse loop: either something parse.go applies itself (includeStmt,
// which needs filesystem access and recursion) or an actor, which
// mutates builder state the way the ancestor's Actor.execute(ts) did.

type fileStmt struct {
	Name    string
	Content string
}

func (s fileStmt) execute(b *builder) (*TestCase, error) {
	b.doc.Files = append(b.doc.Files, FileDecl{Name: s.Name, Content: s.Content})
	return nil, nil
}

type copyStmt struct {
	Pairs []CopySpec
}

func (s copyStmt) execute(b *builder) (*TestCase, error) {
	b.doc.Copies = append(b.doc.Copies, s.Pairs...)
	return nil, nil
}

type commandStmt struct {
	Command string
}

func (s commandStmt) execute(b *builder) (*TestCase, error) {
	b.command = s.Command
	return nil, nil
}

type editStmt struct {
	Target     string
	Persistent bool
	Edits      []editlang.Edit
	At         location.Location
}

func (s editStmt) execute(b *builder) (*TestCase, error) {
	b.addEdits(EditBatch{Target: s.Target, Persistent: s.Persistent, Edits: s.Edits, At: s.At})
	return nil, nil
}

type testNameStmt struct {
	Name string
}

func (s testNameStmt) execute(b *builder) (*TestCase, error) {
	b.pendingName = s.Name
	return nil, nil
}

type exitCodeStmt struct {
	Code int
}

func (s exitCodeStmt) execute(b *builder) (*TestCase, error) {
	b.exitCode = s.Code
	b.exitCodeSet = true
	return nil, nil
}

type outputStmt struct {
	Channel     string
	Expectation OutputExpectation
}

func (s outputStmt) execute(b *builder) (*TestCase, error) {
	switch s.Channel {
	case "stdout":
		b.stdout = s.Expectation
	case "stderr":
		b.stderr = s.Expectation
	}
	return nil, nil
}

// runStmt is RUN: by the time the runner actually executes a command it
// always does so per finalized TestCase, so RUN itself does not need to
// do anything at parse time; it exists as concrete syntax so specs
// written against the low-level RUN/CHECK/EXITCODE primitives (rather
// than the Success/Failure shorthand) still parse.
type runStmt struct{}

func (s runStmt) execute(b *builder) (*TestCase, error) {
	return nil, nil
}

type checkStmt struct {
	Name string
	At   location.Location
}

func (s checkStmt) execute(b *builder) (*TestCase, error) {
	exitCode := 0
	if b.exitCodeSet {
		exitCode = b.exitCode
	}
	tc, err := b.finalize(s.Name, s.At, exitCode, b.stdout, b.stderr)
	b.exitCodeSet = false
	b.exitCode = 0
	b.stdout, b.stderr = OutputExpectation{}, OutputExpectation{}
	return tc, err
}

type successStmt struct {
	Name   string
	Stdout string
	At     location.Location
}

func (s successStmt) execute(b *builder) (*TestCase, error) {
	stdout := b.stdout
	if s.Stdout != "" {
		stdout = OutputExpectation{Mode: OutputSubstring, Text: s.Stdout}
	}
	tc, err := b.finalize(s.Name, s.At, 0, stdout, OutputExpectation{Mode: OutputEmpty})
	b.exitCodeSet, b.exitCode = false, 0
	b.stdout, b.stderr = OutputExpectation{}, OutputExpectation{}
	return tc, err
}

type failureStmt struct {
	Name   string
	Stdout string
	At     location.Location
}

func (s failureStmt) execute(b *builder) (*TestCase, error) {
	exitCode := 1
	if b.exitCodeSet {
		exitCode = b.exitCode
	}
	stdout := b.stdout
	if s.Stdout != "" {
		stdout = OutputExpectation{Mode: OutputSubstring, Text: s.Stdout}
	}
	tc, err := b.finalize(s.Name, s.At, exitCode, stdout, b.stderr)
	b.exitCodeSet, b.exitCode = false, 0
	b.stdout, b.stderr = OutputExpectation{}, OutputExpectation{}
	return tc, err
}

// includeStmt is handled specially by Parse (it needs filesystem access
// and recursive parsing), not through the actor interface.
type includeStmt struct {
	Spawn       bool
	SpecFile    string
	InputFolder string
	Section     string
	At          location.Location
}

// rawLine reads one line verbatim (no comment stripping), the shape
// heredoc-style bodies (file::, command::) need since their content is
// introduced "including comments".
func rawLine(lex *clibtext.Lexer) string {
	_, line, _ := lex.ReadUntilEither([]clibtext.Stop{clibtext.Lit("\n"), clibtext.EOF}, false)
	lex.Match("\n")
	return line
}

// readHeredoc reads a `name:: MARKER` block's body: every raw line up to
// (not including) the line that, once trimmed, equals marker exactly,
// then dedents the collected lines by their common leading whitespace.
func readHeredoc(lex *clibtext.Lexer, name string) (string, error) {
	markerLine, _, err := lex.ReadLineRest()
	if err != nil {
		return "", err
	}
	marker := strings.TrimSpace(markerLine)
	if marker == "" {
		return "", lex.Errorf("Missing heredoc marker for %s section.", name)
	}
	lex.Match("\n")
	var lines []string
	for {
		if lex.MatchEOF() {
			return "", lex.Errorf("Missing closing marker %s for %s section.", marker, name)
		}
		line := rawLine(lex)
		if strings.TrimSpace(line) == marker {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "", nil
	}
	return dedent(lines) + "\n", nil
}

func dedent(lines []string) string {
	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if common == -1 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return strings.Join(lines, "\n")
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= common {
			out[i] = l[common:]
		} else {
			out[i] = strings.TrimLeft(l, " \t")
		}
	}
	return strings.Join(out, "\n")
}

// fileReader recognizes `file (name):: MARKER ... MARKER`.
type fileReader struct{}

func (fileReader) Keyword() string { return "file" }

func (fileReader) TryMatch(lex *clibtext.Lexer) (any, section.Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("file") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	vals, ok, err := lex.ReadTuple([]int{1})
	if err != nil {
		return nil, nil, true, lex.Errorf("%v", err)
	}
	if !ok {
		return nil, nil, true, lex.Errorf("Missing parenthesized filename for file section.")
	}
	if !lex.Find("::") {
		return nil, nil, true, lex.Errorf("Missing double colon '::' to introduce file section.")
	}
	content, err := readHeredoc(lex, "file")
	if err != nil {
		return nil, nil, true, err
	}
	return fileStmt{Name: vals[0], Content: content}, nil, true, nil
}

// copyReader recognizes `copy:` followed by one or more `source ->
// target` or bare-filename lines.
type copyReader struct{}

func (copyReader) Keyword() string { return "copy" }

func (copyReader) TryMatch(lex *clibtext.Lexer) (any, section.Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("copy") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	if !lex.Find(":") {
		return nil, nil, true, lex.Errorf("Missing colon ':' to introduce copy section.")
	}
	if err := lex.CheckEmptyLine(); err != nil {
		return nil, nil, true, err
	}
	return nil, &copyAutomaton{}, true, nil
}

type copyAutomaton struct {
	pairs []CopySpec
}

func (a *copyAutomaton) Feed(line string, at location.Location) error {
	l := clibtext.New(at.File, line)
	if l.FindEmptyLine() {
		return nil
	}
	if findArrow(l) {
		var src string
		if s, _, ok := l.ReadQuotedString(); ok {
			src = s
		} else {
			raw, _ := l.ReadUntil(clibtext.Lit("->"), false)
			src = strings.TrimSpace(raw)
		}
		if src == "" {
			return l.Errorf("Could not find source filename in copy line.")
		}
		if !l.Find("->") {
			return l.Errorf("Missing '->' in copy line.")
		}
		tgt, _, err := l.ReadQuotedStringOrRaw()
		if err != nil {
			return err
		}
		tgt = strings.TrimSpace(tgt)
		if tgt == "" {
			return l.Errorf("Missing destination filename in copy line.")
		}
		a.pairs = append(a.pairs, CopySpec{Source: src, Target: tgt})
		return nil
	}
	if s, _, ok := l.ReadQuotedString(); ok {
		names := []string{s}
		for {
			if next, _, ok := l.ReadQuotedString(); ok {
				names = append(names, next)
				continue
			}
			break
		}
		for _, n := range names {
			a.pairs = append(a.pairs, CopySpec{Source: n, Target: n})
		}
		return nil
	}
	rest := l.ReadLine()
	for _, n := range strings.Fields(rest) {
		a.pairs = append(a.pairs, CopySpec{Source: n, Target: n})
	}
	return nil
}

func (a *copyAutomaton) Terminate() (any, error) {
	return copyStmt{Pairs: a.pairs}, nil
}

// findArrow reports whether "->" occurs on the remainder of the line,
// without consuming anything.
func findArrow(l *clibtext.Lexer) bool {
	return strings.Contains(l.Remaining(), "->")
}

// commandReader recognizes `command:` (soft, line-accumulated) and
// `command:: MARKER` (hard, heredoc-style).
type commandReader struct{}

func (commandReader) Keyword() string { return "command" }

func (commandReader) TryMatch(lex *clibtext.Lexer) (any, section.Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("command") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	if lex.Find("::") {
		content, err := readHeredoc(lex, "command")
		if err != nil {
			return nil, nil, true, err
		}
		return commandStmt{Command: strings.TrimRight(content, "\n")}, nil, true, nil
	}
	if !lex.Find(":") {
		return nil, nil, true, lex.Errorf("Missing colon ':' (soft-matching) or double colon '::' (hard-matching) to introduce command section.")
	}
	return nil, &commandAutomaton{}, true, nil
}

type commandAutomaton struct {
	parts []string
}

func (a *commandAutomaton) Feed(line string, _ location.Location) error {
	s := strings.TrimSpace(line)
	if s != "" {
		a.parts = append(a.parts, s)
	}
	return nil
}

func (a *commandAutomaton) Terminate() (any, error) {
	return commandStmt{Command: strings.Join(a.parts, " ")}, nil
}

// editReader recognizes `edit (target):` or the persistent form `edit*
// (target):`, then hands the rest of the block straight to editlang.
type editReader struct{}

func (editReader) Keyword() string { return "edit" }

func (editReader) TryMatch(lex *clibtext.Lexer) (any, section.Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("edit") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	ctx := lex.Location()
	persistent := lex.Match("*")
	vals, ok, err := lex.ReadTuple([]int{1})
	if err != nil {
		return nil, nil, true, lex.Errorf("%v", err)
	}
	if !ok {
		return nil, nil, true, lex.Errorf("Missing parenthesized target filename for edit section.")
	}
	if !lex.Find(":") {
		return nil, nil, true, lex.Errorf("Missing colon ':' to introduce edit section.")
	}
	if err := lex.CheckEmptyLine(); err != nil {
		return nil, nil, true, err
	}
	edits, err := editlang.Parse(lex)
	if err != nil {
		return nil, nil, true, err
	}
	return editStmt{Target: vals[0], Persistent: persistent, Edits: edits, At: ctx}, nil, true, nil
}

// testReader recognizes `test: <name>`.
type testReader struct{}

func (testReader) Keyword() string { return "test" }

func (testReader) TryMatch(lex *clibtext.Lexer) (any, section.Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("test") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	if !lex.Find(":") {
		return nil, nil, true, lex.Errorf("Missing colon ':' to introduce test section.")
	}
	name, _, err := lex.ReadLineRest()
	if err != nil {
		return nil, nil, true, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, nil, true, lex.Errorf("Missing expected data: 'test name'.")
	}
	return testNameStmt{Name: strings.TrimSpace(name)}, nil, true, nil
}

// exitCodeReader recognizes `EXITCODE <n>`.
type exitCodeReader struct{}

func (exitCodeReader) Keyword() string { return "EXITCODE" }

func (exitCodeReader) TryMatch(lex *clibtext.Lexer) (any, section.Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("EXITCODE") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	raw, _, err := lex.ReadLineRest()
	if err != nil {
		return nil, nil, true, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil, true, lex.Errorf("Unexpected end of file while reading expected exit code.")
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return nil, nil, true, lex.Errorf("Expected exit code, found %s", editlang.PyRepr(raw))
	}
	return exitCodeStmt{Code: code}, nil, true, nil
}

// runReader recognizes the bare `RUN` statement.
type runReader struct{}

func (runReader) Keyword() string { return "RUN" }

func (runReader) TryMatch(lex *clibtext.Lexer) (any, section.Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("RUN") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	return runStmt{}, nil, true, nil
}

// checkReader recognizes `CHECK: <name>`.
type checkReader struct{}

func (checkReader) Keyword() string { return "CHECK" }

func (checkReader) TryMatch(lex *clibtext.Lexer) (any, section.Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("CHECK") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	ctx := lex.Location()
	if !lex.Find(":") {
		return nil, nil, true, lex.Errorf("Missing colon ':' to introduce CHECK section.")
	}
	name, _, err := lex.ReadLineRest()
	if err != nil {
		return nil, nil, true, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, nil, true, lex.Errorf("Missing expected data: 'test name'.")
	}
	return checkStmt{Name: strings.TrimSpace(name), At: ctx}, nil, true, nil
}

// outputReader recognizes `stdout:`/`stderr:` (soft, substring-accumulated),
// `stdout:: MARKER`/`stderr:: MARKER` (hard, exact heredoc), and their `*`
// (clear/empty) forms. One instance serves one channel.
type outputReader struct {
	channel string
}

func (r outputReader) Keyword() string { return r.channel }

func (r outputReader) TryMatch(lex *clibtext.Lexer) (any, section.Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match(r.channel) {
		return nil, nil, false, nil
	}
	lex.Become(c)
	if lex.Find("::") {
		if lex.Find("*") {
			if err := lex.CheckEmptyLine(); err != nil {
				return nil, nil, true, err
			}
			return outputStmt{Channel: r.channel, Expectation: OutputExpectation{Mode: OutputEmpty}}, nil, true, nil
		}
		content, err := readHeredoc(lex, r.channel)
		if err != nil {
			return nil, nil, true, err
		}
		return outputStmt{Channel: r.channel, Expectation: OutputExpectation{Mode: OutputExact, Text: content}}, nil, true, nil
	}
	if !lex.Find(":") {
		return nil, nil, true, lex.Errorf("Missing colon ':' (soft-matching) or double colon '::' (hard-matching) to introduce %s section.", r.channel)
	}
	if lex.Find("*") {
		if err := lex.CheckEmptyLine(); err != nil {
			return nil, nil, true, err
		}
		return outputStmt{Channel: r.channel, Expectation: OutputExpectation{Mode: OutputClear}}, nil, true, nil
	}
	return nil, &outputAutomaton{channel: r.channel, at: lex.Location()}, true, nil
}

type outputAutomaton struct {
	channel string
	at      location.Location
	parts   []string
}

func (a *outputAutomaton) Feed(line string, _ location.Location) error {
	l := clibtext.New("", line)
	if l.FindEmptyLine() {
		return nil
	}
	a.parts = append(a.parts, strings.TrimSpace(l.ReadLine()))
	return nil
}

func (a *outputAutomaton) Terminate() (any, error) {
	total := strings.TrimSpace(strings.Join(a.parts, " "))
	if total == "" {
		return nil, diagnostics.NewParseError("Blank expected "+a.channel+" in last section.", a.at)
	}
	return outputStmt{Channel: a.channel, Expectation: OutputExpectation{Mode: OutputSubstring, Text: total}}, nil
}

// successReader recognizes `Success: <name>` followed by an optional
// stdout substring.
type successReader struct{}

func (successReader) Keyword() string { return "Success" }

func (successReader) TryMatch(lex *clibtext.Lexer) (any, section.Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("Success") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	ctx := lex.Location()
	if !lex.Find(":") {
		return nil, nil, true, lex.Errorf("Missing colon ':' to introduce Success section.")
	}
	name, _, err := lex.ReadLineRest()
	if err != nil {
		return nil, nil, true, err
	}
	return nil, &successAutomaton{name: strings.TrimSpace(name), at: ctx}, true, nil
}

type successAutomaton struct {
	name string
	at   location.Location
	body []string
}

func (a *successAutomaton) Feed(line string, _ location.Location) error {
	l := clibtext.New("", line)
	if l.FindEmptyLine() {
		return nil
	}
	a.body = append(a.body, strings.TrimSpace(l.ReadLine()))
	return nil
}

func (a *successAutomaton) Terminate() (any, error) {
	return successStmt{Name: a.name, Stdout: strings.TrimSpace(strings.Join(a.body, " ")), At: a.at}, nil
}

// failureReader mirrors successReader but expects exit code 1, unless an
// EXITCODE statement sets another value.
type failureReader struct{}

func (failureReader) Keyword() string { return "Failure" }

func (failureReader) TryMatch(lex *clibtext.Lexer) (any, section.Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("Failure") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	ctx := lex.Location()
	if !lex.Find(":") {
		return nil, nil, true, lex.Errorf("Missing colon ':' to introduce Failure section.")
	}
	name, _, err := lex.ReadLineRest()
	if err != nil {
		return nil, nil, true, err
	}
	return nil, &failureAutomaton{name: strings.TrimSpace(name), at: ctx}, true, nil
}

type failureAutomaton struct {
	name string
	at   location.Location
	body []string
}

func (a *failureAutomaton) Feed(line string, _ location.Location) error {
	l := clibtext.New("", line)
	if l.FindEmptyLine() {
		return nil
	}
	a.body = append(a.body, strings.TrimSpace(l.ReadLine()))
	return nil
}

func (a *failureAutomaton) Terminate() (any, error) {
	return failureStmt{Name: a.name, Stdout: strings.TrimSpace(strings.Join(a.body, " ")), At: a.at}, nil
}

// includeReader recognizes `include<*> (spec_file<, input_folder>):
// <section name>`.
type includeReader struct{}

func (includeReader) Keyword() string { return "include" }

func (includeReader) TryMatch(lex *clibtext.Lexer) (any, section.Automaton, bool, error) {
	c := lex.Clone()
	c.SkipSpace()
	if !c.Match("include") {
		return nil, nil, false, nil
	}
	lex.Become(c)
	ctx := lex.Location()
	spawn := lex.Match("*")
	vals, ok, err := lex.ReadTuple([]int{1, 2})
	if err != nil {
		return nil, nil, true, lex.Errorf("%v", err)
	}
	if !ok {
		return nil, nil, true, lex.Errorf("Missing parenthesized spec file for include section.")
	}
	specFile := vals[0]
	inputFolder := ""
	if len(vals) == 2 {
		inputFolder = vals[1]
	}
	if !lex.Find(":") {
		return nil, nil, true, lex.Errorf("Missing colon ':' to introduce include section.")
	}
	section, _, err := lex.ReadLineRest()
	if err != nil {
		return nil, nil, true, err
	}
	return includeStmt{Spawn: spawn, SpecFile: specFile, InputFolder: inputFolder, Section: strings.TrimSpace(section), At: ctx}, nil, true, nil
}

// registry returns the full set of section readers for a top-level
// document, in the order the ancestor's Parser tried them.
func registry() *section.Registry {
	return section.NewRegistry(
		includeReader{},
		fileReader{},
		copyReader{},
		commandReader{},
		editReader{},
		testReader{},
		exitCodeReader{},
		outputReader{channel: "stdout"},
		outputReader{channel: "stderr"},
		successReader{},
		failureReader{},
		runReader{},
		checkReader{},
	)
}
