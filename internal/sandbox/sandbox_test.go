package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eykd/clibate-go/internal/editlang"
	"github.com/eykd/clibate-go/internal/specdoc"
)

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing input fixture: %v", err)
	}
}

func TestNew_MaterializesFilesAndCopies(t *testing.T) {
	inputDir := t.TempDir()
	writeInput(t, inputDir, "fixture.txt", "fixture content\n")

	doc := &specdoc.Document{
		Files:  []specdoc.FileDecl{{Name: "greeting.txt", Content: "hello\n"}},
		Copies: []specdoc.CopySpec{{Source: "fixture.txt", Target: "copied.txt"}},
	}

	sb, err := New(t.TempDir(), inputDir, doc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := sb.ReadFile("greeting.txt")
	if err != nil || got != "hello\n" {
		t.Errorf("greeting.txt = %q, %v; want hello\\n, nil", got, err)
	}
	got, err = sb.ReadFile("copied.txt")
	if err != nil || got != "fixture content\n" {
		t.Errorf("copied.txt = %q, %v; want fixture content\\n, nil", got, err)
	}
}

func TestApplyBatch_NonPersistentRollsBack(t *testing.T) {
	doc := &specdoc.Document{Files: []specdoc.FileDecl{{Name: "f.txt", Content: "one\ntwo\n"}}}
	sb, err := New(t.TempDir(), "", doc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	edit := &fakeEdit{fn: func(s string) (string, error) { return s + "three\n", nil }}
	if err := sb.ApplyBatch(specdoc.EditBatch{Target: "f.txt", Persistent: false, Edits: []editlang.Edit{edit}}); err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
	got, _ := sb.ReadFile("f.txt")
	if got != "one\ntwo\nthree\n" {
		t.Fatalf("after ApplyBatch = %q", got)
	}

	if err := sb.RestoreAll(); err != nil {
		t.Fatalf("RestoreAll: %v", err)
	}
	got, _ = sb.ReadFile("f.txt")
	if got != "one\ntwo\n" {
		t.Errorf("after RestoreAll = %q, want original content", got)
	}
}

func TestApplyBatch_PersistentSurvivesRestore(t *testing.T) {
	doc := &specdoc.Document{Files: []specdoc.FileDecl{{Name: "f.txt", Content: "one\n"}}}
	sb, err := New(t.TempDir(), "", doc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	edit := &fakeEdit{fn: func(s string) (string, error) { return s + "two\n", nil }}
	if err := sb.ApplyBatch(specdoc.EditBatch{Target: "f.txt", Persistent: true, Edits: []editlang.Edit{edit}}); err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
	if err := sb.RestoreAll(); err != nil {
		t.Fatalf("RestoreAll: %v", err)
	}
	got, _ := sb.ReadFile("f.txt")
	if got != "one\ntwo\n" {
		t.Errorf("persistent edit did not survive RestoreAll: %q", got)
	}
}

func TestApplyBatch_MissingTargetIsRunError(t *testing.T) {
	sb, err := New(t.TempDir(), "", &specdoc.Document{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = sb.ApplyBatch(specdoc.EditBatch{Target: "missing.txt"})
	if err == nil {
		t.Fatal("expected error for missing target file")
	}
}

type fakeEdit struct {
	fn func(string) (string, error)
}

func (f *fakeEdit) Apply(content string) (string, error) { return f.fn(content) }
