package cmd

import (
	"bytes"
	"errors"
	"testing"
)

type mockPreviewEditIO struct {
	files map[string]string
	errs  map[string]error
}

func (m mockPreviewEditIO) ReadFile(path string) (string, error) {
	if err, ok := m.errs[path]; ok {
		return "", err
	}
	return m.files[path], nil
}

func TestNewPreviewEditCmd_ShowsDiff(t *testing.T) {
	io := mockPreviewEditIO{files: map[string]string{
		"target.txt": "hola\n",
		"edit.clib":  "DIFF hola\n   ~ hello\n",
	}}
	c := NewPreviewEditCmd(io)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{"target.txt", "edit.clib"})

	if err := c.Execute(); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected diff output on stdout")
	}
}

func TestNewPreviewEditCmd_MissingTarget(t *testing.T) {
	io := mockPreviewEditIO{errs: map[string]error{"target.txt": errors.New("not found")}}
	c := NewPreviewEditCmd(io)
	c.SetOut(new(bytes.Buffer))
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{"target.txt", "edit.clib"})

	if err := c.Execute(); err == nil {
		t.Error("expected error when target file is missing")
	}
}

func TestNewPreviewEditCmd_InvalidEditSyntax(t *testing.T) {
	io := mockPreviewEditIO{files: map[string]string{
		"target.txt": "hola\n",
		"edit.clib":  "REPLACE thing\n",
	}}
	c := NewPreviewEditCmd(io)
	errOut := new(bytes.Buffer)
	c.SetOut(new(bytes.Buffer))
	c.SetErr(errOut)
	c.SetArgs([]string{"target.txt", "edit.clib"})

	if err := c.Execute(); err == nil {
		t.Error("expected error for invalid edit syntax")
	}
	if errOut.Len() == 0 {
		t.Error("expected the parse diagnostic to be written to stderr")
	}
}
