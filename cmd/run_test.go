package cmd

import (
	"bytes"
	"errors"
	"os"
	"testing"
)

type mockRunIO struct {
	content     string
	readErr     error
	dir         string
	makeDirErr  error
	removedDirs []string
}

func (m *mockRunIO) ReadSpec(path string) (string, error) { return m.content, m.readErr }

func (m *mockRunIO) MakeSandboxDir() (string, error) {
	if m.makeDirErr != nil {
		return "", m.makeDirErr
	}
	return m.dir, nil
}

func (m *mockRunIO) RemoveSandboxDir(dir string) error {
	m.removedDirs = append(m.removedDirs, dir)
	return os.RemoveAll(dir)
}

func TestNewRunCmd_PassingSpec(t *testing.T) {
	mock := &mockRunIO{
		content: "command: printf ok\ntest: t\nSuccess: t\n",
		dir:     t.TempDir(),
	}
	c := NewRunCmd(mock)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{"spec.clib"})

	if err := c.Execute(); err != nil {
		t.Fatalf("expected success, got %v: %s", err, out.String())
	}
	if len(mock.removedDirs) != 1 {
		t.Errorf("expected sandbox dir to be removed exactly once, got %v", mock.removedDirs)
	}
}

func TestNewRunCmd_FailingSpecReturnsError(t *testing.T) {
	mock := &mockRunIO{
		content: "command: exit 1\ntest: t\nSuccess: t\n",
		dir:     t.TempDir(),
	}
	c := NewRunCmd(mock)
	c.SetOut(new(bytes.Buffer))
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{"spec.clib"})

	if err := c.Execute(); err == nil {
		t.Error("expected error when a test fails")
	}
}

func TestNewRunCmd_ReadSpecError(t *testing.T) {
	mock := &mockRunIO{readErr: errors.New("disk error")}
	c := NewRunCmd(mock)
	c.SetOut(new(bytes.Buffer))
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{"spec.clib"})

	if err := c.Execute(); err == nil {
		t.Error("expected error when ReadSpec fails")
	}
}

func TestNewRunCmd_SandboxCreationError(t *testing.T) {
	mock := &mockRunIO{
		content:    "command: echo hi\ntest: t\nSuccess: t\n",
		makeDirErr: errors.New("no space left"),
	}
	c := NewRunCmd(mock)
	c.SetOut(new(bytes.Buffer))
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{"spec.clib"})

	if err := c.Execute(); err == nil {
		t.Error("expected error when sandbox creation fails")
	}
}
