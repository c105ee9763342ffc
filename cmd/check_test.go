package cmd

import (
	"bytes"
	"errors"
	"testing"
)

type mockCheckIO struct {
	content string
	err     error
}

func (m mockCheckIO) ReadSpec(path string) (string, error) { return m.content, m.err }

func TestNewCheckCmd_ValidSpec(t *testing.T) {
	c := NewCheckCmd(mockCheckIO{content: "command: echo hi\ntest: t\nSuccess: t\n"})
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{"spec.clib"})

	if err := c.Execute(); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected a summary line on stdout")
	}
}

func TestNewCheckCmd_ReadError(t *testing.T) {
	c := NewCheckCmd(mockCheckIO{err: errors.New("disk error")})
	c.SetOut(new(bytes.Buffer))
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{"spec.clib"})

	if err := c.Execute(); err == nil {
		t.Error("expected error when ReadSpec fails")
	}
}

func TestNewCheckCmd_ParseError(t *testing.T) {
	c := NewCheckCmd(mockCheckIO{content: "nonsense\n"})
	errOut := new(bytes.Buffer)
	c.SetOut(new(bytes.Buffer))
	c.SetErr(errOut)
	c.SetArgs([]string{"spec.clib"})

	if err := c.Execute(); err == nil {
		t.Error("expected error for invalid spec syntax")
	}
	if errOut.Len() == 0 {
		t.Error("expected the parse diagnostic to be written to stderr")
	}
}
