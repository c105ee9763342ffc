package cmd

import (
	"bytes"
	"testing"
)

func TestNewRootCmd_HasSubcommands(t *testing.T) {
	root := NewRootCmd()
	want := []string{"run", "check", "preview-edit"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected root command to have a %q subcommand", name)
		}
	}
}

func TestNewRootCmd_NoArgsPrintsHelp(t *testing.T) {
	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{})

	if err := root.Execute(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected help text on stdout")
	}
}
