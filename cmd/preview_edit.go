package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/clibate-go/internal/clibtext"
	"github.com/eykd/clibate-go/internal/editlang"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// PreviewEditIO reads the target file and the raw edit-instruction text
// for the preview-edit command.
type PreviewEditIO interface {
	ReadFile(path string) (string, error)
}

// NewPreviewEditCmd creates the preview-edit subcommand: applies one
// batch of DIFF/INSERT/REMOVE/PREFIX/UNPREF/REPLACE instructions (read
// verbatim from edit-file, with no surrounding test: section) against
// target-file's current content, and prints the resulting diff without
// writing anything back or running any command.
func NewPreviewEditCmd(io PreviewEditIO) *cobra.Command {
	return &cobra.Command{
		Use:          "preview-edit <target-file> <edit-file>",
		Short:        "Preview the effect of an edit batch without running a command",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			targetPath, editPath := args[0], args[1]

			before, err := io.ReadFile(targetPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", targetPath, err)
			}
			editText, err := io.ReadFile(editPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", editPath, err)
			}

			editFile := editPath
			if abs, err := filepath.Abs(editPath); err == nil {
				editFile = abs
			}
			lex := clibtext.New(editFile, editText)
			edits, err := editlang.Parse(lex)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return fmt.Errorf("%s failed to parse", editPath)
			}

			after := before
			for _, e := range edits {
				after, err = e.Apply(after)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return fmt.Errorf("applying %s to %s failed", editPath, targetPath)
				}
			}

			dmp := diffmatchpatch.New()
			diffs := dmp.DiffMain(before, after, false)
			fmt.Fprintln(cmd.OutOrStdout(), dmp.DiffPrettyText(diffs))
			return nil
		},
	}
}

type filePreviewEditIO struct{}

func newDefaultPreviewEditIO() *filePreviewEditIO { return &filePreviewEditIO{} }

func (filePreviewEditIO) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
