package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eykd/clibate-go/internal/specdoc"
)

// CheckIO reads the spec file for the check command.
type CheckIO interface {
	ReadSpec(path string) (string, error)
}

// NewCheckCmd creates the check subcommand: parse-only, reports
// diagnostics without materializing a sandbox or running any command.
func NewCheckCmd(io CheckIO) *cobra.Command {
	return &cobra.Command{
		Use:          "check <spec-file>",
		Short:        "Parse a clibate spec file and report diagnostics without running it",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			content, err := io.ReadSpec(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			doc, err := specdoc.Parse(path, content)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return fmt.Errorf("%s failed to parse", path)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d test(s), %d file(s), %d copy(s))\n",
				path, len(doc.Tests), len(doc.Files), len(doc.Copies))
			return nil
		},
	}
}

type fileCheckIO struct{}

func newDefaultCheckIO() *fileCheckIO { return &fileCheckIO{} }

func (fileCheckIO) ReadSpec(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
