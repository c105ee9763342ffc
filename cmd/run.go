package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/clibate-go/internal/clibconfig"
	"github.com/eykd/clibate-go/internal/runner"
	"github.com/eykd/clibate-go/internal/sandbox"
	"github.com/eykd/clibate-go/internal/specdoc"
)

// RunIO reads the spec file and provides a fresh sandbox directory for
// the run command.
type RunIO interface {
	ReadSpec(path string) (string, error)
	MakeSandboxDir() (string, error)
	RemoveSandboxDir(dir string) error
}

// NewRunCmd creates the run subcommand: parses a spec file, materializes
// a sandbox, and runs every test in order, printing a pass/fail summary.
func NewRunCmd(io RunIO) *cobra.Command {
	var inputFolder string

	cmd := &cobra.Command{
		Use:          "run <spec-file>",
		Short:        "Run a clibate spec file's tests",
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

			if inputFolder == "" {
				inputFolder = filepath.Join(filepath.Dir(path), "input")
			}

			cfg, err := clibconfig.Load(filepath.Join(filepath.Dir(path), ".clibate.yml"))
			if err != nil {
				return err
			}
			timeout, err := cfg.Timeout()
			if err != nil {
				return err
			}

			dir, err := io.MakeSandboxDir()
			if err != nil {
				return fmt.Errorf("creating sandbox: %w", err)
			}
			defer func() { _ = io.RemoveSandboxDir(dir) }()

			sb, err := sandbox.New(dir, inputFolder, doc)
			if err != nil {
				return err
			}

			results, err := runner.Run(cmd.Context(), sb, doc, runner.Options{Timeout: timeout})
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Passed {
					fmt.Fprintf(cmd.OutOrStdout(), "PASS: %s\n", r.Name)
					continue
				}
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL: %s\n%s\n", r.Name, r.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d passed, %d failed\n", len(results)-failed, failed)

			if failed > 0 {
				return fmt.Errorf("%d test(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFolder, "input", "", "input folder for copy: sources (default: <spec-dir>/input)")

	return cmd
}

type fileRunIO struct{}

func newDefaultRunIO() *fileRunIO { return &fileRunIO{} }

func (fileRunIO) ReadSpec(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (fileRunIO) MakeSandboxDir() (string, error) {
	return os.MkdirTemp("", "clibate-sandbox-")
}

func (fileRunIO) RemoveSandboxDir(dir string) error {
	return os.RemoveAll(dir)
}
