// Package sandbox materializes a specdoc.Document's base files and
// copies into a throwaway directory, then applies each test's edit
// batches and rolls the non-persistent ones back once that test has run,
// the way the ancestor's TestRunner.backup_file/restore_all_files did.
// This is the external collaborator spec.md §1 calls "sandbox
// materialization and file I/O lifecycle": out of scope for the edit
// engine itself, but something a runnable clibate still needs.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/eykd/clibate-go/internal/diagnostics"
	"github.com/eykd/clibate-go/internal/specdoc"

	"github.com/google/uuid"
)

// Sandbox owns one throwaway directory holding the files a test run's
// command will see, plus the backups needed to roll back non-persistent
// edits between tests.
type Sandbox struct {
	Dir         string
	InputFolder string
	backups     map[string][]byte // target (relative) -> content before this test's batches ran
}

// New materializes dir (creating it if necessary) with doc's base files
// and copies, then returns a Sandbox ready to run doc's tests against.
func New(dir, inputFolder string, doc *specdoc.Document) (*Sandbox, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sandbox directory: %w", err)
	}
	sb := &Sandbox{Dir: dir, InputFolder: inputFolder, backups: map[string][]byte{}}

	for _, f := range doc.Files {
		if err := sb.WriteFileAtomic(f.Name, f.Content); err != nil {
			return nil, fmt.Errorf("materializing file %s: %w", f.Name, err)
		}
	}
	for _, c := range doc.Copies {
		if err := sb.copyFromInput(c.Source, c.Target); err != nil {
			return nil, err
		}
	}
	return sb, nil
}

// Path resolves name to an absolute path inside the sandbox directory.
func (sb *Sandbox) Path(name string) string {
	return filepath.Join(sb.Dir, name)
}

func (sb *Sandbox) copyFromInput(source, target string) error {
	data, err := os.ReadFile(filepath.Join(sb.InputFolder, source))
	if err != nil {
		return fmt.Errorf("copying input file %s: %w", source, err)
	}
	return sb.WriteFileAtomic(target, string(data))
}

// WriteFileAtomic writes content to name inside the sandbox via a
// temp-file-then-rename, the same discipline the teacher's
// InitIO.WriteFileAtomic uses for the real project's files, here
// disambiguating concurrent writers with a uuid-suffixed temp name.
func (sb *Sandbox) WriteFileAtomic(name, content string) error {
	path := sb.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ApplyBatch reads the current content of batch.Target inside the
// sandbox, backs it up if it isn't already backed up for this test cycle
// (so the very first edit to touch a file in a test is the one that gets
// rolled back to), applies every instruction in order, and writes the
// result back.
func (sb *Sandbox) ApplyBatch(batch specdoc.EditBatch) error {
	path := sb.Path(batch.Target)
	data, err := os.ReadFile(path)
	if err != nil {
		return diagnostics.NewRunError(
			fmt.Sprintf("Could not read target file %s: %v", batch.Target, err), batch.At)
	}
	if !batch.Persistent {
		sb.backupOnce(batch.Target, data)
	}

	content := string(data)
	for _, e := range batch.Edits {
		content, err = e.Apply(content)
		if err != nil {
			return err
		}
	}
	return sb.WriteFileAtomic(batch.Target, content)
}

// backupOnce records data as the pre-test content of target the first
// time it is touched during the current test cycle; later edits within
// the same cycle don't overwrite that backup, mirroring
// backup_file(..., override=False).
func (sb *Sandbox) backupOnce(target string, data []byte) {
	if _, ok := sb.backups[target]; ok {
		return
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	sb.backups[target] = cp
}

// RestoreAll writes every backed-up file's pre-test content back and
// clears the backup set, ready for the next test cycle. Files touched
// only by persistent edits are never in the backup set and are left
// untouched, so persistent changes carry forward.
func (sb *Sandbox) RestoreAll() error {
	for target, data := range sb.backups {
		if err := sb.WriteFileAtomic(target, string(data)); err != nil {
			return fmt.Errorf("restoring %s: %w", target, err)
		}
	}
	sb.backups = map[string][]byte{}
	return nil
}

// ReadFile reads name's current content from inside the sandbox.
func (sb *Sandbox) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(sb.Path(name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
