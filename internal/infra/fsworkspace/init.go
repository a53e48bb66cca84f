package fsworkspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sequana/pacbioqc/internal/domain"
	"github.com/sequana/pacbioqc/internal/pipeline"
	"github.com/sequana/pacbioqc/internal/ports"
)

// Initializer scaffolds a working directory from a file tree, by default the
// embedded pipeline.
type Initializer struct {
	files fs.FS
}

type Option func(*Initializer)

// WithFiles replaces the embedded pipeline files.
func WithFiles(files fs.FS) Option {
	return func(i *Initializer) { i.files = files }
}

func NewInitializer(opts ...Option) *Initializer {
	i := &Initializer{files: pipeline.Files()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init creates spec.Root and copies the pipeline files into it. An existing
// root is only reused when spec.Force is set, in which case the pipeline files
// are overwritten and everything else is left alone.
func (i *Initializer) Init(spec domain.WorkspaceSpec) error {
	root := filepath.Clean(spec.Root)

	info, err := os.Stat(root)
	switch {
	case err == nil && !info.IsDir():
		return &domain.OpError{
			Op:   "fsworkspace.init",
			Kind: domain.KindAlreadyExists,
			Path: root,
			Err:  fmt.Errorf("exists and is not a directory: %w", domain.ErrAlreadyExists),
		}
	case err == nil && !spec.Force:
		return &domain.OpError{
			Op:   "fsworkspace.init",
			Kind: domain.KindAlreadyExists,
			Path: root,
			Err:  fmt.Errorf("working directory exists, use --force to overwrite: %w", domain.ErrAlreadyExists),
		}
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return &domain.OpError{
			Op:   "fsworkspace.init",
			Kind: domain.KindExecution,
			Path: root,
			Err:  err,
		}
	}

	dirs := []string{
		root,
		filepath.Join(root, pipeline.StateDir, "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return &domain.OpError{
				Op:   "fsworkspace.mkdir",
				Kind: domain.KindExecution,
				Path: d,
				Err:  err,
			}
		}
	}

	return fs.WalkDir(i.files, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		dst := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		b, err := fs.ReadFile(i.files, p)
		if err != nil {
			return err
		}

		if err := os.WriteFile(dst, b, 0o644); err != nil {
			return &domain.OpError{
				Op:   "fsworkspace.copy",
				Kind: domain.KindExecution,
				Path: dst,
				Err:  err,
			}
		}
		return nil
	})
}
