package projectfinder

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sequana/pacbioqc/internal/domain"
	"github.com/sequana/pacbioqc/internal/pipeline"
	"github.com/sequana/pacbioqc/internal/ports"
)

// Finder locates the config of an existing project. A parent directory only
// counts as the project when it also holds the pipeline rules, so a stray
// config.yaml higher up is never picked.
type Finder struct {
	ConfigFile string // defaults to "config.yaml"
	RulesFile  string // defaults to "pacbio_qc.rules"
}

func NewFinder() *Finder {
	return &Finder{
		ConfigFile: pipeline.ConfigFile,
		RulesFile:  pipeline.RulesFile,
	}
}

var _ ports.ProjectLocator = (*Finder)(nil)

// FindConfig accepts either a YAML file, used as is, or a directory inside a
// project.
func (f *Finder) FindConfig(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", &domain.OpError{
			Op:   "projectfinder.findconfig",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("project path is empty"),
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &domain.OpError{
			Op:   "projectfinder.findconfig",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", &domain.OpError{
			Op:   "projectfinder.findconfig",
			Kind: domain.KindNotFound,
			Path: abs,
			Err:  err,
		}
	}
	if !info.IsDir() {
		if !hasYAMLExt(abs) {
			return "", &domain.OpError{
				Op:   "projectfinder.findconfig",
				Kind: domain.KindInvalidConfig,
				Path: abs,
				Err:  errors.New("project file must be a YAML config"),
			}
		}
		return abs, nil
	}

	cur := filepath.Clean(abs)
	for {
		cfgPath := filepath.Join(cur, f.ConfigFile)
		if isFile(cfgPath) && (cur == abs || isFile(filepath.Join(cur, f.RulesFile))) {
			return cfgPath, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{
				Op:   "projectfinder.findconfig",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}
