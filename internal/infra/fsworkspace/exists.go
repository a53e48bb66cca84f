package fsworkspace

import (
	"os"

	"github.com/sequana/pacbioqc/internal/domain"
	"github.com/sequana/pacbioqc/internal/ports"
)

// Checker is the filesystem PathChecker.
type Checker struct{}

var _ ports.PathChecker = Checker{}

func (Checker) Exists(path string) error {
	if _, err := os.Stat(path); err != nil {
		kind := domain.KindExecution
		if os.IsNotExist(err) {
			kind = domain.KindNotFound
		}
		return &domain.OpError{
			Op:   "fsworkspace.exists",
			Kind: kind,
			Path: path,
			Err:  err,
		}
	}
	return nil
}
