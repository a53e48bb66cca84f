package ports

import "github.com/sequana/pacbioqc/internal/domain"

// RunRecorder persists provenance for reproducibility.
type RunRecorder interface {
	SaveRun(rec domain.RunRecord) (id string, err error)
}
