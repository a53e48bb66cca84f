package ports

import "github.com/sequana/pacbioqc/internal/domain"

// WorkspaceInitializer creates the working directory and copies the pipeline
// definition into it.
type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec) error
}

// PathChecker reports a not-found error for paths that do not exist.
type PathChecker interface {
	Exists(path string) error
}
