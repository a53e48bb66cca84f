package ports

import (
	"context"

	"github.com/sequana/pacbioqc/internal/domain"
)

// ScriptWriter renders the launch script into the working directory and
// returns its path.
type ScriptWriter interface {
	Write(root string, opts domain.LaunchOptions) (string, error)
}

// Launcher starts the launch script without waiting for it.
type Launcher interface {
	Launch(ctx context.Context, dir, script string) error
}
