// Package launcher starts the generated launch script as a child process
// without waiting for it.
package launcher

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/sequana/pacbioqc/internal/domain"
	"github.com/sequana/pacbioqc/internal/ports"
)

type Shell struct {
	shell  string
	stdout io.Writer
	stderr io.Writer
}

type Option func(*Shell)

// WithShell replaces "sh" as the interpreter.
func WithShell(shell string) Option {
	return func(s *Shell) { s.shell = shell }
}

// WithOutput redirects the child's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(s *Shell) {
		s.stdout = stdout
		s.stderr = stderr
	}
}

func New(opts ...Option) *Shell {
	s := &Shell{
		shell:  "sh",
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.Launcher = (*Shell)(nil)

// Launch runs "<shell> <script>" in dir. The context only guards the start:
// once running, the child outlives both ctx and this process.
func (s *Shell) Launch(ctx context.Context, dir, script string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := exec.Command(s.shell, script)
	cmd.Dir = dir
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	if err := cmd.Start(); err != nil {
		return &domain.OpError{
			Op:   "launcher.start",
			Kind: domain.KindExecution,
			Path: script,
			Err:  err,
		}
	}
	return cmd.Process.Release()
}
