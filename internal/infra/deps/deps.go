// Package deps reports which external tools of the workflow are installed.
package deps

import (
	"os/exec"

	"github.com/sequana/pacbioqc/internal/pipeline"
)

type Dependency struct {
	Name  string
	Path  string
	Found bool
}

type Prober struct {
	lookPath func(string) (string, error)
}

type Option func(*Prober)

// WithLookPath replaces exec.LookPath, mostly for tests.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(p *Prober) { p.lookPath = fn }
}

func NewProber(opts ...Option) *Prober {
	p := &Prober{lookPath: exec.LookPath}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe resolves every pipeline dependency on PATH, in declaration order.
func (p *Prober) Probe() []Dependency {
	names := pipeline.Dependencies()
	out := make([]Dependency, 0, len(names))
	for _, name := range names {
		d := Dependency{Name: name}
		if path, err := p.lookPath(name); err == nil {
			d.Path = path
			d.Found = true
		}
		out = append(out, d)
	}
	return out
}

// Has reports whether a single executable is on PATH.
func (p *Prober) Has(name string) bool {
	_, err := p.lookPath(name)
	return err == nil
}
