package yamlconfig

import (
	"bytes"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sequana/pacbioqc/internal/domain"
	"github.com/sequana/pacbioqc/internal/ports"
)

const templateName = "<template>/config.yaml"

// Store loads and saves config.yaml files.
type Store struct {
	template []byte
}

type Option func(*Store)

// WithTemplate replaces the default config used by Template.
func WithTemplate(b []byte) Option {
	return func(s *Store) { s.template = b }
}

func NewStore(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ConfigStore = (*Store)(nil)

// Template parses the config shipped with the pipeline. An empty template
// yields the domain defaults.
func (s *Store) Template() (domain.PipelineConfig, error) {
	if len(bytes.TrimSpace(s.template)) == 0 {
		return domain.DefaultPipelineConfig(), nil
	}
	return parse(templateName, s.template)
}

func (s *Store) Load(path string) (domain.PipelineConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.PipelineConfig{}, &domain.OpError{
			Op:   "yamlconfig.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	return parse(path, b)
}

// Save writes cfg to path through a temporary file so a failed write never
// leaves a truncated config behind. With a template, the values are written
// into it so its comments and layout survive.
func (s *Store) Save(path string, cfg domain.PipelineConfig) error {
	b, err := s.render(cfg)
	if err != nil {
		return &domain.OpError{
			Op:   "yamlconfig.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return writeFile(path, b)
}

// Copy checks that src is a valid config and writes it to dst unchanged.
func (s *Store) Copy(src, dst string) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return &domain.OpError{
			Op:   "yamlconfig.copy",
			Kind: domain.KindNotFound,
			Path: src,
			Err:  err,
		}
	}
	if _, err := parse(src, b); err != nil {
		return err
	}
	return writeFile(dst, b)
}

func (s *Store) render(cfg domain.PipelineConfig) ([]byte, error) {
	var values yaml.Node
	if err := values.Encode(ToYAML(cfg)); err != nil {
		return nil, err
	}

	out := &values
	if len(bytes.TrimSpace(s.template)) > 0 {
		var doc yaml.Node
		if err := yaml.Unmarshal(s.template, &doc); err != nil {
			return nil, err
		}
		if m := documentMapping(&doc); m != nil {
			mergeInto(m, &values)
			out = &doc
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &domain.OpError{
			Op:   "yamlconfig.mkdir",
			Kind: domain.KindExecution,
			Path: filepath.Dir(path),
			Err:  err,
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return &domain.OpError{
			Op:   "yamlconfig.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "yamlconfig.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return nil
}

func parse(path string, b []byte) (domain.PipelineConfig, error) {
	var dto YAMLConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.PipelineConfig{}, &domain.OpError{
			Op:   "yamlconfig.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return MapConfig(path, dto)
}
