package ports

import "github.com/sequana/pacbioqc/internal/domain"

// ConfigStore reads and writes the pipeline configuration file.
type ConfigStore interface {
	Template() (domain.PipelineConfig, error)
	Load(path string) (domain.PipelineConfig, error)
	Save(path string, cfg domain.PipelineConfig) error
	// Copy validates src and writes its bytes unchanged to dst.
	Copy(src, dst string) error
}
