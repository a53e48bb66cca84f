package yamlconfig

import (
	"fmt"
	"strings"

	"github.com/sequana/pacbioqc/internal/domain"
)

// MapConfig applies a parsed config.yaml on top of the defaults.
func MapConfig(path string, y YAMLConfig) (domain.PipelineConfig, error) {
	cfg := domain.DefaultPipelineConfig()

	cfg.InputDirectory = strings.TrimSpace(y.InputDirectory)
	if p := strings.TrimSpace(y.InputPattern); p != "" {
		cfg.InputPattern = p
	}

	if y.Kraken.Do != nil {
		cfg.Kraken.Do = *y.Kraken.Do
	}
	for i, db := range y.Kraken.Databases {
		if strings.TrimSpace(db) == "" {
			return domain.PipelineConfig{}, invalidField(path, fmt.Sprintf("kraken.databases[%d]", i), "database path is empty")
		}
		cfg.Kraken.Databases = append(cfg.Kraken.Databases, db)
	}
	// Taxonomy never runs without a database.
	if len(cfg.Kraken.Databases) == 0 {
		cfg.Kraken.Do = false
	}

	if y.MultiQC.Options != "" {
		cfg.MultiQC.Options = y.MultiQC.Options
	}
	if y.MultiQC.ConfigFile != "" {
		cfg.MultiQC.ConfigFile = y.MultiQC.ConfigFile
	}

	for k, v := range y.Apptainers {
		cfg.Apptainers[k] = v
	}

	return cfg, nil
}

// ToYAML is the inverse of MapConfig.
func ToYAML(cfg domain.PipelineConfig) YAMLConfig {
	do := cfg.Kraken.Do

	dbs := cfg.Kraken.Databases
	if dbs == nil {
		dbs = []string{}
	}
	apptainers := cfg.Apptainers
	if apptainers == nil {
		apptainers = map[string]string{}
	}

	return YAMLConfig{
		InputDirectory: cfg.InputDirectory,
		InputPattern:   cfg.InputPattern,
		Apptainers:     apptainers,
		Kraken: YAMLKraken{
			Do:        &do,
			Databases: dbs,
		},
		MultiQC: YAMLMultiQC{
			Options:    cfg.MultiQC.Options,
			ConfigFile: cfg.MultiQC.ConfigFile,
		},
	}
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlconfig.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
