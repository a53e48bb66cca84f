package domain

// PipelineName is the name of the pipeline this tool configures. It also names
// the default working directory, the rules file and the launch script.
const PipelineName = "pacbio_qc"

// DefaultInputPattern selects the PacBio BAM files in the input directory.
const DefaultInputPattern = "*.bam"

// PipelineConfig is the configuration written to config.yaml in the working
// directory.
type PipelineConfig struct {
	InputDirectory string
	InputPattern   string
	Kraken         KrakenConfig
	MultiQC        MultiQCConfig
	Apptainers     map[string]string
}

// KrakenConfig drives the optional taxonomy step.
type KrakenConfig struct {
	Do        bool
	Databases []string
}

type MultiQCConfig struct {
	Options    string
	ConfigFile string
}

// DefaultPipelineConfig is used when the embedded template leaves a field empty.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		InputPattern: DefaultInputPattern,
		Kraken: KrakenConfig{
			Do:        false,
			Databases: []string{},
		},
		MultiQC: MultiQCConfig{
			Options:    "-f",
			ConfigFile: "multiqc_config.yaml",
		},
		Apptainers: map[string]string{},
	}
}

// ResolveKraken decides whether the taxonomy step runs. It only runs when at
// least one database is given, so asking for taxonomy without databases leaves
// it disabled, and skip always wins.
func ResolveKraken(skip bool, databases []string) KrakenConfig {
	dbs := make([]string, 0, len(databases))
	dbs = append(dbs, databases...)

	return KrakenConfig{
		Do:        len(dbs) > 0 && !skip,
		Databases: dbs,
	}
}
