package yamlconfig

type YAMLConfig struct {
	InputDirectory string            `yaml:"input_directory"`
	InputPattern   string            `yaml:"input_pattern"`
	Apptainers     map[string]string `yaml:"apptainers"`
	Kraken         YAMLKraken        `yaml:"kraken"`
	MultiQC        YAMLMultiQC       `yaml:"multiqc"`
}

type YAMLKraken struct {
	Do        *bool    `yaml:"do"`
	Databases []string `yaml:"databases"`
}

type YAMLMultiQC struct {
	Options    string `yaml:"options"`
	ConfigFile string `yaml:"config_file"`
}
