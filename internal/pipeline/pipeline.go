// Package pipeline embeds the PacBio QC workflow definition and the files that
// are copied next to it in every working directory.
package pipeline

import (
	"embed"
	"io/fs"

	"github.com/sequana/pacbioqc/internal/domain"
)

const (
	Name              = domain.PipelineName
	RulesFile         = Name + ".rules"
	ScriptFile        = Name + ".sh"
	ConfigFile        = "config.yaml"
	SchemaFile        = "schema.yaml"
	MultiQCConfigFile = "multiqc_config.yaml"

	// StateDir holds logs and provenance inside the working directory.
	StateDir = ".sequana"
)

//go:embed files
var files embed.FS

// Files returns the pipeline files rooted at their destination names.
func Files() fs.FS {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}

// ConfigTemplate returns the default config.yaml shipped with the pipeline.
func ConfigTemplate() ([]byte, error) {
	return fs.ReadFile(files, "files/"+ConfigFile)
}

// Dependencies lists the executables the workflow calls.
func Dependencies() []string {
	return []string{
		"snakemake",
		"samtools",
		"sequana_taxonomy",
		"multiqc",
	}
}
