package domain

// RunMode selects how the launch script submits jobs.
type RunMode string

const (
	RunModeLocal RunMode = "local"
	RunModeSlurm RunMode = "slurm"
)

// LaunchOptions holds everything parsed from the command line.
type LaunchOptions struct {
	InputDirectory  string
	InputPattern    string
	DoKraken        bool
	SkipKraken      bool
	KrakenDatabases []string

	WorkingDirectory string
	Force            bool
	Jobs             int

	RunMode   RunMode
	Slurm     SlurmOptions
	Apptainer ApptainerOptions

	FromProject string
	Run         bool

	// Args is the raw argument list, recorded in the script header and the
	// provenance record.
	Args []string
}

type SlurmOptions struct {
	Queue  string
	Memory string
}

type ApptainerOptions struct {
	Enabled bool
	Prefix  string
	Args    string
}

// DefaultLaunchOptions mirrors the command-line defaults.
func DefaultLaunchOptions() LaunchOptions {
	return LaunchOptions{
		InputPattern:     DefaultInputPattern,
		WorkingDirectory: PipelineName,
		Jobs:             40,
		RunMode:          RunModeLocal,
		Slurm: SlurmOptions{
			Queue:  "common",
			Memory: "4G",
		},
	}
}
