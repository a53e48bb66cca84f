package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/sequana/pacbioqc/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("sequana_pacbio_qc %s (commit=%s, date=%s)", Version, Commit, Date)
}
