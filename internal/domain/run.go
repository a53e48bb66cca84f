package domain

import "time"

// WorkspaceSpec describes the working directory to scaffold.
type WorkspaceSpec struct {
	Root     string
	Pipeline string
	Force    bool
}

// RunRecord is the provenance stored next to the generated files.
type RunRecord struct {
	ID               string    `json:"id"`
	Pipeline         string    `json:"pipeline"`
	Version          string    `json:"version"`
	Command          []string  `json:"command"`
	WorkingDirectory string    `json:"working_directory"`
	FromProject      string    `json:"from_project,omitempty"`
	RunMode          RunMode   `json:"run_mode"`
	User             string    `json:"user,omitempty"`
	LogFile          string    `json:"log_file,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
