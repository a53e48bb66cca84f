package launchscript

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sequana/pacbioqc/internal/domain"
	"github.com/sequana/pacbioqc/internal/pipeline"
	"github.com/sequana/pacbioqc/internal/ports"
)

const scriptTemplate = `#!/bin/bash
# Generated by {{tool}} on {{date}}
# Command: {{command}}
#
# Start the pipeline from this directory with: sh {{script}}

snakemake -s {{rules}} --configfile {{config}} {{options}}
`

// Script is the rendered launch script.
type Script struct {
	Name    string
	Content string
}

// Writer renders the launch script and saves it in the working directory.
type Writer struct {
	tool string
	now  func() time.Time
}

type Option func(*Writer)

// WithTool sets the name and version written in the script header.
func WithTool(tool string) Option {
	return func(w *Writer) { w.tool = tool }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		tool: "sequana_" + pipeline.Name,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var _ ports.ScriptWriter = (*Writer)(nil)

// Build renders the script for opts without touching the filesystem.
func (w *Writer) Build(opts domain.LaunchOptions) (Script, error) {
	content, err := RenderString(scriptTemplate, map[string]string{
		"tool":    w.tool,
		"date":    w.now().UTC().Format(time.RFC3339),
		"command": commandLine(opts.Args),
		"script":  pipeline.ScriptFile,
		"rules":   pipeline.RulesFile,
		"config":  pipeline.ConfigFile,
		"options": SnakemakeOptions(opts),
	})
	if err != nil {
		return Script{}, err
	}
	return Script{Name: pipeline.ScriptFile, Content: content}, nil
}

// Write saves the executable script under root and returns its path.
func (w *Writer) Write(root string, opts domain.LaunchOptions) (string, error) {
	script, err := w.Build(opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(root, script.Name)
	if err := os.WriteFile(path, []byte(script.Content), 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "launchscript.write",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "launchscript.chmod",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return path, nil
}

// SnakemakeOptions builds the snakemake arguments for the run mode, the job
// count, and the container settings.
func SnakemakeOptions(opts domain.LaunchOptions) string {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = 1
	}

	parts := []string{"-p"}
	switch opts.RunMode {
	case domain.RunModeSlurm:
		sbatch := fmt.Sprintf("sbatch --mem %s -c {threads}", opts.Slurm.Memory)
		if q := strings.TrimSpace(opts.Slurm.Queue); q != "" {
			sbatch += " --partition " + q
		}
		parts = append(parts,
			"--jobs", strconv.Itoa(jobs),
			"--cluster", shellQuote(sbatch),
		)
	default:
		parts = append(parts, "--cores", strconv.Itoa(jobs))
	}

	if opts.Apptainer.Enabled {
		parts = append(parts, "--use-singularity")
		if p := strings.TrimSpace(opts.Apptainer.Prefix); p != "" {
			parts = append(parts, "--singularity-prefix", shellQuote(p))
		}
		if a := strings.TrimSpace(opts.Apptainer.Args); a != "" {
			parts = append(parts, "--singularity-args", shellQuote(a))
		}
	}

	parts = append(parts, "--rerun-incomplete", "--keep-going", "--stats", "stats.txt")
	return strings.Join(parts, " ")
}

func commandLine(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, a := range args {
		quoted = append(quoted, shellQuote(a))
	}
	// Keep the header a single comment line.
	return strings.ReplaceAll(strings.Join(quoted, " "), "\n", " ")
}

// shellQuote wraps s in single quotes unless it only holds characters that
// sh reads literally.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_./=:,+@%", r):
		default:
			safe = false
		}
		if !safe {
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
