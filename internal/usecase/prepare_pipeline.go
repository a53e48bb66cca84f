package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sequana/pacbioqc/internal/ctxlog"
	"github.com/sequana/pacbioqc/internal/domain"
	"github.com/sequana/pacbioqc/internal/pipeline"
	"github.com/sequana/pacbioqc/internal/ports"
)

// LogSink is the logger attached to a working directory.
type LogSink struct {
	Logger *slog.Logger
	Path   string
	Close  func() error
}

// LogSetup attaches file logging once the working directory exists.
type LogSetup func(root string) (LogSink, error)

// PreparePipeline validates the inputs, scaffolds the working directory,
// writes config.yaml and the launch script, and optionally starts it.
type PreparePipeline struct {
	paths     ports.PathChecker
	workspace ports.WorkspaceInitializer
	configs   ports.ConfigStore
	projects  ports.ProjectLocator
	scripts   ports.ScriptWriter
	launcher  ports.Launcher

	recorder func(root string) ports.RunRecorder
	logSetup LogSetup
	version  string
	user     func() string
	now      func() time.Time
}

type PrepareOption func(*PreparePipeline)

// WithRecorder stores provenance with the recorder built for the working
// directory.
func WithRecorder(fn func(root string) ports.RunRecorder) PrepareOption {
	return func(uc *PreparePipeline) { uc.recorder = fn }
}

func WithLogSetup(fn LogSetup) PrepareOption {
	return func(uc *PreparePipeline) { uc.logSetup = fn }
}

func WithVersion(v string) PrepareOption {
	return func(uc *PreparePipeline) { uc.version = v }
}

func WithUser(fn func() string) PrepareOption {
	return func(uc *PreparePipeline) { uc.user = fn }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) PrepareOption {
	return func(uc *PreparePipeline) { uc.now = now }
}

func NewPreparePipeline(
	paths ports.PathChecker,
	workspace ports.WorkspaceInitializer,
	configs ports.ConfigStore,
	projects ports.ProjectLocator,
	scripts ports.ScriptWriter,
	launcher ports.Launcher,
	opts ...PrepareOption,
) *PreparePipeline {
	uc := &PreparePipeline{
		paths:     paths,
		workspace: workspace,
		configs:   configs,
		projects:  projects,
		scripts:   scripts,
		launcher:  launcher,
		user:      func() string { return os.Getenv("USER") },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Result describes what Execute produced.
type Result struct {
	WorkingDirectory string
	ConfigPath       string
	ScriptPath       string
	LogPath          string
	RunID            string
	Launched         bool
	Warnings         []string
}

// Execute runs every path check before creating anything, so a bad input
// directory or database never leaves a half-written working directory.
func (uc *PreparePipeline) Execute(ctx context.Context, opts domain.LaunchOptions) (Result, error) {
	log := ctxlog.FromContext(ctx)

	if strings.TrimSpace(opts.WorkingDirectory) == "" {
		return Result{}, &domain.OpError{
			Op:   "prepare.workdir",
			Kind: domain.KindInvalidInput,
			Err:  errors.New("working directory is required"),
		}
	}
	root, err := filepath.Abs(opts.WorkingDirectory)
	if err != nil {
		return Result{}, &domain.OpError{
			Op:   "prepare.workdir",
			Kind: domain.KindExecution,
			Path: opts.WorkingDirectory,
			Err:  err,
		}
	}

	res := Result{WorkingDirectory: root}

	var (
		cfg        domain.PipelineConfig
		projectCfg string
	)
	if strings.TrimSpace(opts.FromProject) != "" {
		projectCfg, err = uc.projectConfig(ctx, opts.FromProject)
	} else {
		cfg, err = uc.configFromOptions(ctx, opts, &res)
	}
	if err != nil {
		return res, err
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	log.Info("creating working directory", "path", root, "force", opts.Force)
	if err := uc.workspace.Init(domain.WorkspaceSpec{
		Root:     root,
		Pipeline: pipeline.Name,
		Force:    opts.Force,
	}); err != nil {
		return res, err
	}

	if uc.logSetup != nil {
		sink, lerr := uc.logSetup(root)
		if lerr != nil {
			log.Warn("file logging disabled", "error", lerr)
		} else {
			if sink.Close != nil {
				defer func() { _ = sink.Close() }()
			}
			if sink.Logger != nil {
				log = sink.Logger
				ctx = ctxlog.WithLogger(ctx, sink.Logger)
			}
			res.LogPath = sink.Path
		}
	}

	res.ConfigPath = filepath.Join(root, pipeline.ConfigFile)
	if projectCfg != "" {
		if err := uc.configs.Copy(projectCfg, res.ConfigPath); err != nil {
			return res, err
		}
		log.Debug("config copied", "from", projectCfg, "path", res.ConfigPath)
	} else {
		if err := uc.configs.Save(res.ConfigPath, cfg); err != nil {
			return res, err
		}
		log.Debug("config saved", "path", res.ConfigPath,
			"input_directory", cfg.InputDirectory,
			"input_pattern", cfg.InputPattern,
			"kraken", cfg.Kraken.Do,
		)
	}

	res.ScriptPath, err = uc.scripts.Write(root, opts)
	if err != nil {
		return res, err
	}
	log.Debug("launch script saved", "path", res.ScriptPath)

	if uc.recorder != nil {
		id, rerr := uc.recorder(root).SaveRun(domain.RunRecord{
			Pipeline:         pipeline.Name,
			Version:          uc.version,
			Command:          opts.Args,
			WorkingDirectory: root,
			FromProject:      opts.FromProject,
			RunMode:          opts.RunMode,
			User:             uc.user(),
			LogFile:          res.LogPath,
			CreatedAt:        uc.now(),
		})
		if rerr != nil {
			// Provenance is informative only.
			log.Warn("run record not saved", "error", rerr)
		} else {
			res.RunID = id
		}
	}

	if opts.Run {
		if uc.launcher == nil {
			return res, &domain.OpError{
				Op:   "prepare.run",
				Kind: domain.KindExecution,
				Err:  errors.New("no launcher configured"),
			}
		}
		if err := uc.launcher.Launch(ctx, root, pipeline.ScriptFile); err != nil {
			return res, err
		}
		res.Launched = true
		log.Info("pipeline started", "script", res.ScriptPath)
	}

	return res, nil
}

// projectConfig locates the config of an existing project and checks that
// it parses. The file itself is copied later, byte for byte.
func (uc *PreparePipeline) projectConfig(ctx context.Context, project string) (string, error) {
	path, err := uc.projects.FindConfig(project)
	if err != nil {
		return "", err
	}
	if _, err := uc.configs.Load(path); err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Info("reusing project config", "path", path)
	return path, nil
}

func (uc *PreparePipeline) configFromOptions(ctx context.Context, opts domain.LaunchOptions, res *Result) (domain.PipelineConfig, error) {
	log := ctxlog.FromContext(ctx)

	if strings.TrimSpace(opts.InputDirectory) == "" {
		return domain.PipelineConfig{}, &domain.OpError{
			Op:   "prepare.input",
			Kind: domain.KindInvalidInput,
			Err:  errors.New("--input-directory is required"),
		}
	}
	inputDir, err := absPath(opts.InputDirectory)
	if err != nil {
		return domain.PipelineConfig{}, err
	}
	if err := uc.paths.Exists(inputDir); err != nil {
		return domain.PipelineConfig{}, err
	}

	dbs := make([]string, 0, len(opts.KrakenDatabases))
	for _, db := range opts.KrakenDatabases {
		abs, err := absPath(db)
		if err != nil {
			return domain.PipelineConfig{}, err
		}
		if err := uc.paths.Exists(abs); err != nil {
			return domain.PipelineConfig{}, err
		}
		dbs = append(dbs, abs)
	}

	cfg, err := uc.configs.Template()
	if err != nil {
		return domain.PipelineConfig{}, err
	}

	cfg.InputDirectory = inputDir
	if p := strings.TrimSpace(opts.InputPattern); p != "" {
		cfg.InputPattern = p
	}
	cfg.Kraken = domain.ResolveKraken(opts.SkipKraken, dbs)

	matches, err := filepath.Glob(filepath.Join(inputDir, cfg.InputPattern))
	if err != nil {
		return domain.PipelineConfig{}, &domain.OpError{
			Op:   "prepare.input_pattern",
			Kind: domain.KindInvalidInput,
			Err:  fmt.Errorf("pattern %q: %w", cfg.InputPattern, err),
		}
	}
	if len(matches) == 0 {
		res.warn(log, fmt.Sprintf("no file matches %q in %s", cfg.InputPattern, inputDir))
	} else {
		log.Info("input files found", "count", len(matches), "pattern", cfg.InputPattern)
	}

	if opts.DoKraken && len(dbs) == 0 {
		res.warn(log, "--do-kraken has no effect without --kraken-databases; taxonomy is disabled")
	}

	return cfg, nil
}

func (r *Result) warn(log *slog.Logger, msg string) {
	r.Warnings = append(r.Warnings, msg)
	log.Warn(msg)
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", &domain.OpError{
			Op:   "prepare.abs",
			Kind: domain.KindExecution,
			Path: p,
			Err:  err,
		}
	}
	return abs, nil
}
