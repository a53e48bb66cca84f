package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sequana/pacbioqc/internal/buildinfo"
	"github.com/sequana/pacbioqc/internal/ctxlog"
	"github.com/sequana/pacbioqc/internal/domain"
	"github.com/sequana/pacbioqc/internal/infra/deps"
	"github.com/sequana/pacbioqc/internal/infra/fsworkspace"
	"github.com/sequana/pacbioqc/internal/infra/launcher"
	"github.com/sequana/pacbioqc/internal/infra/launchscript"
	"github.com/sequana/pacbioqc/internal/infra/logger"
	"github.com/sequana/pacbioqc/internal/infra/projectfinder"
	"github.com/sequana/pacbioqc/internal/infra/provenance"
	"github.com/sequana/pacbioqc/internal/infra/yamlconfig"
	"github.com/sequana/pacbioqc/internal/pipeline"
	"github.com/sequana/pacbioqc/internal/ports"
	"github.com/sequana/pacbioqc/internal/usecase"
)

const commandName = "sequana_" + pipeline.Name

// env holds the process-level collaborators so tests can replace them.
type env struct {
	args     []string
	stdout   io.Writer
	stderr   io.Writer
	prober   *deps.Prober
	launcher ports.Launcher
}

func Execute() {
	os.Exit(Main(os.Args[1:], os.Stdout, os.Stderr))
}

// Main runs the command with args and returns the process exit code.
func Main(args []string, stdout, stderr io.Writer) int {
	return run(context.Background(), args, env{
		stdout:   stdout,
		stderr:   stderr,
		prober:   deps.NewProber(),
		launcher: launcher.New(),
	})
}

func run(ctx context.Context, args []string, e env) int {
	e.args = args
	cmd := newRootCmd(e)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		exitErr = &ExitError{Code: ExitFailure, Message: userMessage(err)}
	}
	if exitErr.Message != "" {
		th := newTheme(e.stderr)
		fmt.Fprintf(e.stderr, "%s %s\n", th.Error.Render("ERROR"), exitErr.Message)
	}
	return exitErr.Code
}

type rootFlags struct {
	opts    domain.LaunchOptions
	runMode string
	level   string
	deps    bool
}

func newRootCmd(e env) *cobra.Command {
	f := rootFlags{opts: domain.DefaultLaunchOptions(), level: "INFO"}

	cmd := &cobra.Command{
		Use:   commandName + " --input-directory DIR [flags]",
		Short: "Quality control of PacBio BAM files",
		Long: commandName + " prepares a working directory for the PacBio QC pipeline:\n" +
			"it writes config.yaml and a " + pipeline.ScriptFile + " launch script next to\n" +
			"a copy of the Snakemake rules. Taxonomy runs only when Kraken databases\n" +
			"are given.",
		Version:       buildinfo.String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrepare(cmd, args, &f, e)
		},
	}
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprintln(e.stderr, c.UsageString())
		return usageError(err.Error())
	})

	fl := cmd.Flags()
	fl.SortFlags = false

	fl.StringVar(&f.opts.InputDirectory, "input-directory", "", "directory with the PacBio BAM files (required unless --from-project)")
	fl.StringVar(&f.opts.InputPattern, "input-pattern", f.opts.InputPattern, "glob selecting the input files")

	fl.BoolVar(&f.opts.DoKraken, "do-kraken", false, "request taxonomy; effective only with --kraken-databases")
	fl.BoolVar(&f.opts.SkipKraken, "skip-kraken", false, "disable taxonomy even when databases are given")
	fl.StringArrayVar(&f.opts.KrakenDatabases, "kraken-databases", nil, "one or more Kraken database paths, space separated or repeated")

	fl.StringVarP(&f.opts.WorkingDirectory, "working-directory", "w", f.opts.WorkingDirectory, "where the pipeline is prepared")
	fl.BoolVar(&f.opts.Force, "force", false, "overwrite an existing working directory")
	fl.IntVar(&f.opts.Jobs, "jobs", f.opts.Jobs, "maximum number of concurrent jobs")

	fl.StringVar(&f.runMode, "run-mode", "", "local or slurm (default: slurm when sbatch is on PATH)")
	fl.StringVar(&f.opts.Slurm.Queue, "slurm-queue", f.opts.Slurm.Queue, "slurm partition")
	fl.StringVar(&f.opts.Slurm.Memory, "slurm-memory", f.opts.Slurm.Memory, "memory per slurm job")

	fl.BoolVar(&f.opts.Apptainer.Enabled, "use-apptainer", false, "run the rules inside apptainer containers")
	fl.StringVar(&f.opts.Apptainer.Prefix, "apptainer-prefix", "", "directory where containers are stored")
	fl.StringVar(&f.opts.Apptainer.Args, "apptainer-args", "", "extra arguments passed to apptainer")

	fl.StringVar(&f.opts.FromProject, "from-project", "", "reuse the config of an existing project")
	fl.BoolVar(&f.deps, "deps", false, "show the external dependencies and exit")
	fl.StringVar(&f.level, "level", f.level, "console log level: DEBUG, INFO, WARNING, ERROR or CRITICAL")
	fl.BoolVar(&f.opts.Run, "run", false, "start "+pipeline.ScriptFile+" once the working directory is ready")

	return cmd
}

// pipelineFlags are ignored when --from-project is set.
var pipelineFlags = []string{
	"input-directory",
	"input-pattern",
	"do-kraken",
	"skip-kraken",
	"kraken-databases",
}

func runPrepare(cmd *cobra.Command, args []string, f *rootFlags, e env) error {
	th := newTheme(e.stdout)

	if f.deps {
		printDeps(e.stdout, th, e.prober.Probe())
		return nil
	}

	level, err := logger.ParseLevel(f.level)
	if err != nil {
		return usageError(err.Error())
	}

	opts := f.opts

	// --kraken-databases takes several space separated values: the words
	// right after it reach cobra as positional arguments.
	if len(args) > 0 {
		extra := krakenTail(e.args)
		for i, a := range args {
			if i >= len(extra) || extra[i] != a {
				return usageError(fmt.Sprintf("unexpected argument %q", a))
			}
		}
		opts.KrakenDatabases = append(opts.KrakenDatabases, args...)
	}

	if opts.DoKraken && opts.SkipKraken {
		return usageError("--do-kraken and --skip-kraken are mutually exclusive")
	}
	if opts.Jobs <= 0 {
		return usageError(fmt.Sprintf("--jobs must be positive, got %d", opts.Jobs))
	}

	switch mode := domain.RunMode(strings.ToLower(strings.TrimSpace(f.runMode))); mode {
	case "":
		opts.RunMode = domain.RunModeLocal
		if e.prober.Has("sbatch") {
			opts.RunMode = domain.RunModeSlurm
		}
	case domain.RunModeLocal, domain.RunModeSlurm:
		opts.RunMode = mode
	default:
		return usageError(fmt.Sprintf("invalid --run-mode %q (expected local or slurm)", f.runMode))
	}

	opts.Args = append([]string{commandName}, e.args...)

	cleanup, err := logger.Setup(logger.Config{Console: e.stderr, Level: level})
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	ctx := ctxlog.WithLogger(cmd.Context(), logger.L())
	log := ctxlog.FromContext(ctx)

	if strings.TrimSpace(opts.FromProject) != "" {
		var ignored []string
		for _, name := range pipelineFlags {
			if cmd.Flags().Changed(name) {
				ignored = append(ignored, "--"+name)
			}
		}
		if len(ignored) > 0 {
			log.Warn("--from-project copies the project config; ignoring " + strings.Join(ignored, ", "))
		}
	}

	log.Debug("options parsed",
		"working_directory", opts.WorkingDirectory,
		"run_mode", opts.RunMode,
		"jobs", opts.Jobs,
	)

	uc := newPreparePipeline(e, level)
	res, err := uc.Execute(ctx, opts)
	if err != nil {
		log.Debug("prepare failed", "error", err)
		return err
	}

	printFinal(e.stdout, th, res)
	return nil
}

func newPreparePipeline(e env, level slog.Level) *usecase.PreparePipeline {
	tmpl, err := pipeline.ConfigTemplate()
	if err != nil {
		// The template is embedded at build time.
		panic(err)
	}

	return usecase.NewPreparePipeline(
		fsworkspace.Checker{},
		fsworkspace.NewInitializer(),
		yamlconfig.NewStore(yamlconfig.WithTemplate(tmpl)),
		projectfinder.NewFinder(),
		launchscript.NewWriter(launchscript.WithTool(commandName+" "+buildinfo.Version)),
		e.launcher,
		usecase.WithVersion(buildinfo.Version),
		usecase.WithRecorder(func(root string) ports.RunRecorder {
			return provenance.NewJSONStore(root, provenance.WithIndex(true))
		}),
		usecase.WithLogSetup(func(root string) (usecase.LogSink, error) {
			cleanup, err := logger.Setup(logger.Config{
				Root:    root,
				Level:   level,
				Console: e.stderr,
			})
			if err != nil {
				return usecase.LogSink{}, err
			}
			return usecase.LogSink{
				Logger: logger.L(),
				Path:   logger.Path(),
				Close:  cleanup,
			}, nil
		}),
	)
}

// krakenTail returns the words that follow each --kraken-databases value
// on the raw command line, up to the next flag.
func krakenTail(raw []string) []string {
	var tail []string
	for i := 0; i < len(raw); i++ {
		var start int
		switch a := raw[i]; {
		case a == "--":
			return tail
		case a == "--kraken-databases":
			start = i + 2
		case strings.HasPrefix(a, "--kraken-databases="):
			start = i + 1
		default:
			continue
		}

		j := start
		for j < len(raw) && !strings.HasPrefix(raw[j], "-") {
			tail = append(tail, raw[j])
			j++
		}
		i = j - 1
	}
	return tail
}

func printDeps(w io.Writer, th theme, list []deps.Dependency) {
	fmt.Fprintln(w, th.Title.Render(commandName+" external dependencies"))
	for _, d := range list {
		if d.Found {
			fmt.Fprintf(w, "  %s %s %s\n", th.OK.Render("✓"), d.Name, th.Help.Render(d.Path))
			continue
		}
		fmt.Fprintf(w, "  %s %s %s\n", th.Warning.Render("✗"), d.Name, th.Help.Render("not found on PATH"))
	}
}

func printFinal(w io.Writer, th theme, res usecase.Result) {
	script := filepath.Join(res.WorkingDirectory, pipeline.ScriptFile)
	if res.Launched {
		fmt.Fprintf(w, "%s %s\n", th.OK.Render("Pipeline started in"), th.Path.Render(res.WorkingDirectory))
	} else {
		fmt.Fprintf(w, "Check the script in %s and %s\n", th.Path.Render(script), pipeline.ConfigFile)
		fmt.Fprintf(w, "%s\n", th.Help.Render("Once ready, start it with: cd "+res.WorkingDirectory+"; sh "+pipeline.ScriptFile))
	}
	if res.LogPath != "" {
		fmt.Fprintln(w, th.Help.Render("log: "+res.LogPath))
	}
	if res.RunID != "" {
		fmt.Fprintln(w, th.Help.Render("run id: "+res.RunID))
	}
}
