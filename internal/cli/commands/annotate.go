package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ccollicutt/logdelta/internal/logging"
	"github.com/ccollicutt/logdelta/pkg/annotator"
	"github.com/ccollicutt/logdelta/pkg/config"
	"github.com/ccollicutt/logdelta/pkg/output"
	"github.com/ccollicutt/logdelta/pkg/parser"
)

// Flag names, shared by the flag set and the config-file override logic.
const (
	flagConfig              = "config"
	flagTimeField           = "time-field"
	flagInsertSincePrevious = "insert-millis-since-previous"
	flagInsertSinceStart    = "insert-millis-since-start"
	flagInjectSincePrevious = "inject-millis-since-previous"
	flagInjectSinceStart    = "inject-millis-since-start"
	flagFollow              = "follow"
	flagSummary             = "summary"
	flagLogLevel            = "log-level"
	flagCheck               = "check"
)

// AnnotateOptions holds command-line options for the annotate command.
type AnnotateOptions struct {
	ConfigPath string
	TimeField  string

	InsertSincePrevious bool
	InsertSinceStart    bool
	InjectSincePrevious bool
	InjectSinceStart    bool

	Follow   bool
	Summary  string
	LogLevel string
	Check    bool
}

// NewAnnotateCommand creates the annotate command. It is the root command
// of the binary.
func NewAnnotateCommand() *cobra.Command {
	opts := &AnnotateOptions{}

	cmd := &cobra.Command{
		Use:   "logdelta [filename]",
		Short: "Insert or inject time calculations into JSON logs from file or STDIN",
		Long: `Read newline-delimited JSON log records from a file or STDIN and compute
elapsed time between them.

For every record whose time field holds an RFC 3339 timestamp, logdelta
computes the milliseconds since the previous timestamped record and since
the first one. Deltas can be:
  - inserted as separate JSON lines before the record (-i, -s)
  - injected as fields into the record itself (-I, -S)

Records without a usable time field pass through unchanged.

Exit codes:
  0 - Success
  2 - Read failure, invalid JSON, invalid timestamp, or configuration error`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().BoolVarP(&opts.InsertSincePrevious, flagInsertSincePrevious, "i", false, "Insert new JSON lines with milliseconds since the previous line")
	cmd.Flags().BoolVarP(&opts.InsertSinceStart, flagInsertSinceStart, "s", false, "Insert new JSON lines with total milliseconds elapsed since the first line")
	cmd.Flags().BoolVarP(&opts.InjectSincePrevious, flagInjectSincePrevious, "I", false, "Inject a new JSON field with milliseconds since the previous line")
	cmd.Flags().BoolVarP(&opts.InjectSinceStart, flagInjectSinceStart, "S", false, "Inject a new JSON field with total milliseconds elapsed since the first line")
	cmd.Flags().StringVarP(&opts.TimeField, flagTimeField, "t", config.DefaultTimeField, "The JSON field to use for time values")

	cmd.Flags().StringVarP(&opts.ConfigPath, flagConfig, "c", "", "YAML file with default settings (flags override it)")
	cmd.Flags().BoolVarP(&opts.Follow, flagFollow, "f", false, "Keep reading the file as it grows")
	cmd.Flags().StringVar(&opts.Summary, flagSummary, "", "Write a run summary to stderr (text|json)")
	cmd.Flags().StringVar(&opts.LogLevel, flagLogLevel, config.DefaultLogLevel, "Diagnostic log level (debug|info|warn|error)")
	cmd.Flags().BoolVar(&opts.Check, flagCheck, false, "Print the resolved settings and exit without reading input")

	return cmd
}

func runAnnotate(cmd *cobra.Command, args []string, opts *AnnotateOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := resolveConfig(ctx, cmd, opts)
	if err != nil {
		return err
	}

	if opts.Check {
		return printResolvedConfig(cmd.OutOrStdout(), cfg, args)
	}

	logger := logging.Init(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel))

	if cfg.Follow && len(args) == 0 {
		return errors.New("--follow requires a filename")
	}

	source, name, err := openSource(cmd, args, cfg.Follow)
	if err != nil {
		return err
	}
	defer source.Close()

	annotatorOpts := annotatorOptions(cfg)
	logger.Debug("starting",
		"source", name,
		"time_field", annotatorOpts.TimeField,
		"modes", output.Modes(annotatorOpts),
		"follow", cfg.Follow)

	out := output.NewLineWriter(cmd.OutOrStdout(), cfg.Follow)
	a := annotator.New(annotatorOpts, out, annotator.WithLogger(logger))

	startedAt := time.Now()
	runErr := a.Run(ctx, source)
	if errors.Is(runErr, context.Canceled) {
		// Interrupted while following: a normal way to stop.
		logger.Debug("stopped", "reason", runErr)
		runErr = nil
	}

	// Output already produced is kept, even when the run failed.
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = &annotator.LineError{Source: "stdout", Kind: annotator.ErrIO, Err: err}
	}
	if runErr != nil {
		return runErr
	}

	if cfg.Summary != config.SummaryNone {
		report := output.NewReport(a.Stats(), a.Options(), name, startedAt, time.Now())
		formatter, err := output.NewFormatter(cfg.Summary, output.FormatOptions{Verbose: true})
		if err != nil {
			return err
		}
		if err := formatter.Format(ctx, report, cmd.ErrOrStderr()); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	return nil
}

// resolveConfig layers the optional config file under the flags that were
// explicitly set on the command line.
func resolveConfig(ctx context.Context, cmd *cobra.Command, opts *AnnotateOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(ctx, opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed(flagTimeField) {
		cfg.TimeField = opts.TimeField
	}
	if flags.Changed(flagInsertSincePrevious) {
		cfg.Insert.SincePrevious = opts.InsertSincePrevious
	}
	if flags.Changed(flagInsertSinceStart) {
		cfg.Insert.SinceStart = opts.InsertSinceStart
	}
	if flags.Changed(flagInjectSincePrevious) {
		cfg.Inject.SincePrevious = opts.InjectSincePrevious
	}
	if flags.Changed(flagInjectSinceStart) {
		cfg.Inject.SinceStart = opts.InjectSinceStart
	}
	if flags.Changed(flagFollow) {
		cfg.Follow = opts.Follow
	}
	if flags.Changed(flagSummary) {
		cfg.Summary = opts.Summary
	}
	if flags.Changed(flagLogLevel) {
		cfg.LogLevel = opts.LogLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func annotatorOptions(cfg *config.Config) annotator.Options {
	return annotator.Options{
		TimeField:           cfg.TimeField,
		InsertSincePrevious: cfg.Insert.SincePrevious,
		InsertSinceStart:    cfg.Insert.SinceStart,
		InjectSincePrevious: cfg.Inject.SincePrevious,
		InjectSinceStart:    cfg.Inject.SinceStart,
	}
}

// isTerminal is replaced in tests.
var isTerminal = term.IsTerminal

// openSource opens the named file, or falls back to the command's stdin.
func openSource(cmd *cobra.Command, args []string, follow bool) (parser.LineSource, string, error) {
	if len(args) == 0 {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
			// Warn so the hint shows at the default log level.
			slog.Warn("reading NDJSON from terminal, end input with Ctrl-D")
		}
		return parser.NewReaderSource(parser.StdinName, in), parser.StdinName, nil
	}

	path := args[0]
	var (
		source parser.LineSource
		err    error
	)
	if follow {
		source, err = parser.Follow(path)
	} else {
		source, err = parser.OpenFile(path)
	}
	if err != nil {
		return nil, "", &annotator.LineError{Source: "input", Kind: annotator.ErrIO, Err: err}
	}
	return source, path, nil
}
