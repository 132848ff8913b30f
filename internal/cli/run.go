package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/mangoose/internal/config"
	"github.com/roach88/mangoose/internal/demo"
	"github.com/roach88/mangoose/internal/person"
	"github.com/roach88/mangoose/internal/store"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the ten-step Person sequence",
		Long: `Run the Person sequence against the configured store:

  1. insert one person          6. load, append a food, save
  2. insert a batch             7. find one by name and update age
  3. find all named Mary        8. find by id and delete
  4. find one burrito lover     9. delete every Mary
  5. find by id                10. chained query (sort, limit, exclude)

Each step's result is printed as soon as it completes. The first failing
step stops the sequence.

Example:
  MANGOOSE_URI=sqlite://mangoose.db mangoose run
  mangoose run --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSequence(rootOpts, cmd)
		},
	}
}

func runSequence(opts *RootOptions, cmd *cobra.Command) error {
	return withPeople(opts, cmd, func(ctx context.Context, s *session) error {
		runner := demo.New(s.people, s.formatter, s.log)
		if _, err := runner.Run(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return fail(s.formatter, ExitFailure, CodeStep, "interrupted", err)
			}
			return fail(s.formatter, ExitFailure, CodeStep, "sequence failed", err)
		}
		s.log.Info("sequence complete")
		return nil
	})
}

// session is what a command gets once the store is open.
type session struct {
	people    *person.Repository
	formatter *OutputFormatter
	log       *slog.Logger
}

// withPeople loads configuration, opens the store, runs fn with the people
// repository and closes the store on every path.
func withPeople(opts *RootOptions, cmd *cobra.Command, fn func(context.Context, *session) error) error {
	formatter := newFormatter(opts, cmd)
	log := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg, err := config.Load()
	if err != nil {
		return fail(formatter, ExitCommandError, CodeConfig, "configuration error", err)
	}

	log.Info("connecting", "database", cfg.Database)
	log.Debug("connection uri", "uri", cfg.URI)
	st, err := store.Open(cfg.URI)
	if err != nil {
		return fail(formatter, ExitCommandError, CodeConnect, "failed to connect", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error("error closing store", "error", closeErr)
		}
	}()
	log.Info("connected")

	var collOpts []store.CollectionOption
	if opts.IDGenerator != nil {
		collOpts = append(collOpts, store.WithIDGenerator(opts.IDGenerator))
	}
	people, err := person.NewRepository(st.Database(cfg.Database), collOpts...)
	if err != nil {
		return fail(formatter, ExitFailure, CodeStep, "failed to load schema", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, &session{people: people, formatter: formatter, log: log})
}

// newLogger returns a text logger at Info, or Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}
