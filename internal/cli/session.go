package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/medstore/internal/config"
	"github.com/roach88/medstore/internal/store"
)

// configError marks a failure to resolve settings.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// session is the per-invocation state shared by the store-backed commands.
type session struct {
	cfg    *config.Config
	store  *store.Store
	out    *OutputFormatter
	seeded int
}

// newOutput builds the formatter for one invocation and installs the slog
// default logger tagged with the invocation's trace id.
func newOutput(opts *RootOptions, cmd *cobra.Command, level slog.Level) *OutputFormatter {
	traceID := opts.tracer().Generate()

	if opts.Verbose {
		level = slog.LevelDebug
	}
	logWriter := opts.LogWriter
	if logWriter == nil {
		logWriter = cmd.ErrOrStderr()
	}
	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler).With("trace_id", traceID))

	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   traceID,
	}
}

// resolveConfig loads the config file and environment, then applies flags
// that were set explicitly.
func resolveConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &configError{err: err}
	}
	if opts.dbSet {
		cfg.DBPath = opts.Database
	}
	if opts.seedSet {
		cfg.Seed = opts.Seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, &configError{err: err}
	}
	return cfg, nil
}

// withSession opens the store, seeds it when configured, runs fn and closes
// the store. Any error from setup or fn is reported through the formatter.
func withSession(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, cfgErr := resolveConfig(opts)
	level := slog.LevelInfo
	if cfgErr == nil {
		level = cfg.SlogLevel()
	}
	out := newOutput(opts, cmd, level)
	if cfgErr != nil {
		return out.Fail(cfgErr)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return out.Fail(&configError{err: err})
	}

	slog.Debug("opening database", "path", cfg.DBPath)
	st, err := store.Open(cfg.DBPath, store.WithClock(opts.now))
	if err != nil {
		return out.Fail(err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	s := &session{cfg: cfg, store: st, out: out}
	if cfg.Seed {
		s.seeded, err = st.SeedIfEmpty(ctx)
		if err != nil {
			return out.Fail(err)
		}
	}

	if err := fn(ctx, s); err != nil {
		if IsReported(err) {
			return err
		}
		return out.Fail(err)
	}
	return nil
}
