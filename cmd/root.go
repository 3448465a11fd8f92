package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/careertrack/internal/config"
	"github.com/okian/careertrack/pkg/logger"
)

// runtimeEnv is what every subcommand starts from.
type runtimeEnv struct {
	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	env := &runtimeEnv{}

	root := &cobra.Command{
		Use:           "careertrack",
		Short:         "Career plan progress tracker",
		Long:          "careertrack serves student career plans: weekly milestones, XP, streaks and badge rewards.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), env)
		},
	}
	root.PersistentFlags().String("log-level", "", "override log_level (debug, info, warn, error)")

	root.AddCommand(newServeCmd(env), newMigrateCmd(env), newTokenCmd(env), newLoadTestCmd(env))
	return root
}

// setup loads configuration (defaults -> optional file -> env) and
// initializes logging.
func (e *runtimeEnv) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	e.cfg = cfg
	e.log = log
	return nil
}
