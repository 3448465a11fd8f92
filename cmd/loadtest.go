package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/loadtest"
)

func newLoadTestCmd(env *runtimeEnv) *cobra.Command {
	cfg := loadtest.DefaultConfig()
	var (
		difficulty string
		keep       bool
	)
	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Drive a running server through add, complete and verify",
		Long: "loadtest creates one plan per synthetic student, completes every task twice " +
			"concurrently and checks XP, progress, streaks and rewards reported by the server.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := model.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			cfg.Difficulty = d
			cfg.Cleanup = !keep
			if env.cfg != nil && !env.cfg.AuthDisabled {
				cfg.Secret = env.cfg.JWTSecret
			}

			stats, err := loadtest.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"plans=%d completions=%d duplicates=%d rewards=%d duration=%s\n",
				stats.PlansVerified, stats.TasksCompleted, stats.TasksDuplicate, stats.RewardsUnlocked, stats.Duration)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "base URL of the service")
	f.IntVar(&cfg.Students, "students", cfg.Students, "number of synthetic students")
	f.IntVar(&cfg.Weeks, "weeks", cfg.Weeks, "milestones per plan")
	f.IntVar(&cfg.TasksPer, "tasks", cfg.TasksPer, "tasks per milestone")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	f.StringVar(&difficulty, "difficulty", string(cfg.Difficulty), "plan difficulty: easy, medium or hard")
	f.BoolVar(&keep, "keep", false, "keep the plans instead of deleting them")
	f.BoolVar(&cfg.Verbose, "verbose", false, "log every completion")
	return cmd
}
