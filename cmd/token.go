package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/careertrack/internal/adapters/http/api"
)

func newTokenCmd(env *runtimeEnv) *cobra.Command {
	var student string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a student",
		RunE: func(cmd *cobra.Command, _ []string) error {
			student = strings.TrimSpace(student)
			if student == "" {
				return errors.New("--student is required")
			}
			auth := api.NewAuthenticator(env.cfg.JWTSecret, false)
			token, err := auth.Issue(student, env.cfg.TokenTTL())
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&student, "student", "", "student id placed in the token")
	return cmd
}
