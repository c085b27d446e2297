package main

import (
	"errors"

	"bookreview/internal/logging"
	"bookreview/internal/platform/crypto"
	"bookreview/internal/user"

	"github.com/spf13/cobra"
)

func superuserCommand() *cobra.Command {
	var in user.RegisterInput

	cmd := &cobra.Command{
		Use:   "superuser",
		Short: "create an account that may delete books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Username == "" || in.Email == "" {
				return errors.New("--username and --email are required")
			}
			if err := crypto.ValidatePasswordStrength(in.Password); err != nil {
				return err
			}

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			users := user.NewService(user.NewPostgresRepo(e.pool, e.cfg.DBTimeout))
			u, err := users.CreateSuperuser(cmd.Context(), in)
			if err != nil {
				return err
			}
			logging.Info().Str("user_id", u.ID).Str("username", u.Username).Msg("superuser created")
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "", "login name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (8+ chars with upper, lower, digit and symbol)")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
