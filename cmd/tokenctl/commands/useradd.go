package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/polyglotta/polyglotta-api/internal/config"
	"github.com/polyglotta/polyglotta-api/internal/database"
	"github.com/polyglotta/polyglotta-api/internal/models"
	"github.com/polyglotta/polyglotta-api/internal/provider"
	"github.com/spf13/cobra"
)

// NewUserAddCmd creates the account creation command
func NewUserAddCmd() *cobra.Command {
	var name, password, nativeLanguage string
	var targetLanguages []string

	cmd := &cobra.Command{
		Use:   "useradd <email>",
		Short: "Create an account",
		Long:  "Create a learner account with a password for the local identity provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]

			if name == "" || password == "" {
				return fmt.Errorf("required flags: --name, --password")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			hash, err := provider.HashPassword(password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			now := time.Now()
			user := &models.User{
				ID:              uuid.New(),
				Email:           email,
				Name:            name,
				NativeLanguage:  nativeLanguage,
				TargetLanguages: targetLanguages,
				PasswordHash:    hash,
				CreatedAt:       now,
				UpdatedAt:       now,
			}

			users := database.NewUserRepository(db)
			if err := users.Create(context.Background(), user); err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			fmt.Printf("Created account %s (%s)\n", email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Password for the local identity provider")
	cmd.Flags().StringVar(&nativeLanguage, "native-language", "en", "Native language code")
	cmd.Flags().StringSliceVar(&targetLanguages, "target-language", nil, "Target language code (repeatable)")

	return cmd
}
