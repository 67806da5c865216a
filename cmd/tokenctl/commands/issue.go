package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/polyglotta/polyglotta-api/internal/config"
	"github.com/polyglotta/polyglotta-api/internal/database"
	"github.com/polyglotta/polyglotta-api/internal/token"
	"github.com/spf13/cobra"
)

// NewIssueCmd creates the token issue command
func NewIssueCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "issue <email>",
		Short: "Issue a signed token for an account",
		Long:  "Issue a signed identity token for the account with the given email. The token is printed to stdout.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]

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

			users := database.NewUserRepository(db)
			user, err := users.GetByEmail(context.Background(), email)
			if err != nil {
				return fmt.Errorf("failed to look up account %s: %w", email, err)
			}

			codec := token.NewCodec([]byte(cfg.SessionSecret), cfg.TokenTTL)
			signed, err := codec.IssueWithTTL(user.Claims(), ttl)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			fmt.Println(signed)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token validity window (defaults to TOKEN_TTL)")

	return cmd
}
