package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/polyglotta/polyglotta-api/internal/config"
	"github.com/polyglotta/polyglotta-api/internal/token"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the token inspect command
func NewInspectCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Inspect a token's claims",
		Long:  "Decode a token and print its claims. Without --verify the signature is NOT checked; the output is advisory only.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenString := args[0]

			if verify {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				codec := token.NewCodec([]byte(cfg.SessionSecret), cfg.TokenTTL)
				claims, err := codec.Validate(tokenString)
				if err != nil {
					return fmt.Errorf("token failed validation: %w", err)
				}
				fmt.Println("Signature: valid")
				return printClaims(claims)
			}

			claims, err := token.Decode(tokenString)
			if err != nil {
				return fmt.Errorf("failed to decode token: %w", err)
			}

			fmt.Println("Signature: NOT CHECKED (use --verify)")
			if token.IsExpired(tokenString) {
				fmt.Println("Expiry: expired")
			} else {
				fmt.Println("Expiry: valid")
			}
			return printClaims(claims)
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Verify the signature against SESSION_SECRET")

	return cmd
}

func printClaims(claims any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(claims)
}
