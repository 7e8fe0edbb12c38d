package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/gamewise/wishlist-api/internal/config"
	"github.com/gamewise/wishlist-api/internal/database"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List database-backed configuration",
		Long:  "List the CORS and rate limit configuration stored in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			ctx := context.Background()

			corsConfig, err := database.NewCorsConfigRepository(db).Get(ctx)
			if err != nil {
				return fmt.Errorf("failed to get cors config: %w", err)
			}
			if corsConfig == nil {
				fmt.Println("CORS: not configured (server falls back to FRONTEND_URL)")
			} else {
				fmt.Println("CORS:")
				fmt.Printf("  Allowed origins: %s\n", corsConfig.AllowedOrigins)
				fmt.Printf("  Allow credentials: %v\n", corsConfig.AllowCredentials)
				fmt.Printf("  Max-Age: %d\n", corsConfig.MaxAge)
			}

			ratelimitConfig, err := database.NewRatelimitConfigRepository(db).Get(ctx)
			if err != nil {
				return fmt.Errorf("failed to get ratelimit config: %w", err)
			}
			if ratelimitConfig == nil {
				fmt.Println("Rate limit: not configured (server default applies)")
			} else {
				fmt.Printf("Rate limit: %s\n", ratelimitConfig.Rate)
			}

			return nil
		},
	}

	return cmd
}
