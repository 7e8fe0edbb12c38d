package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gamewise/wishlist-api/internal/config"
	"github.com/gamewise/wishlist-api/internal/database"
	"github.com/gamewise/wishlist-api/internal/services/steam"
	"github.com/spf13/cobra"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	var steamID string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test deployment configuration",
		Long:  "Verify database connectivity and the Steam Web API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			fmt.Println("Testing database connection...")
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()
			fmt.Println("✓ Database is reachable")

			fmt.Printf("\nTesting Steam Web API key against profile %s...\n", steamID)
			client := steam.NewClient(cfg.SteamAPIKey, nil, nil)
			summary, err := client.GetPlayerSummary(ctx, steamID)
			if err != nil {
				return fmt.Errorf("steam API request failed: %w", err)
			}
			fmt.Printf("✓ Steam Web API key works (resolved persona %q)\n", summary.PersonaName)

			fmt.Println("\n✓ Configuration test passed")
			return nil
		},
	}

	// Default is a long-standing public Valve profile
	cmd.Flags().StringVar(&steamID, "steam-id", "76561197960435530", "Steam ID to resolve when testing the API key")

	return cmd
}
