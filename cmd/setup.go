package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/likeshift/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates a starter config file from the embedded template.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)

	r.writePlain("✓ Created %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in Spotify and YouTube client credentials\n")
	r.writePlain("2. Run 'likeshift auth spotify' and 'likeshift auth youtube'\n")
	r.writePlain("3. Run 'likeshift migrate run'\n")

	return nil
}
