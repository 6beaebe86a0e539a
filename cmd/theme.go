package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/movievault/internal/repositories"
)

// Theme prints the stored theme, or stores a new one when given.
func (r *Runner) Theme(ctx context.Context, cmd *cli.Command) error {
	store, err := r.Store()
	if err != nil {
		return err
	}
	defer r.Close()

	theme := strings.ToLower(strings.TrimSpace(cmd.Args().First()))
	if theme == "" {
		return r.writePlain("%s\n", repositories.ReadTheme(store))
	}

	if err := repositories.WriteTheme(store, theme); err != nil {
		return err
	}
	return r.writePlain("✓ Theme set to %s\n", theme)
}
