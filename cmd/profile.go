package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Profile fetches and prints the authenticated user's profile. The result is
// display-only and never cached.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	profile, err := r.auth.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, true)
	}

	r.writePlain("Username: %s\n", profile.Username)
	return r.writePlain("Email:    %s\n", profile.Email)
}

func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show the signed-in user's profile",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Profile,
	}
}
