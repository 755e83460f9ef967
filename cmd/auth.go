package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/tdx/internal/services"
	"github.com/desertthunder/tdx/internal/session"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Register creates a new account against the remote service. Registration
// never authenticates; the user logs in afterwards.
func (r *Runner) Register(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")
	email := cmd.String("email")

	r.logger.Info("registering account", "username", username)

	if err := r.auth.Register(ctx, username, password, email); err != nil {
		var apiErr *services.APIError
		if errors.As(err, &apiErr) && errors.Is(err, shared.ErrValidationFailed) {
			// Server message is written for the user; show it as-is.
			return fmt.Errorf("registration rejected: %s", apiErr.Message)
		}
		return fmt.Errorf("registration failed: %w", err)
	}

	return r.writePlain("✓ Account created. Run `tdx login` to sign in.\n")
}

// Login exchanges credentials for a bearer token and persists it.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	token, err := r.auth.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			return fmt.Errorf("login failed: invalid credentials")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if err := r.creds.SetToken(ctx, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	r.sess.MarkAuthenticated()

	r.logger.Info("login successful", "username", username)
	return r.writePlain("✓ Logged in as %s\n", username)
}

// Logout clears the stored token. Purely local: the server is not told.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	r.sess.Bootstrap(ctx)

	if err := r.sess.Logout(ctx); err != nil {
		return fmt.Errorf("failed to clear stored token: %w", err)
	}

	return r.writePlain("✓ Logged out\n")
}

// Status prints the resolved session state.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	status := r.sess.Bootstrap(ctx)

	if status == session.StatusAuthenticated {
		return r.writePlain("Session: authenticated\n")
	}
	return r.writePlain("Session: unauthenticated\n")
}

func registerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create a new account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Account username",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Usage:    "Account password",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "Account email address",
				Required: true,
			},
		},
		Action: r.Register,
	}
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and store the bearer token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Account username",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Usage:    "Account password",
				Required: true,
			},
		},
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Sign out and forget the stored token",
		Action: r.Logout,
	}
}

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show whether a session token is stored",
		Action: r.Status,
	}
}
