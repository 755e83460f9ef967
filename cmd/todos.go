package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tdx/internal/shared"
	"github.com/urfave/cli/v3"
)

// ListTodos fetches the full list from the server and prints the reconciled cache.
func (r *Runner) ListTodos(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	if err := r.todos.FetchAll(ctx); err != nil {
		return fmt.Errorf("failed to fetch todos: %w", err)
	}

	todos := r.todos.Snapshot()

	if cmd.Bool("json") {
		return r.writeJSON(todos, true)
	}

	if len(todos) == 0 {
		return r.writePlain("No todos yet. Add one with `tdx add -t <title>`.\n")
	}

	for i, todo := range todos {
		line := fmt.Sprintf("%d. %s", i+1, todo.Title)
		if todo.Description != "" {
			line += " — " + todo.Description
		}
		line += fmt.Sprintf(" (%s)", todo.ID)
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}

	return nil
}

// ShowTodo fetches a single todo by id.
func (r *Runner) ShowTodo(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: todo id", shared.ErrMissingArgument)
	}

	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	todo, err := r.todos.FetchOne(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch todo: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(todo, true)
	}

	r.writePlain("Title:       %s\n", todo.Title)
	r.writePlain("Description: %s\n", todo.Description)
	return r.writePlain("ID:          %s\n", todo.ID)
}

// AddTodo creates a todo and prints the server-assigned id.
func (r *Runner) AddTodo(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	todo, err := r.todos.Create(ctx, cmd.String("title"), cmd.String("description"))
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	r.logger.Info("todo created", "id", todo.ID)
	return r.writePlain("✓ Created %q (%s)\n", todo.Title, todo.ID)
}

// EditTodo updates a todo. Fields not given keep their current server values,
// so the current item is fetched before the update is submitted.
func (r *Runner) EditTodo(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: todo id", shared.ErrMissingArgument)
	}

	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	current, err := r.todos.FetchOne(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch todo: %w", err)
	}

	title := current.Title
	description := current.Description
	if cmd.IsSet("title") {
		title = cmd.String("title")
	}
	if cmd.IsSet("description") {
		description = cmd.String("description")
	}

	todo, err := r.todos.Update(ctx, id, title, description)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	return r.writePlain("✓ Updated %q (%s)\n", todo.Title, todo.ID)
}

// RemoveTodo deletes a todo after server confirmation.
func (r *Runner) RemoveTodo(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: todo id", shared.ErrMissingArgument)
	}

	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	if err := r.todos.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return r.writePlain("✓ Deleted %s\n", id)
}

func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Fetch and print all todos",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.ListTodos,
	}
}

func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Fetch and print a single todo",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.ShowTodo,
	}
}

func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Create a todo",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "title",
				Aliases:  []string{"t"},
				Usage:    "Todo title",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Todo description",
			},
		},
		Action: r.AddTodo,
	}
}

func editCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Update a todo's title or description",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "title",
				Aliases: []string{"t"},
				Usage:   "New title",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "New description",
			},
		},
		Action: r.EditTodo,
	}
}

func rmCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "rm",
		Usage: "Delete a todo",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Action: r.RemoveTodo,
	}
}
