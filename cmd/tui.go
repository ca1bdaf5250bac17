package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tdq/internal/shared"
	"github.com/desertthunder/tdq/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive browser for saved queries.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Todoist service not initialized", shared.ErrServiceUnavailable)
	}
	if len(r.config.Queries) == 0 {
		return fmt.Errorf("%w: no saved queries in config", shared.ErrMissingConfig)
	}

	settings, err := r.contextSettings(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tdq-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.retriever, r.config.Queries, settings)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
