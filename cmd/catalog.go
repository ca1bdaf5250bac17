package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tdq/internal/formatter"
	"github.com/desertthunder/tdq/internal/shared"
	"github.com/urfave/cli/v3"
)

// Projects prints every list-style project.
func (r *Runner) Projects(ctx context.Context, cmd *cli.Command) error {
	asJSON, err := catalogFormat(cmd)
	if err != nil {
		return err
	}

	progress, wait := r.reportProgress()
	projects, err := r.retriever.Projects(ctx, progress)
	wait()
	if err != nil {
		return err
	}

	if asJSON {
		return r.writeJSON(projects, true)
	}
	return formatter.RenderProjectTable(r.output, projects)
}

// ProjectTasks prints the nested task tree of one project.
func (r *Runner) ProjectTasks(ctx context.Context, cmd *cli.Command) error {
	project := cmd.StringArg("project")
	if project == "" {
		return fmt.Errorf("%w: project", shared.ErrMissingArgument)
	}

	settings, err := r.contextSettings(cmd)
	if err != nil {
		return err
	}

	progress, wait := r.reportProgress()
	tree, err := r.retriever.ProjectTasks(ctx, project, cmd.String("sort"), settings, progress)
	wait()
	if err != nil {
		return err
	}
	return r.writeJSON(tree, true)
}

// Labels prints labels with their resolved colors. Positional names narrow the list.
func (r *Runner) Labels(ctx context.Context, cmd *cli.Command) error {
	asJSON, err := catalogFormat(cmd)
	if err != nil {
		return err
	}

	progress, wait := r.reportProgress()
	labels, err := r.retriever.Labels(ctx, cmd.Args().Slice(), progress)
	wait()
	if err != nil {
		return err
	}

	if asJSON {
		return r.writeJSON(labels, true)
	}
	return formatter.RenderLabelTable(r.output, labels)
}

func catalogFormat(cmd *cli.Command) (bool, error) {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return false, err
	}
	switch f {
	case formatter.Table:
		return false, nil
	case formatter.JSON:
		return true, nil
	default:
		return false, fmt.Errorf("%w: catalogs print as table or json, not %s", shared.ErrInvalidFlag, f)
	}
}
