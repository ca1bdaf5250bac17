package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/tdq/internal/formatter"
	"github.com/desertthunder/tdq/internal/query"
	"github.com/desertthunder/tdq/internal/shared"
	"github.com/desertthunder/tdq/internal/tasks"
	"github.com/urfave/cli/v3"
)

// TasksFilter composes the positional directives into one request and prints the tasks.
func (r *Runner) TasksFilter(ctx context.Context, cmd *cli.Command) error {
	directives, err := query.ParseDirectives(cmd.Args().Slice())
	if err != nil {
		return err
	}
	return r.retrieve(ctx, cmd, "Filtered tasks", func(opts tasks.RetrieveOpts, progress chan<- tasks.ProgressUpdate) (*tasks.RetrieveResult, error) {
		opts.Directives = directives
		return r.retriever.Retrieve(ctx, opts, progress)
	})
}

// TasksInbox prints the tasks of the inbox project.
func (r *Runner) TasksInbox(ctx context.Context, cmd *cli.Command) error {
	return r.retrieve(ctx, cmd, "Inbox", func(opts tasks.RetrieveOpts, progress chan<- tasks.ProgressUpdate) (*tasks.RetrieveResult, error) {
		return r.retriever.Inbox(ctx, opts.Ordering, opts.Settings, progress)
	})
}

// TasksSaved runs a saved query by name. Without a name it lists the saved queries.
func (r *Runner) TasksSaved(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return r.listSavedQueries()
	}

	q, ok := r.config.Query(name)
	if !ok {
		return fmt.Errorf("%w: no saved query named %q", shared.ErrInvalidArgument, name)
	}

	return r.retrieve(ctx, cmd, q.Name, func(opts tasks.RetrieveOpts, progress chan<- tasks.ProgressUpdate) (*tasks.RetrieveResult, error) {
		// --order replaces the ordering stored with the query
		if len(opts.Ordering) > 0 {
			q.Ordering = opts.Ordering
		}
		return r.retriever.Saved(ctx, q, opts.Settings, progress)
	})
}

func (r *Runner) listSavedQueries() error {
	if len(r.config.Queries) == 0 {
		return r.writePlain("No saved queries in %s\n", r.configPath)
	}

	r.writePlainHeader("Saved queries")
	for _, q := range r.config.Queries {
		r.writePlain("%-20s %s\n", q.Name, strings.Join(q.Filters, " "))
		if len(q.Ordering) > 0 {
			r.writePlain("%-20s ordered %s\n", "", strings.Join(q.Ordering, ", "))
		}
	}
	return nil
}

// retrieve resolves the shared task flags, runs fetch and prints its result.
func (r *Runner) retrieve(
	ctx context.Context,
	cmd *cli.Command,
	title string,
	fetch func(tasks.RetrieveOpts, chan<- tasks.ProgressUpdate) (*tasks.RetrieveResult, error),
) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	settings, err := r.contextSettings(cmd)
	if err != nil {
		return err
	}

	progress, wait := r.reportProgress()
	result, err := fetch(tasks.RetrieveOpts{Ordering: cmd.StringSlice("order"), Settings: settings}, progress)
	wait()
	if err != nil {
		return err
	}

	r.logger.Info("retrieved tasks", "family", result.Spec.Family, "pages", result.Pages, "count", result.Tasks.NumberOfTasks)
	return r.writeTasks(f, title, result.Tasks, cmd.String("output"))
}

// TasksExport runs saved queries through the bulk exporter and prints the manifest summary.
func (r *Runner) TasksExport(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if f == formatter.Table {
		return fmt.Errorf("%w: table is not an export format", shared.ErrInvalidFlag)
	}

	queries := r.config.Queries
	if names := cmd.Args().Slice(); len(names) > 0 {
		queries = make([]shared.QueryConfig, 0, len(names))
		for _, name := range names {
			q, ok := r.config.Query(name)
			if !ok {
				return fmt.Errorf("%w: no saved query named %q", shared.ErrInvalidArgument, name)
			}
			queries = append(queries, q)
		}
	}

	settings, err := r.contextSettings(cmd)
	if err != nil {
		return err
	}

	progress, wait := r.reportProgress()
	result, err := r.retriever.BulkExport(ctx, progress, queries, tasks.BulkExportOpts{
		Format:     f,
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
		Settings:   settings,
	})
	wait()
	if err != nil {
		return err
	}

	r.writePlainHeader("Export complete")
	for _, res := range result.Results {
		if res.Success {
			r.writePlain("✓ %-20s %4d tasks  %s\n", res.Name, res.TaskCount, strings.Join(res.Files, ", "))
		} else {
			r.writePlain("✗ %-20s %s\n", res.Name, res.ErrorText)
		}
	}
	r.writePlainln("%d of %d queries exported to %s", result.SuccessfulExports, result.TotalQueries, result.OutputDirectory)
	return r.writePlain("Manifest: %s\n", result.ManifestPath)
}

// TasksOperations lists every directive by argument shape, then the ordering actions.
func (r *Runner) TasksOperations(ctx context.Context, cmd *cli.Command) error {
	shapes := []query.Shape{
		query.ShapeNone, query.ShapeString, query.ShapeInt, query.ShapeRange, query.ShapePriority, query.ShapePriorityList,
	}

	r.writePlainHeader("Directives")
	for _, s := range shapes {
		r.writePlain("%s argument:\n", s)
		for _, name := range query.Names(s) {
			r.writePlain("  %s\n", name)
		}
	}
	r.writePlainln("Ordering actions:")
	for _, name := range tasks.ActionNames() {
		r.writePlain("  %s\n", name)
	}
	return nil
}
