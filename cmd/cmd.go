// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// zoneFlags select the time zone tasks are resolved in.
func zoneFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "tz",
			Usage: "IANA time zone used to resolve deadlines and durations",
		},
		&cli.StringFlag{
			Name:  "device",
			Usage: "Control device whose stored settings provide the time zone",
		},
	}
}

// taskFlags are shared by every command that prints a task list.
func taskFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringSliceFlag{
			Name:  "order",
			Usage: "Post-processing action (order-by-child-order, alphabetically); repeatable, applied in order",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: table, json, yaml, csv, markdown, txt",
			Value:   "table",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to this file instead of stdout",
		},
	}, zoneFlags()...)
}

func catalogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: table or json",
			Value:   "table",
		},
	}
}

// setupCommand handles configuration and database setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the config file if needed, initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// tasksCommand handles task retrieval.
func tasksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tasks",
		Aliases: []string{"t"},
		Usage:   "Retrieve tasks",
		Commands: []*cli.Command{
			{
				Name:      "filter",
				Usage:     "Compose a request from directives and fetch every matching task",
				ArgsUsage: "[directive[=value] ...]",
				Flags:     taskFlags(),
				Action:    r.TasksFilter,
			},
			{
				Name:   "inbox",
				Usage:  "Fetch the tasks of the inbox project",
				Flags:  taskFlags(),
				Action: r.TasksInbox,
			},
			{
				Name:  "saved",
				Usage: "Run a saved query from the config, or list them when no name is given",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags:  taskFlags(),
				Action: r.TasksSaved,
			},
			{
				Name:      "export",
				Usage:     "Export saved queries concurrently, one file per query",
				ArgsUsage: "[query name ...]",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, yaml, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Output directory (default: tdq_export_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers",
						Value: 3,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Queries started per second",
						Value: 2,
					},
				}, zoneFlags()...),
				Action: r.TasksExport,
			},
			{
				Name:   "operations",
				Usage:  "List the directives and ordering actions",
				Action: r.TasksOperations,
			},
		},
	}
}

// projectsCommand lists list-style projects.
func projectsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "projects",
		Usage:  "List projects with list view style",
		Flags:  catalogFlags(),
		Action: r.Projects,
		Commands: []*cli.Command{
			{
				Name:  "tasks",
				Usage: "Top-level tasks of a project with subtasks and reminders, as JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "project"},
				},
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "sort",
						Usage: "alphabetically or due_date (undated tasks last)",
					},
				}, zoneFlags()...),
				Action: r.ProjectTasks,
			},
		},
	}
}

// labelsCommand lists labels and their colors.
func labelsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "labels",
		Usage:     "List labels with resolved colors, optionally only the named ones",
		ArgsUsage: "[name ...]",
		Flags:     catalogFlags(),
		Action:    r.Labels,
	}
}

// settingsCommand manages stored per-device settings.
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Manage per-device user settings",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Create or update the settings of a device",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "device",
						Usage:    "Control device id",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
					&cli.StringFlag{
						Name:  "tz",
						Usage: "IANA time zone",
					},
					&cli.StringFlag{
						Name:  "inbox",
						Usage: "Inbox project id",
					},
				},
				Action: r.SettingsSet,
			},
			{
				Name:  "show",
				Usage: "Show the settings of a device",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "device"},
				},
				Action: r.SettingsShow,
			},
			{
				Name:  "list",
				Usage: "List stored settings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "tz",
						Usage: "Only settings in this time zone",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SettingsList,
			},
			{
				Name:  "delete",
				Usage: "Delete the settings of a device",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "device"},
				},
				Action: r.SettingsDelete,
			},
		},
	}
}

// serveCommand starts the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the task endpoints over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default from config)",
			},
		},
		Action: r.Serve,
	}
}

// apiCommand handles direct Todoist API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct Todoist API calls",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET against the Todoist API, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "param",
						Aliases: []string{"p"},
						Usage:   "Query parameter as key=value; repeatable",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "dump",
				Usage: "First page of the tasks, projects and labels endpoints",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to api_dump.json",
						Value: false,
					},
				},
				Action: r.APIDump,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for browsing saved queries.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse saved queries and their tasks interactively",
		Flags:   zoneFlags(),
		Action:  r.TUI,
	}
}
