package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdq/internal/formatter"
	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/repositories"
	"github.com/desertthunder/tdq/internal/services"
	"github.com/desertthunder/tdq/internal/shared"
	"github.com/desertthunder/tdq/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	svc        services.Service
	api        tasks.APIClient
	retriever  *tasks.Retriever
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.Service
	API        tasks.APIClient
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		svc:        opts.Service,
		api:        opts.API,
		output:     opts.Output,
	}
	r.SetLogger(opts.Logger)
	return r
}

// SetLogger replaces the logger used by the runner and its retriever.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.retriever = tasks.NewRetriever(r.svc, r.api, r.config.Todoist.Paths, l)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, tasksCommand, projectsCommand, labelsCommand, settingsCommand, serveCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// defaultZone is the configured fallback time zone.
func (r *Runner) defaultZone() string {
	if r.config.Settings.TimeZone == "" {
		return "UTC"
	}
	return r.config.Settings.TimeZone
}

// contextSettings picks the time zone for a command: --tz, then the settings stored for --device,
// then the configured default.
func (r *Runner) contextSettings(cmd *cli.Command) (models.ContextSettings, error) {
	if tz := cmd.String("tz"); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("%w: --tz %q: %v", shared.ErrInvalidFlag, tz, err)
		}
		return models.StaticSettings(tz), nil
	}

	if device := cmd.String("device"); device != "" {
		db, err := shared.OpenMigrated(r.config.Database)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		settings, err := repositories.NewSettingsRepository(db).GetByDevice(device)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", device, err)
		}
		return settings, nil
	}

	return models.StaticSettings(r.defaultZone()), nil
}

// reportProgress returns a progress channel whose updates are logged at debug level.
// The returned func closes the channel and waits for the logger to drain it.
func (r *Runner) reportProgress() (chan tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 32)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for u := range progress {
			r.logger.Debug(u.Message, "phase", u.Phase, "step", u.Step, "total", u.Total)
		}
	}()

	return progress, func() {
		close(progress)
		<-done
	}
}

// writeTasks renders a task list to the output, or to path when one is given.
func (r *Runner) writeTasks(f formatter.Format, title string, list models.TaskList, path string) error {
	if path != "" {
		written, err := formatter.WriteExport(f, title, list, path)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %d tasks to %s\n", list.NumberOfTasks, written)
	}

	data, err := formatter.Render(f, title, list)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(string(data), "\n") {
		data = append(data, '\n')
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
