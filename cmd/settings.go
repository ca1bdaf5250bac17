package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/repositories"
	"github.com/desertthunder/tdq/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) withSettings(fn func(*repositories.SettingsRepository) error) error {
	db, err := shared.OpenMigrated(r.config.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(repositories.NewSettingsRepository(db))
}

// SettingsSet creates the settings of a device, or updates the fields given as flags.
func (r *Runner) SettingsSet(ctx context.Context, cmd *cli.Command) error {
	device := cmd.String("device")

	return r.withSettings(func(repo *repositories.SettingsRepository) error {
		existing, err := repo.GetByDevice(device)
		switch {
		case errors.Is(err, shared.ErrSettingsNotFound):
			name := cmd.String("name")
			if name == "" {
				name = device
			}
			tz := cmd.String("tz")
			if tz == "" {
				tz = r.defaultZone()
			}
			s := models.NewUserSettings(0, device, name, tz)
			s.SetInboxProjectID(cmd.String("inbox"))
			if err := repo.Create(s); err != nil {
				return err
			}
			r.logger.Info("created settings", "device", device, "id", s.ID())
			return r.writeJSON(s.View(), true)
		case err != nil:
			return err
		}

		if v := cmd.String("name"); v != "" {
			existing.SetName(v)
		}
		if v := cmd.String("tz"); v != "" {
			existing.SetTimeZone(v)
		}
		if v := cmd.String("inbox"); v != "" {
			existing.SetInboxProjectID(v)
		}
		if err := existing.Validate(); err != nil {
			return err
		}
		if err := repo.Update(existing); err != nil {
			return err
		}
		r.logger.Info("updated settings", "device", device, "id", existing.ID())
		return r.writeJSON(existing.View(), true)
	})
}

// SettingsShow prints the settings of one device.
func (r *Runner) SettingsShow(ctx context.Context, cmd *cli.Command) error {
	device := cmd.StringArg("device")
	if device == "" {
		return fmt.Errorf("%w: device", shared.ErrMissingArgument)
	}

	return r.withSettings(func(repo *repositories.SettingsRepository) error {
		s, err := repo.GetByDevice(device)
		if err != nil {
			return err
		}
		return r.writeJSON(s.View(), true)
	})
}

// SettingsList prints every stored settings record, optionally narrowed to one time zone.
func (r *Runner) SettingsList(ctx context.Context, cmd *cli.Command) error {
	criteria := map[string]any{}
	if tz := cmd.String("tz"); tz != "" {
		criteria["time_zone"] = tz
	}

	return r.withSettings(func(repo *repositories.SettingsRepository) error {
		all, err := repo.List(criteria)
		if err != nil {
			return err
		}

		if cmd.Bool("json") {
			views := make([]models.SettingsView, 0, len(all))
			for _, s := range all {
				views = append(views, s.View())
			}
			return r.writeJSON(views, true)
		}

		if len(all) == 0 {
			return r.writePlain("No stored settings\n")
		}
		r.writePlainHeader(fmt.Sprintf("Settings (%d)", len(all)))
		for _, s := range all {
			r.writePlain("%3d  %-24s %-20s %s\n", s.Sequence(), s.DeviceID(), s.Name(), s.TimeZone())
		}
		return nil
	})
}

// SettingsDelete removes the settings of one device.
func (r *Runner) SettingsDelete(ctx context.Context, cmd *cli.Command) error {
	device := cmd.StringArg("device")
	if device == "" {
		return fmt.Errorf("%w: device", shared.ErrMissingArgument)
	}

	return r.withSettings(func(repo *repositories.SettingsRepository) error {
		s, err := repo.GetByDevice(device)
		if err != nil {
			return err
		}
		if err := repo.Delete(s.ID()); err != nil {
			return err
		}
		return r.writePlain("✓ Deleted settings for %s\n", device)
	})
}
