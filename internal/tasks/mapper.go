package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
)

const (
	dateLayout      = "2006-01-02"
	localTimeLayout = "2006-01-02T15:04:05"
)

// Mapper converts raw tasks into tasks whose deadline and duration are instants in the
// caller's time zone.
type Mapper interface {
	Map(raw models.RawTask, settings models.ContextSettings) (models.Task, error)
}

// ZoneMapper is the default [Mapper].
type ZoneMapper struct{}

var _ Mapper = ZoneMapper{}

// Map resolves deadline and duration in settings' zone (UTC when empty). The duration is only
// resolved when the task also has a due date, since it starts there.
func (ZoneMapper) Map(raw models.RawTask, settings models.ContextSettings) (models.Task, error) {
	loc, err := location(settings)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:          raw.ID,
		ProjectID:   raw.ProjectID,
		SectionID:   raw.SectionID,
		ParentID:    raw.ParentID,
		Labels:      raw.Labels,
		Priority:    raw.Priority,
		ChildOrder:  raw.ChildOrder,
		Content:     raw.Content,
		Description: raw.Description,
		NoteCount:   raw.NoteCount,
	}
	if task.Labels == nil {
		task.Labels = []string{}
	}

	if raw.Deadline != nil && raw.Deadline.Date != "" {
		t, err := ParseInstant(raw.Deadline.Date, loc, loc)
		if err != nil {
			return models.Task{}, fmt.Errorf("task %s deadline: %w", raw.ID, err)
		}
		task.Deadline = &models.ZonedTime{Time: t}
	}

	if raw.Due != nil {
		due := raw.Due.View()
		task.Due = &due

		if raw.Duration != nil && raw.Due.Date != "" {
			span, err := resolveSpan(*raw.Duration, *raw.Due, loc)
			if err != nil {
				return models.Task{}, fmt.Errorf("task %s duration: %w", raw.ID, err)
			}
			task.Duration = span
		}
	}

	return task, nil
}

// MapAll maps every task, failing on the first one that cannot be resolved.
func MapAll(m Mapper, raws []models.RawTask, settings models.ContextSettings) ([]models.Task, error) {
	out := make([]models.Task, 0, len(raws))
	for _, raw := range raws {
		t, err := m.Map(raw, settings)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func location(settings models.ContextSettings) (*time.Location, error) {
	if settings == nil || settings.TimeZone() == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(settings.TimeZone())
	if err != nil {
		return nil, shared.InvalidRequestError("unknown time zone '%s'", settings.TimeZone())
	}
	return loc, nil
}

// ParseInstant reads a Todoist date or datetime and returns it as an instant in out.
//
// A date becomes the start of that day in out. A datetime with Z or an offset is absolute;
// a floating datetime is read in floating.
func ParseInstant(value string, floating, out *time.Location) (time.Time, error) {
	if !strings.Contains(value, "T") {
		d, err := time.ParseInLocation(dateLayout, value, out)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: invalid date %q", shared.ErrInvalidInput, value)
		}
		return d, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(out), nil
	}
	t, err := time.ParseInLocation(localTimeLayout, strings.TrimSuffix(value, ".000000"), floating)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid datetime %q", shared.ErrInvalidInput, value)
	}
	return t.In(out), nil
}

// dueInstant reads due.Date in loc. A floating datetime is read in the due's own zone when it has one.
func dueInstant(due models.Due, loc *time.Location) (time.Time, error) {
	floating := loc
	if due.TimeZone != "" {
		if l, err := time.LoadLocation(due.TimeZone); err == nil {
			floating = l
		}
	}
	return ParseInstant(due.Date, floating, loc)
}

func resolveSpan(d models.Duration, due models.Due, loc *time.Location) (*models.Span, error) {
	start, err := dueInstant(due, loc)
	if err != nil {
		return nil, err
	}

	var end time.Time
	switch d.Unit {
	case "day":
		end = start.AddDate(0, 0, d.Amount)
	default:
		end = start.Add(time.Duration(d.Amount) * time.Minute)
	}
	return &models.Span{Start: models.ZonedTime{Time: start}, End: models.ZonedTime{Time: end}}, nil
}
