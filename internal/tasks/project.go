package tasks

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/query"
	"github.com/desertthunder/tdq/internal/shared"
)

// Orders accepted by [Retriever.ProjectTasks]. The empty string keeps fetch order.
const (
	SortAlphabetically = "alphabetically"
	SortByDueDate      = "due_date"
)

// ProjectSortNames lists the orders a project listing accepts.
func ProjectSortNames() []string {
	return []string{SortAlphabetically, SortByDueDate}
}

// ProjectTasks retrieves the top-level tasks of a project with their direct subtasks nested and
// their reminders attached.
//
// Subtasks keep fetch order; only the top level is sorted. Tasks without a due date sort last
// under [SortByDueDate].
func (r *Retriever) ProjectTasks(ctx context.Context, projectID, sorting string, settings models.ContextSettings, progress chan<- ProgressUpdate) ([]models.ProjectTask, error) {
	if r.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, shared.InvalidRequestError("project id is required")
	}
	if sorting != "" && !slices.Contains(ProjectSortNames(), sorting) {
		return nil, shared.InvalidOrderingError(sorting)
	}
	loc, err := location(settings)
	if err != nil {
		return nil, err
	}

	req, err := query.Compose([]query.Directive{{Name: "by-project-id", Arg: query.StringArg(projectID)}})
	if err != nil {
		return nil, err
	}
	spec, err := req.Build(r.paths)
	if err != nil {
		return nil, err
	}
	sendProgress(progress, composedUpdate(spec))

	raws, err := r.svc.FetchTasks(ctx, spec, func(page, size, total int) {
		sendProgress(progress, pageUpdate(FetchPages, page, size, total))
	})
	if err != nil {
		return nil, err
	}

	reminders, err := r.svc.FetchReminders(ctx)
	if err != nil {
		return nil, err
	}
	sendProgress(progress, remindersUpdate(len(reminders)))

	alerts := make(map[string][]models.TaskDue)
	for _, rem := range reminders {
		if rem.Due != nil {
			alerts[rem.ItemID] = append(alerts[rem.ItemID], rem.Due.View())
		}
	}

	var top []models.RawTask
	children := make(map[string][]models.RawTask)
	for _, raw := range raws {
		if raw.IsDeleted || raw.ProjectID != projectID {
			continue
		}
		if raw.ParentID == "" {
			top = append(top, raw)
		} else {
			children[raw.ParentID] = append(children[raw.ParentID], raw)
		}
	}

	sendProgress(progress, mapTasksUpdate(len(raws)))
	out := make([]models.ProjectTask, 0, len(top))
	due := make(map[string]time.Time, len(top))
	for _, raw := range top {
		task, err := r.mapper.Map(raw, settings)
		if err != nil {
			return nil, err
		}
		subs, err := MapAll(r.mapper, children[raw.ID], settings)
		if err != nil {
			return nil, err
		}
		rems := alerts[raw.ID]
		if rems == nil {
			rems = []models.TaskDue{}
		}
		out = append(out, models.ProjectTask{Task: task, SubTasks: subs, Reminders: rems})

		if sorting == SortByDueDate && raw.Due != nil && raw.Due.Date != "" {
			at, err := dueInstant(*raw.Due, loc)
			if err != nil {
				return nil, fmt.Errorf("task %s due: %w", raw.ID, err)
			}
			due[raw.ID] = at
		}
	}

	switch sorting {
	case SortAlphabetically:
		slices.SortStableFunc(out, func(a, b models.ProjectTask) int {
			return strings.Compare(a.Content, b.Content)
		})
	case SortByDueDate:
		slices.SortStableFunc(out, func(a, b models.ProjectTask) int {
			at, aok := due[a.ID]
			bt, bok := due[b.ID]
			switch {
			case aok && bok:
				return at.Compare(bt)
			case aok:
				return -1
			case bok:
				return 1
			}
			return 0
		})
	}

	r.logger.Debug("retrieved project tasks", "project", projectID, "top", len(out), "reminders", len(reminders))
	return out, nil
}
