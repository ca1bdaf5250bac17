package tasks

import (
	"fmt"

	"github.com/desertthunder/tdq/internal/query"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase, 0 when unknown
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ComposeQuery Phase = iota
	FetchPages
	MapTasks
	OrderTasks
	FetchProjects
	FetchLabels
	DumpEndpoint
	ExportQuery
	FetchReminders
)

func (p Phase) String() string {
	switch p {
	case ComposeQuery:
		return "compose_query"
	case FetchPages:
		return "fetch_pages"
	case MapTasks:
		return "map_tasks"
	case OrderTasks:
		return "order_tasks"
	case FetchProjects:
		return "fetch_projects"
	case FetchLabels:
		return "fetch_labels"
	case DumpEndpoint:
		return "dump_endpoint"
	case ExportQuery:
		return "export_query"
	case FetchReminders:
		return "fetch_reminders"
	default:
		return ""
	}
}

func composedUpdate(spec query.Spec) ProgressUpdate {
	msg := fmt.Sprintf("Querying %s family (%s)", spec.Family, spec.Path)
	if q := spec.Query(); q != "" {
		msg = fmt.Sprintf("Querying %s family: %s", spec.Family, q)
	}
	return ProgressUpdate{Phase: ComposeQuery, Step: 1, Total: 1, Message: msg, Data: spec}
}

func pageUpdate(phase Phase, page, size, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    page,
		Message: fmt.Sprintf("Page %d: %d records (%d total)", page, size, total),
		Data:    total,
	}
}

func mapTasksUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MapTasks,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Resolving %d tasks...", total),
	}
}

func remindersUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchReminders,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Attaching %d reminders", count),
		Data:    count,
	}
}

func orderTasksUpdate(p *Pipeline) ProgressUpdate {
	return ProgressUpdate{
		Phase:   OrderTasks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Ordering by %v", p.Actions()),
	}
}

func dumpUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DumpEndpoint,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s...", name),
	}
}

func exportingQueryUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportQuery,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportQuery,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tasks)", step, total, name, count),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportQuery,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
