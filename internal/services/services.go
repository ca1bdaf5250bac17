// package services defines interface Service for reading from the Todoist REST API
package services

import (
	"context"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/query"
)

// Service reads every page of a Todoist collection.
//
// Implementations must not retry: the first failing page fails the whole call.
type Service interface {
	// FetchTasks retrieves every task matched by spec, deduplicated by id.
	FetchTasks(ctx context.Context, spec query.Spec, hook PageHook) ([]models.RawTask, error)

	// FetchProjects retrieves every project reachable through spec.
	FetchProjects(ctx context.Context, spec query.Spec, hook PageHook) ([]models.Project, error)

	// FetchLabels retrieves every personal label.
	FetchLabels(ctx context.Context, hook PageHook) ([]models.Label, error)

	// FetchReminders retrieves every reminder that has not been deleted.
	FetchReminders(ctx context.Context) ([]models.Reminder, error)

	// Name returns the name of the service
	Name() string
}
