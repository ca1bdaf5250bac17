package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/query"
	"github.com/desertthunder/tdq/internal/shared"
	"github.com/desertthunder/tdq/internal/tasks"
)

const maxBodyBytes = 1 << 20

// Retriever is the part of [tasks.Retriever] the HTTP API uses.
type Retriever interface {
	Retrieve(ctx context.Context, opts tasks.RetrieveOpts, progress chan<- tasks.ProgressUpdate) (*tasks.RetrieveResult, error)
	Inbox(ctx context.Context, ordering []string, settings models.ContextSettings, progress chan<- tasks.ProgressUpdate) (*tasks.RetrieveResult, error)
	Projects(ctx context.Context, progress chan<- tasks.ProgressUpdate) ([]models.Project, error)
	Labels(ctx context.Context, names []string, progress chan<- tasks.ProgressUpdate) ([]models.LabelView, error)
	ProjectTasks(ctx context.Context, projectID, sorting string, settings models.ContextSettings, progress chan<- tasks.ProgressUpdate) ([]models.ProjectTask, error)
}

var _ Retriever = (*tasks.Retriever)(nil)

// SortingOptions names the post-processing actions applied after retrieval.
type SortingOptions struct {
	PostProcessingActions []string `json:"postProcessingActions"`
}

// TaskRequest is the body of the task endpoints.
type TaskRequest struct {
	FilterOptions  []query.FilterOption `json:"filterOptions"`
	SortingOptions *SortingOptions      `json:"sortingOptions,omitempty"`
}

func (t TaskRequest) ordering() []string {
	if t.SortingOptions == nil {
		return nil
	}
	return t.SortingOptions.PostProcessingActions
}

// TodoistHandler serves the /todoist endpoints.
type TodoistHandler struct {
	retriever Retriever
	routes    map[string]http.HandlerFunc
}

var _ Handler = (*TodoistHandler)(nil)

// NewTodoistHandler creates the handler for the task, project and label endpoints.
func NewTodoistHandler(r Retriever) *TodoistHandler {
	h := &TodoistHandler{retriever: r}
	h.routes = map[string]http.HandlerFunc{
		http.MethodPost + " /todoist/filterTasks":   h.filterTasks,
		http.MethodPost + " /todoist/getInboxTasks": h.inboxTasks,
		http.MethodGet + " /todoist/getProjects":    h.projects,
		http.MethodPost + " /todoist/getLabels":     h.labels,

		http.MethodGet + " " + projectTasksPattern: h.projectTasks,
	}
	return h
}

const projectTasksPattern = "/todoist/getTasksByProjectId/{projectId}"

// Routes returns the HTTP routes this handler serves.
func (h *TodoistHandler) Routes() []string {
	return []string{
		"/todoist/filterTasks",
		"/todoist/getInboxTasks",
		"/todoist/getProjects",
		"/todoist/getLabels",
		projectTasksPattern,
	}
}

func (h *TodoistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dispatch(w, r, h.routes)
}

// dispatch picks the route registered for the request's method and matched pattern.
func dispatch(w http.ResponseWriter, r *http.Request, routes map[string]http.HandlerFunc) {
	pattern := r.Pattern
	if pattern == "" {
		pattern = r.URL.Path
	}
	route, ok := routes[r.Method+" "+pattern]
	if !ok {
		WriteError(w, methodNotAllowed(r))
		return
	}
	route(w, r)
}

func (h *TodoistHandler) filterTasks(w http.ResponseWriter, r *http.Request) {
	var body TaskRequest
	if err := decodeBody(r, &body, false); err != nil {
		WriteError(w, err)
		return
	}

	directives := make([]query.Directive, 0, len(body.FilterOptions))
	for _, opt := range body.FilterOptions {
		d, err := opt.Directive()
		if err != nil {
			WriteError(w, err)
			return
		}
		directives = append(directives, d)
	}

	result, err := h.retriever.Retrieve(r.Context(), tasks.RetrieveOpts{
		Directives: directives,
		Ordering:   body.ordering(),
		Settings:   SettingsFrom(r.Context()),
	}, nil)
	if err != nil {
		fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result.Tasks)
}

func (h *TodoistHandler) inboxTasks(w http.ResponseWriter, r *http.Request) {
	var body TaskRequest
	if err := decodeBody(r, &body, true); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.retriever.Inbox(r.Context(), body.ordering(), SettingsFrom(r.Context()), nil)
	if err != nil {
		fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result.Tasks)
}

func (h *TodoistHandler) projects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.retriever.Projects(r.Context(), nil)
	if err != nil {
		fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, projects)
}

func (h *TodoistHandler) labels(w http.ResponseWriter, r *http.Request) {
	var names []string
	if err := decodeBody(r, &names, true); err != nil {
		WriteError(w, err)
		return
	}

	labels, err := h.retriever.Labels(r.Context(), names, nil)
	if err != nil {
		fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, models.LabelList{Labels: labels})
}

func (h *TodoistHandler) projectTasks(w http.ResponseWriter, r *http.Request) {
	projectTasks, err := h.retriever.ProjectTasks(r.Context(), r.PathValue("projectId"),
		r.URL.Query().Get("sortingAction"), SettingsFrom(r.Context()), nil)
	if err != nil {
		fail(w, r, err)
		return
	}
	if projectTasks == nil {
		projectTasks = []models.ProjectTask{}
	}
	WriteJSON(w, http.StatusOK, projectTasks)
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	re := shared.AsResponseError(err)
	if re.Status >= http.StatusInternalServerError {
		LoggerFrom(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	WriteError(w, re)
}

// decodeBody reads a JSON body into v. An empty body is accepted when optional is set.
func decodeBody(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	err := dec.Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && optional:
		return nil
	case errors.Is(err, io.EOF):
		return shared.InvalidRequestError("request body is required")
	}

	var re *shared.ResponseError
	if errors.As(err, &re) {
		return re
	}
	return shared.InvalidRequestError("malformed request body: %v", err)
}
