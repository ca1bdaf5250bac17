// package tasks implements task retrieval on top of the query builder and the Todoist service.
//
// The core abstraction is Retriever, which composes a query, fetches every page, resolves tasks
// in the caller's time zone and orders them. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/query"
	"github.com/desertthunder/tdq/internal/services"
	"github.com/desertthunder/tdq/internal/shared"
)

// RetrieveOpts describes one task retrieval.
type RetrieveOpts struct {
	Directives []query.Directive      // Applied in order to a fresh request
	Ordering   []string               // Post-processing action names
	Settings   models.ContextSettings // Time zone used to resolve deadlines and durations
}

// RetrieveResult contains the tasks and the request that produced them.
type RetrieveResult struct {
	Spec  query.Spec
	Pages int
	Tasks models.TaskList
}

// EndpointResult represents the result of fetching a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// DumpResult contains the raw first page of every configured collection.
type DumpResult struct {
	Tasks    any              // First page of the tasks endpoint
	Projects any              // First page of the projects endpoint
	Labels   any              // First page of the labels endpoint
	Errors   []EndpointResult // Failed endpoint fetches
}

type DumpData struct {
	Tasks    any   `json:"tasks,omitempty"`
	Projects any   `json:"projects,omitempty"`
	Labels   any   `json:"labels,omitempty"`
	Errors   []any `json:"errors,omitempty"`
}

type endpointOperation struct {
	name   string
	path   string
	target *any
}

// APIClient defines the interface for making raw API requests.
type APIClient interface {
	Get(ctx context.Context, path string, params url.Values) (*services.APIResponse, error)
}

// Retriever runs task, project and label retrievals against a [services.Service].
//
// A Retriever holds no per-request state and may serve concurrent retrievals.
type Retriever struct {
	svc        services.Service
	api        APIClient
	paths      query.Paths
	labelsPath string
	mapper     Mapper
	logger     *log.Logger
}

// NewRetriever creates a Retriever. api may be nil when raw dumps are not needed.
func NewRetriever(svc services.Service, api APIClient, paths shared.PathsConfig, logger *log.Logger) *Retriever {
	if logger == nil {
		logger = log.Default()
	}
	return &Retriever{
		svc:        svc,
		api:        api,
		paths:      query.PathsFromConfig(paths),
		labelsPath: paths.Labels,
		mapper:     ZoneMapper{},
		logger:     logger,
	}
}

// WithMapper replaces the result mapper.
func (r *Retriever) WithMapper(m Mapper) *Retriever {
	r.mapper = m
	return r
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Retrieve composes opts into a request, fetches every page, maps and orders the tasks.
//
// Ordering names and directives are validated before anything is fetched.
func (r *Retriever) Retrieve(ctx context.Context, opts RetrieveOpts, progress chan<- ProgressUpdate) (*RetrieveResult, error) {
	if r.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	pipeline, err := NewPipeline(opts.Ordering)
	if err != nil {
		return nil, err
	}

	req, err := query.Compose(opts.Directives)
	if err != nil {
		return nil, err
	}
	spec, err := req.Build(r.paths)
	if err != nil {
		return nil, err
	}
	if expr := req.Expression(); expr != "" && spec.Query() == "" {
		r.logger.Debug("dropping filter expression outside filtered family", "family", spec.Family, "expression", expr)
	}
	sendProgress(progress, composedUpdate(spec))

	result := &RetrieveResult{Spec: spec}
	raws, err := r.svc.FetchTasks(ctx, spec, func(page, size, total int) {
		result.Pages = page
		sendProgress(progress, pageUpdate(FetchPages, page, size, total))
	})
	if err != nil {
		return nil, err
	}

	sendProgress(progress, mapTasksUpdate(len(raws)))
	mapped, err := MapAll(r.mapper, raws, opts.Settings)
	if err != nil {
		return nil, err
	}

	if !pipeline.Empty() {
		sendProgress(progress, orderTasksUpdate(pipeline))
	}
	result.Tasks = models.NewTaskList(pipeline.Apply(mapped))

	r.logger.Debug("retrieved tasks", "family", spec.Family, "pages", result.Pages, "count", result.Tasks.NumberOfTasks)
	return result, nil
}

// Inbox retrieves the tasks of the inbox project.
func (r *Retriever) Inbox(ctx context.Context, ordering []string, settings models.ContextSettings, progress chan<- ProgressUpdate) (*RetrieveResult, error) {
	return r.Retrieve(ctx, RetrieveOpts{
		Directives: []query.Directive{{Name: "in-inbox", Arg: query.NoArg()}},
		Ordering:   ordering,
		Settings:   settings,
	}, progress)
}

// Saved runs a named query from the configuration.
func (r *Retriever) Saved(ctx context.Context, q shared.QueryConfig, settings models.ContextSettings, progress chan<- ProgressUpdate) (*RetrieveResult, error) {
	directives, err := query.ParseDirectives(q.Filters)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Name, err)
	}
	return r.Retrieve(ctx, RetrieveOpts{Directives: directives, Ordering: q.Ordering, Settings: settings}, progress)
}

// Projects retrieves every list-style project, sorted by name.
func (r *Retriever) Projects(ctx context.Context, progress chan<- ProgressUpdate) ([]models.Project, error) {
	if r.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	spec, err := query.NewRequest().Init(models.Secondary).Build(r.paths)
	if err != nil {
		return nil, err
	}

	projects, err := r.svc.FetchProjects(ctx, spec, func(page, size, total int) {
		sendProgress(progress, pageUpdate(FetchProjects, page, size, total))
	})
	if err != nil {
		return nil, err
	}
	return models.ListProjects(projects), nil
}

// Labels retrieves labels with their colors resolved. An empty names list returns every label.
func (r *Retriever) Labels(ctx context.Context, names []string, progress chan<- ProgressUpdate) ([]models.LabelView, error) {
	if r.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	labels, err := r.svc.FetchLabels(ctx, func(page, size, total int) {
		sendProgress(progress, pageUpdate(FetchLabels, page, size, total))
	})
	if err != nil {
		return nil, err
	}
	return models.FilterLabels(labels, names), nil
}

// Dump fetches the raw first page of every configured collection. Failures are collected, not returned.
func (r *Retriever) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if r.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{Errors: []EndpointResult{}}
	endpoints := []endpointOperation{
		{name: "tasks", path: r.paths.Primary, target: &result.Tasks},
		{name: "projects", path: r.paths.Secondary, target: &result.Projects},
		{name: "labels", path: r.labelsPath, target: &result.Labels},
	}

	for i, endpoint := range endpoints {
		sendProgress(progress, dumpUpdate(i+1, len(endpoints), endpoint.name))

		if endpoint.path == "" {
			result.Errors = append(result.Errors, EndpointResult{Endpoint: endpoint.name, Error: shared.ErrInvalidConfig})
			continue
		}

		resp, err := r.api.Get(ctx, endpoint.path, nil)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, EndpointResult{Endpoint: endpoint.name, Error: err})
		case !resp.OK():
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.name,
				Error:    shared.UpstreamError(resp.StatusCode, string(resp.Body)),
			})
		default:
			*endpoint.target = resp.JSONData
		}
	}

	return result, nil
}

// Data converts the dump into its serializable form.
func (d *DumpResult) Data() DumpData {
	data := DumpData{Tasks: d.Tasks, Projects: d.Projects, Labels: d.Labels}
	for _, e := range d.Errors {
		data.Errors = append(data.Errors, map[string]string{"endpoint": e.Endpoint, "error": e.Error.Error()})
	}
	return data
}
