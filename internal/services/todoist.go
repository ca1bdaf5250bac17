package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/query"
	"github.com/desertthunder/tdq/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// TodoistService implements [Service] over the Todoist REST API (v1).
type TodoistService struct {
	api        *APIService
	limiter    *rate.Limiter
	labelsPath string
	syncPath   string
	logger     *log.Logger
}

var _ Service = (*TodoistService)(nil)

// NewTodoistService creates a service authenticated with the configured API key.
//
// Every request carries "Authorization: Bearer <key>". base is the underlying transport,
// nil for [http.DefaultTransport]. A positive requests_per_second paces page requests.
func NewTodoistService(cfg shared.TodoistConfig, base http.RoundTripper, logger *log.Logger) (*TodoistService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: todoist api_key (or %s) is not set", shared.ErrMissingCredentials, shared.APIKeyEnv)
	}
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = log.Default()
	}

	client := &http.Client{
		Timeout: cfg.Timeout(),
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"}),
			Base:   base,
		},
	}

	s := &TodoistService{
		api:        NewAPIService(cfg.APIURL, client),
		labelsPath: cfg.Paths.Labels,
		syncPath:   cfg.Paths.Sync,
		logger:     logger,
	}
	if cfg.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return s, nil
}

func (s *TodoistService) Name() string {
	return "Todoist"
}

// API exposes the authenticated raw client.
func (s *TodoistService) API() *APIService {
	return s.api
}

// FetchTasks walks every page of spec and decodes tasks.
func (s *TodoistService) FetchTasks(ctx context.Context, spec query.Spec, hook PageHook) ([]models.RawTask, error) {
	return Paginate(ctx, pageSource[models.RawTask](s, spec.Path, spec), models.RawTask.Key, hook)
}

// FetchProjects walks every page of spec and decodes projects.
func (s *TodoistService) FetchProjects(ctx context.Context, spec query.Spec, hook PageHook) ([]models.Project, error) {
	return Paginate(ctx, pageSource[models.Project](s, spec.Path, spec), models.Project.Key, hook)
}

// FetchLabels walks every page of the labels endpoint.
func (s *TodoistService) FetchLabels(ctx context.Context, hook PageHook) ([]models.Label, error) {
	if s.labelsPath == "" {
		return nil, fmt.Errorf("%w: no path configured for labels", shared.ErrInvalidConfig)
	}
	spec := query.Spec{Path: s.labelsPath, Params: url.Values{}}
	return Paginate(ctx, pageSource[models.Label](s, s.labelsPath, spec), models.Label.Key, hook)
}

// FetchReminders reads the live reminders of the account with a full sync.
func (s *TodoistService) FetchReminders(ctx context.Context) ([]models.Reminder, error) {
	if s.syncPath == "" {
		return nil, fmt.Errorf("%w: no path configured for sync", shared.ErrInvalidConfig)
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("sync_token", "*")
	form.Set("resource_types", `["reminders"]`)

	s.logger.Debug("syncing reminders", "path", s.syncPath)
	resp, err := s.api.PostForm(ctx, s.syncPath, form)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if !resp.OK() {
		return nil, shared.UpstreamError(resp.StatusCode, string(resp.Body))
	}

	var body struct {
		Reminders []models.Reminder `json:"reminders"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, shared.NewResponseError(http.StatusInternalServerError, shared.UpstreamFailure,
			shared.ErrUpstreamFailure, "failed to decode reminders from %s: %v", s.syncPath, err)
	}

	live := body.Reminders[:0]
	for _, r := range body.Reminders {
		if !r.IsDeleted {
			live = append(live, r)
		}
	}
	return live, nil
}

func (s *TodoistService) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

func transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return shared.NewResponseError(http.StatusInternalServerError, shared.UpstreamFailure,
		shared.ErrUpstreamFailure, "%v", err)
}

// pageSource adapts one endpoint into a [PageFunc].
func pageSource[T any](s *TodoistService, path string, spec query.Spec) PageFunc[T] {
	return func(ctx context.Context, cursor string) (models.Page[T], error) {
		return fetchPage[T](ctx, s, path, spec.WithCursor(cursor))
	}
}

func fetchPage[T any](ctx context.Context, s *TodoistService, path string, params url.Values) (models.Page[T], error) {
	var page models.Page[T]

	if err := s.wait(ctx); err != nil {
		return page, err
	}

	s.logger.Debug("fetching page", "path", path, "cursor", params.Get("cursor"))
	resp, err := s.api.Get(ctx, path, params)
	if err != nil {
		return page, transportError(ctx, err)
	}

	if !resp.OK() {
		return page, shared.UpstreamError(resp.StatusCode, string(resp.Body))
	}

	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return page, shared.NewResponseError(http.StatusInternalServerError, shared.UpstreamFailure,
			shared.ErrUpstreamFailure, "failed to decode page from %s: %v", path, err)
	}
	return page, nil
}
