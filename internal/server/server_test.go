package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
	"github.com/desertthunder/tdq/internal/tasks"
	tu "github.com/desertthunder/tdq/internal/testing"
)

var testPaths = shared.PathsConfig{
	Tasks:         "/api/v1/tasks",
	Projects:      "/api/v1/projects",
	FilteredTasks: "/api/v1/tasks/filter",
	Labels:        "/api/v1/labels",
}

type fakeSettings map[string]*models.UserSettings

func (f fakeSettings) GetByDevice(id string) (*models.UserSettings, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, shared.ErrSettingsNotFound
}

func (f fakeSettings) Update(s *models.UserSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, ok := f[s.DeviceID()]; !ok {
		return shared.ErrSettingsNotFound
	}
	f[s.DeviceID()] = s
	return nil
}

func newTestServer(svc *tu.MockService, settings SettingsStore) http.Handler {
	logger := log.New(&bytes.Buffer{})
	retriever := tasks.NewRetriever(svc, nil, testPaths, logger)
	return New(shared.ServerConfig{Host: "127.0.0.1", Port: 0}, NewTodoistHandler(retriever), settings, "UTC", logger).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON error body, got %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestFilterTasks(t *testing.T) {
	raws := []models.RawTask{
		{ID: "1", Content: "banana", ChildOrder: 2, Deadline: &models.Deadline{Date: "2024-03-01"}},
		{ID: "2", Content: "apple", ChildOrder: 1},
	}

	t.Run("Composes And Orders", func(t *testing.T) {
		svc := &tu.MockService{Tasks: raws}
		h := newTestServer(svc, nil)

		body := `{"filterOptions":[{"filterName":"due-between","startValue":"2024-01-01","endValue":"2024-01-10"}],
			"sortingOptions":{"postProcessingActions":["alphabetically"]}}`
		rec := do(t, h, http.MethodPost, "/todoist/filterTasks", body, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var got models.TaskList
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("expected task list, got %v", err)
		}
		if got.NumberOfTasks != 2 || got.Tasks[0].Content != "apple" {
			t.Errorf("unexpected response %+v", got)
		}
		if q := svc.LastSpec().Query(); q != "((due after: 2024-01-01 & due before: 2024-01-10))" {
			t.Errorf("unexpected query %q", q)
		}
		if rec.Header().Get(RequestIDHeader) == "" {
			t.Error("expected request id header")
		}
	})

	t.Run("Priority Options", func(t *testing.T) {
		svc := &tu.MockService{}
		h := newTestServer(svc, nil)

		body := `{"filterOptions":[{"filterName":"isOneOfPriority","todoistPriorities":["HIGH","HIGH","MEDIUM"]}]}`
		rec := do(t, h, http.MethodPost, "/todoist/filterTasks", body, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if q := svc.LastSpec().Query(); q != "(p1 | p2)" {
			t.Errorf("unexpected query %q", q)
		}
	})

	t.Run("Unknown Operation", func(t *testing.T) {
		h := newTestServer(&tu.MockService{}, nil)

		rec := do(t, h, http.MethodPost, "/todoist/filterTasks", `{"filterOptions":[{"filterName":"in-outbox"}]}`, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.ShortCode != shared.UnknownOperation || body.StatusCode != 400 {
			t.Errorf("unexpected error body %+v", body)
		}
	})

	t.Run("Invalid Priority", func(t *testing.T) {
		h := newTestServer(&tu.MockService{}, nil)

		rec := do(t, h, http.MethodPost, "/todoist/filterTasks",
			`{"filterOptions":[{"filterName":"is-priority","todoistPriority":"URGENT"}]}`, nil)
		if body := decodeError(t, rec); body.ShortCode != shared.InvalidPriorityLabel {
			t.Errorf("expected INVALID_PRIORITY_LABEL, got %+v", body)
		}
	})

	t.Run("Invalid Ordering", func(t *testing.T) {
		svc := &tu.MockService{}
		h := newTestServer(svc, nil)

		rec := do(t, h, http.MethodPost, "/todoist/filterTasks",
			`{"filterOptions":[],"sortingOptions":{"postProcessingActions":["shuffle"]}}`, nil)
		if body := decodeError(t, rec); body.ShortCode != shared.InvalidOrderingAction {
			t.Errorf("expected INVALID_ORDERING_ACTION, got %+v", body)
		}
		if len(svc.Specs) != 0 {
			t.Error("expected no fetch")
		}
	})

	t.Run("Malformed Body", func(t *testing.T) {
		h := newTestServer(&tu.MockService{}, nil)

		for _, body := range []string{"", "{", `{"filterOptions":"x"}`} {
			rec := do(t, h, http.MethodPost, "/todoist/filterTasks", body, nil)
			if e := decodeError(t, rec); e.ShortCode != shared.InvalidRequest || rec.Code != http.StatusBadRequest {
				t.Errorf("body %q: expected 400 INVALID_REQUEST, got %d %+v", body, rec.Code, e)
			}
		}
	})

	t.Run("Upstream Failure", func(t *testing.T) {
		svc := &tu.MockService{Err: shared.UpstreamError(http.StatusServiceUnavailable, "down")}
		h := newTestServer(svc, nil)

		rec := do(t, h, http.MethodPost, "/todoist/filterTasks", `{"filterOptions":[]}`, nil)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		body := decodeError(t, rec)
		if body.ShortCode != shared.UpstreamFailure || body.Details["upstreamStatus"] != float64(503) || body.Details["upstreamBody"] != "down" {
			t.Errorf("unexpected error body %+v", body)
		}
	})

	t.Run("Other Failure", func(t *testing.T) {
		h := newTestServer(&tu.MockService{Err: errors.New("boom")}, nil)

		rec := do(t, h, http.MethodPost, "/todoist/filterTasks", `{}`, nil)
		if body := decodeError(t, rec); body.ShortCode != shared.SystemException || body.StatusCode != 500 {
			t.Errorf("expected SYSTEM_EXCEPTION, got %+v", body)
		}
	})
}

func TestInboxTasks(t *testing.T) {
	raws := []models.RawTask{{ID: "1", ChildOrder: 2}, {ID: "2", ChildOrder: 1}}

	t.Run("Empty Body", func(t *testing.T) {
		svc := &tu.MockService{Tasks: raws}
		h := newTestServer(svc, nil)

		rec := do(t, h, http.MethodPost, "/todoist/getInboxTasks", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if q := svc.LastSpec().Query(); q != "(#Inbox)" {
			t.Errorf("expected (#Inbox), got %q", q)
		}
	})

	t.Run("Sorted", func(t *testing.T) {
		h := newTestServer(&tu.MockService{Tasks: raws}, nil)

		rec := do(t, h, http.MethodPost, "/todoist/getInboxTasks",
			`{"sortingOptions":{"postProcessingActions":["ORDER_BY_CHILD_ORDER"]}}`, nil)
		var got models.TaskList
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if len(got.Tasks) != 2 || got.Tasks[0].ID != "2" {
			t.Errorf("expected child order sort, got %+v", got.Tasks)
		}
	})

	t.Run("Device Settings", func(t *testing.T) {
		raw := []models.RawTask{{ID: "1", Deadline: &models.Deadline{Date: "2024-03-01T12:00:00Z"}}}
		settings := fakeSettings{"kitchen": models.NewUserSettings(1, "kitchen", "Kitchen", "Asia/Tokyo")}
		h := newTestServer(&tu.MockService{Tasks: raw}, settings)

		rec := do(t, h, http.MethodPost, "/todoist/getInboxTasks", "", map[string]string{DeviceHeader: "kitchen"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !bytes.Contains(rec.Body.Bytes(), []byte(`"2024-03-01T21:00:00.000+09:00"`)) {
			t.Errorf("expected deadline in Tokyo time, got %s", rec.Body.String())
		}
	})

	t.Run("Unknown Device", func(t *testing.T) {
		h := newTestServer(&tu.MockService{}, fakeSettings{})

		rec := do(t, h, http.MethodPost, "/todoist/getInboxTasks", "", map[string]string{DeviceHeader: "ghost"})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.ShortCode != shared.NonExistentUser {
			t.Errorf("expected NON_EXISTENT_USER, got %+v", body)
		}
	})
}

func TestCatalogEndpoints(t *testing.T) {
	svc := &tu.MockService{
		Projects: []models.Project{
			{ID: "2", Name: "Work", ViewStyle: "list"},
			{ID: "1", Name: "Home", ViewStyle: "list"},
			{ID: "3", Name: "Board", ViewStyle: "board"},
		},
		Labels: []models.Label{{Name: "home", Color: "berry_red"}, {Name: "work", Color: "blue"}},
	}
	h := newTestServer(svc, nil)

	t.Run("Projects", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/todoist/getProjects", "", nil)
		var got []models.Project
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("expected project list, got %v", err)
		}
		if len(got) != 2 || got[0].Name != "Home" {
			t.Errorf("expected [Home Work], got %+v", got)
		}
	})

	t.Run("Labels", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/todoist/getLabels", `["home"]`, nil)
		var got models.LabelList
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("expected label list, got %v", err)
		}
		if len(got.Labels) != 1 || got.Labels[0].Hex != "#B8255F" {
			t.Errorf("unexpected labels %+v", got.Labels)
		}

		rec = do(t, h, http.MethodPost, "/todoist/getLabels", "", nil)
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if len(got.Labels) != 2 {
			t.Errorf("expected all labels, got %d", len(got.Labels))
		}
	})
}

func TestProjectTasks(t *testing.T) {
	svc := &tu.MockService{
		Tasks: []models.RawTask{
			{ID: "1", ProjectID: "p1", Content: "write", Due: &models.Due{Date: "2024-04-02"}},
			{ID: "2", ProjectID: "p1", Content: "plan"},
			{ID: "3", ProjectID: "p1", Content: "edit", Due: &models.Due{Date: "2024-04-01"}},
			{ID: "4", ProjectID: "p1", ParentID: "1", Content: "outline"},
		},
		Reminders: []models.Reminder{{ID: "r1", ItemID: "1", Due: &models.Due{Date: "2024-04-01T08:00:00Z"}}},
	}
	h := newTestServer(svc, nil)

	get := func(t *testing.T, path string) []models.ProjectTask {
		t.Helper()
		rec := do(t, h, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var got []models.ProjectTask
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("expected project task list, got %v", err)
		}
		return got
	}

	t.Run("Nests Subtasks", func(t *testing.T) {
		got := get(t, "/todoist/getTasksByProjectId/p1")
		if len(got) != 3 || got[0].ID != "1" {
			t.Fatalf("expected three top-level tasks in fetch order, got %+v", got)
		}
		if len(got[0].SubTasks) != 1 || got[0].SubTasks[0].Content != "outline" {
			t.Errorf("expected outline nested under write, got %+v", got[0].SubTasks)
		}
		if len(got[0].Reminders) != 1 || got[0].Reminders[0].Date != "2024-04-01T08:00:00Z" {
			t.Errorf("expected one reminder, got %+v", got[0].Reminders)
		}
		if q := svc.LastSpec().Params.Get("project_id"); q != "p1" {
			t.Errorf("expected project_id p1, got %q", q)
		}
	})

	t.Run("Alphabetically", func(t *testing.T) {
		got := get(t, "/todoist/getTasksByProjectId/p1?sortingAction=alphabetically")
		if len(got) != 3 || got[0].Content != "edit" || got[1].Content != "plan" || got[2].Content != "write" {
			t.Errorf("expected edit, plan, write, got %+v", got)
		}
	})

	t.Run("Due Date", func(t *testing.T) {
		got := get(t, "/todoist/getTasksByProjectId/p1?sortingAction=due_date")
		if len(got) != 3 || got[0].ID != "3" || got[1].ID != "1" || got[2].ID != "2" {
			t.Errorf("expected 3, 1 then undated 2, got %+v", got)
		}
	})

	t.Run("Invalid Sorting", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/todoist/getTasksByProjectId/p1?sortingAction=random", "", nil)
		if body := decodeError(t, rec); body.ShortCode != shared.InvalidOrderingAction || rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 INVALID_ORDERING_ACTION, got %d %+v", rec.Code, body)
		}
	})

	t.Run("Wrong Method", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/todoist/getTasksByProjectId/p1", "", nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestUserSettings(t *testing.T) {
	newStore := func() fakeSettings {
		return fakeSettings{"kitchen": models.NewUserSettings(1, "kitchen", "Kitchen", "Europe/Paris")}
	}

	t.Run("Get", func(t *testing.T) {
		h := newTestServer(&tu.MockService{}, newStore())

		rec := do(t, h, http.MethodGet, "/userSettings/getUserSettings/kitchen", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var got models.SettingsView
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("expected settings, got %v", err)
		}
		if got.DeviceID != "kitchen" || got.TimeZone != "Europe/Paris" {
			t.Errorf("unexpected settings %+v", got)
		}
	})

	t.Run("Get Unknown Device", func(t *testing.T) {
		h := newTestServer(&tu.MockService{}, newStore())

		rec := do(t, h, http.MethodGet, "/userSettings/getUserSettings/ghost", "", nil)
		if body := decodeError(t, rec); body.ShortCode != shared.NonExistentUser || rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 NON_EXISTENT_USER, got %d %+v", rec.Code, body)
		}
	})

	t.Run("Update Keeps Empty Fields", func(t *testing.T) {
		store := newStore()
		h := newTestServer(&tu.MockService{}, store)

		rec := do(t, h, http.MethodPost, "/userSettings/updateUserSettings",
			`{"controlDeviceId":"kitchen","timeZone":"Asia/Tokyo"}`, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if s := store["kitchen"]; s.TimeZone() != "Asia/Tokyo" || s.Name() != "Kitchen" {
			t.Errorf("expected only the zone to change, got %s %s", s.Name(), s.TimeZone())
		}
	})

	t.Run("Update Rejects", func(t *testing.T) {
		h := newTestServer(&tu.MockService{}, newStore())

		tests := []struct {
			name   string
			body   string
			status int
			code   shared.ShortCode
		}{
			{"Missing Device", `{"name":"Den"}`, http.StatusBadRequest, shared.InvalidRequest},
			{"Unknown Device", `{"controlDeviceId":"ghost","name":"Den"}`, http.StatusNotFound, shared.NonExistentUser},
			{"Bad Zone", `{"controlDeviceId":"kitchen","timeZone":"Mars/Olympus"}`, http.StatusBadRequest, shared.InvalidRequest},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := do(t, h, http.MethodPost, "/userSettings/updateUserSettings", tt.body, nil)
				if body := decodeError(t, rec); rec.Code != tt.status || body.ShortCode != tt.code {
					t.Errorf("expected %d %s, got %d %+v", tt.status, tt.code, rec.Code, body)
				}
			})
		}
	})

	t.Run("Not Registered Without Store", func(t *testing.T) {
		h := newTestServer(&tu.MockService{}, nil)

		rec := do(t, h, http.MethodGet, "/userSettings/getUserSettings/kitchen", "", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestRouter(t *testing.T) {
	h := newTestServer(&tu.MockService{}, nil)

	t.Run("Not Found", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/nope", "", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		decodeError(t, rec)
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/todoist/filterTasks", "", nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}

		rec = do(t, h, http.MethodPost, "/health", "", nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Health", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/health", "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		r := NewBasicRouter()
		r.Use(
			func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					order = append(order, "first")
					next.ServeHTTP(w, req)
				})
			},
			func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					order = append(order, "second")
					next.ServeHTTP(w, req)
				})
			},
		)
		r.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			order = append(order, "handler")
		}))

		do(t, r, http.MethodGet, "/x", "", nil)
		if len(order) != 3 || order[0] != "first" || order[2] != "handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Recover", func(t *testing.T) {
		r := NewBasicRouter()
		r.Use(Recover())
		r.Handle(http.MethodGet, "/panic", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			panic("kaboom")
		}))

		rec := do(t, r, http.MethodGet, "/panic", "", nil)
		if body := decodeError(t, rec); body.ShortCode != shared.SystemException {
			t.Errorf("expected SYSTEM_EXCEPTION, got %+v", body)
		}
	})
}

func TestRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	logger := log.New(&bytes.Buffer{})
	srv := New(shared.ServerConfig{Host: "127.0.0.1", Port: 0},
		NewTodoistHandler(tasks.NewRetriever(&tu.MockService{}, nil, testPaths, logger)), nil, "UTC", logger)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()

	if err := <-done; err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
