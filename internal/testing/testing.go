// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/query"
)

// MockService is a test double for [services.Service].
//
// It returns the configured records and remembers every spec it was asked for.
// Err, when set, is returned by every fetch.
type MockService struct {
	Tasks     []models.RawTask
	Projects  []models.Project
	Labels    []models.Label
	Reminders []models.Reminder
	Err       error

	// Pages is the number of pages reported to the hook; zero means one.
	Pages int

	mu    sync.Mutex
	Specs []query.Spec
}

func (m *MockService) FetchTasks(ctx context.Context, spec query.Spec, hook func(page, size, total int)) ([]models.RawTask, error) {
	m.record(spec)
	if m.Err != nil {
		return nil, m.Err
	}
	m.report(hook, len(m.Tasks))
	return append([]models.RawTask(nil), m.Tasks...), nil
}

func (m *MockService) FetchProjects(ctx context.Context, spec query.Spec, hook func(page, size, total int)) ([]models.Project, error) {
	m.record(spec)
	if m.Err != nil {
		return nil, m.Err
	}
	m.report(hook, len(m.Projects))
	return append([]models.Project(nil), m.Projects...), nil
}

func (m *MockService) FetchLabels(ctx context.Context, hook func(page, size, total int)) ([]models.Label, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.report(hook, len(m.Labels))
	return append([]models.Label(nil), m.Labels...), nil
}

func (m *MockService) FetchReminders(ctx context.Context) ([]models.Reminder, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Reminder(nil), m.Reminders...), nil
}

func (m *MockService) Name() string { return "mock" }

// LastSpec returns the most recent spec, or the zero value.
func (m *MockService) LastSpec() query.Spec {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Specs) == 0 {
		return query.Spec{}
	}
	return m.Specs[len(m.Specs)-1]
}

func (m *MockService) record(spec query.Spec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Specs = append(m.Specs, spec)
}

func (m *MockService) report(hook func(page, size, total int), n int) {
	if hook == nil {
		return
	}
	pages := max(m.Pages, 1)
	for p := 1; p <= pages; p++ {
		hook(p, n/pages, n*p/pages)
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
