package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/tdq/internal/formatter"
	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk query exports.
type BulkExportOpts struct {
	Format     formatter.Format       // Export format: json, yaml, csv, markdown, txt
	OutputDir  string                 // Base output directory (default: tdq_export_{epoch})
	NumWorkers int                    // Concurrent workers (default: 3)
	RateLimit  float64                // Queries started per second (default: 2)
	Settings   models.ContextSettings // Time zone for every query
}

// QueryExportJob is one saved query waiting for a worker.
type QueryExportJob struct {
	Index int
	Query shared.QueryConfig
}

// QueryExportResult is the outcome of exporting one saved query.
type QueryExportResult struct {
	Name      string   `json:"name"`
	Query     string   `json:"query,omitempty"`
	Family    string   `json:"family,omitempty"`
	TaskCount int      `json:"taskCount"`
	Files     []string `json:"files"`
	Success   bool     `json:"success"`
	Error     error    `json:"-"`
	ErrorText string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export and is written as its manifest.
type BulkExportResult struct {
	ExportedAt        time.Time           `json:"exportedAt"`
	TotalQueries      int                 `json:"totalQueries"`
	SuccessfulExports int                 `json:"successfulExports"`
	FailedExports     int                 `json:"failedExports"`
	OutputDirectory   string              `json:"outputDirectory"`
	ManifestPath      string              `json:"-"`
	Results           []QueryExportResult `json:"results"`
}

// BulkExport runs saved queries concurrently and writes one file per query.
//
// Queries are handed to a worker pool at the configured rate. A failing query is recorded
// in the manifest and does not stop the others.
func (r *Retriever) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	queries []shared.QueryConfig,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if r.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: no saved queries to export", shared.ErrMissingArgument)
	}

	if opts.Format == "" {
		opts.Format = formatter.JSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tdq_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		ExportedAt:      time.Now().UTC(),
		TotalQueries:    len(queries),
		OutputDirectory: opts.OutputDir,
		Results:         make([]QueryExportResult, 0, len(queries)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan QueryExportJob, len(queries))
	results := make(chan QueryExportResult, len(queries))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go r.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, q := range queries {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			sendProgress(prog, exportingQueryUpdate(i+1, len(queries), q.Name))
			jobs <- QueryExportJob{Index: i, Query: q}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(queries), res.Name, res.TaskCount))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(queries), res.Name, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports queries from the jobs channel.
func (r *Retriever) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan QueryExportJob,
	results chan<- QueryExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- r.exportSingleQuery(ctx, job, opts)
	}
}

// exportSingleQuery retrieves one saved query and writes it in the requested format.
func (r *Retriever) exportSingleQuery(ctx context.Context, j QueryExportJob, opts BulkExportOpts) QueryExportResult {
	result := QueryExportResult{
		Name:  j.Query.Name,
		Files: []string{},
	}
	fail := func(err error) QueryExportResult {
		result.Error = err
		result.ErrorText = err.Error()
		return result
	}

	got, err := r.Saved(ctx, j.Query, opts.Settings, nil)
	if err != nil {
		return fail(err)
	}
	result.Query = got.Spec.Query()
	result.Family = got.Spec.Family.String()
	result.TaskCount = got.Tasks.NumberOfTasks

	path := filepath.Join(opts.OutputDir, formatter.Slug(j.Query.Name)+opts.Format.Ext())
	written, err := formatter.WriteExport(opts.Format, j.Query.Name, got.Tasks, path)
	if err != nil {
		return fail(fmt.Errorf("%s export failed: %w", opts.Format, err))
	}

	result.Files = []string{written}
	result.Success = true
	return result
}
