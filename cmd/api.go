package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/tdq/internal/formatter"
	"github.com/desertthunder/tdq/internal/shared"
	"github.com/urfave/cli/v3"
)

const dumpFile = "api_dump.json"

// APIGet makes a direct GET request against the Todoist API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	if r.api == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	params := url.Values{}
	for _, p := range cmd.StringSlice("param") {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return fmt.Errorf("%w: --param %q is not key=value", shared.ErrInvalidFlag, p)
		}
		params.Add(key, value)
	}

	r.logger.Info("GET request", "path", path, "params", params.Encode())

	resp, err := r.api.Get(ctx, path, params)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIDump fetches the first page of every configured collection.
func (r *Runner) APIDump(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	r.logger.Info("dumping API state")

	progress, wait := r.reportProgress()
	result, err := r.retriever.Dump(ctx, progress)
	wait()
	if err != nil {
		return err
	}

	for _, e := range result.Errors {
		r.logger.Warn("failed to fetch endpoint", "endpoint", e.Endpoint, "error", e.Error)
	}

	dump := result.Data()

	if save {
		data, err := shared.MarshalJSON(dump, true)
		if err != nil {
			return fmt.Errorf("failed to marshal dump: %w", err)
		}
		if err := formatter.WriteFile(dumpFile, data); err != nil {
			r.logger.Warn("failed to save dump", "error", err)
		} else {
			r.logger.Info("dump saved", "file", dumpFile)
		}
	}

	return r.writeJSON(dump, pretty)
}
