package services

import (
	"context"

	"github.com/desertthunder/tdq/internal/models"
)

// PageFunc fetches the page at cursor; the first call receives an empty cursor.
type PageFunc[T any] func(ctx context.Context, cursor string) (models.Page[T], error)

// PageHook is told about every fetched page: its 1-based number, the records on it, and the
// number of distinct records merged so far.
type PageHook = func(page, size, total int)

// Paginate follows next_cursor until it is empty or repeats a cursor already used, merging records by key.
//
// A record seen again on a later page replaces the earlier content but keeps its first-seen
// position. Any error aborts the walk and no partial result is returned.
func Paginate[T any](ctx context.Context, fetch PageFunc[T], key func(T) string, hook PageHook) ([]T, error) {
	var (
		order  []string
		merged = map[string]T{}
		used   = map[string]bool{}
		cursor string
	)

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		used[cursor] = true
		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}

		for _, rec := range page.Results {
			k := key(rec)
			if _, seen := merged[k]; !seen {
				order = append(order, k)
			}
			merged[k] = rec
		}

		if hook != nil {
			hook(n, len(page.Results), len(order))
		}

		if page.NextCursor == "" || used[page.NextCursor] {
			break
		}
		cursor = page.NextCursor
	}

	out := make([]T, 0, len(order))
	for _, k := range order {
		out = append(out, merged[k])
	}
	return out, nil
}
