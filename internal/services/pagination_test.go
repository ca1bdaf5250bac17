package services

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/google/go-cmp/cmp"
)

type record struct {
	ID      string
	Content string
}

func recordKey(r record) string { return r.ID }

// pages serves a fixed cursor → page table and counts calls.
func pages(table map[string]models.Page[record], calls *[]string) PageFunc[record] {
	return func(ctx context.Context, cursor string) (models.Page[record], error) {
		*calls = append(*calls, cursor)
		return table[cursor], nil
	}
}

func TestPaginate(t *testing.T) {
	t.Run("Follows Cursors Until Empty", func(t *testing.T) {
		var calls []string
		fetch := pages(map[string]models.Page[record]{
			"":   {Results: []record{{"1", "a"}, {"2", "b"}}, NextCursor: "c1"},
			"c1": {Results: []record{{"3", "c"}}, NextCursor: "c2"},
			"c2": {Results: []record{{"4", "d"}}},
		}, &calls)

		got, err := Paginate(context.Background(), fetch, recordKey, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if diff := cmp.Diff([]string{"", "c1", "c2"}, calls); diff != "" {
			t.Errorf("calls mismatch (-want +got):\n%s", diff)
		}
		want := []record{{"1", "a"}, {"2", "b"}, {"3", "c"}, {"4", "d"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Later Pages Win", func(t *testing.T) {
		var calls []string
		fetch := pages(map[string]models.Page[record]{
			"":   {Results: []record{{"1", "old"}, {"2", "b"}}, NextCursor: "c1"},
			"c1": {Results: []record{{"3", "c"}, {"1", "new"}}},
		}, &calls)

		got, err := Paginate(context.Background(), fetch, recordKey, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []record{{"1", "new"}, {"2", "b"}, {"3", "c"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Stops On Repeated Cursor", func(t *testing.T) {
		var calls []string
		fetch := pages(map[string]models.Page[record]{
			"":   {Results: []record{{"1", "a"}}, NextCursor: "c1"},
			"c1": {Results: []record{{"2", "b"}}, NextCursor: "c2"},
			"c2": {Results: []record{{"3", "c"}}, NextCursor: "c1"},
		}, &calls)

		got, err := Paginate(context.Background(), fetch, recordKey, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(calls) != 3 {
			t.Errorf("expected 3 calls, got %v", calls)
		}
		if len(got) != 3 {
			t.Errorf("expected 3 records, got %d", len(got))
		}
	})

	t.Run("Stops When Cursor Echoes Itself", func(t *testing.T) {
		var calls []string
		fetch := pages(map[string]models.Page[record]{
			"":   {Results: []record{{"1", "a"}}, NextCursor: "c1"},
			"c1": {Results: []record{{"2", "b"}}, NextCursor: "c1"},
		}, &calls)

		if _, err := Paginate(context.Background(), fetch, recordKey, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(calls) != 2 {
			t.Errorf("expected 2 calls, got %v", calls)
		}
	})

	t.Run("Error Discards Partial Results", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		fetch := func(ctx context.Context, cursor string) (models.Page[record], error) {
			calls++
			if cursor == "c1" {
				return models.Page[record]{}, boom
			}
			return models.Page[record]{Results: []record{{"1", "a"}}, NextCursor: "c1"}, nil
		}

		got, err := Paginate(context.Background(), fetch, recordKey, nil)
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if got != nil {
			t.Errorf("expected no records, got %v", got)
		}
		if calls != 2 {
			t.Errorf("expected 2 calls, got %d", calls)
		}
	})

	t.Run("Hook Sees Every Page", func(t *testing.T) {
		var calls []string
		fetch := pages(map[string]models.Page[record]{
			"":   {Results: []record{{"1", "a"}, {"2", "b"}}, NextCursor: "c1"},
			"c1": {Results: []record{{"2", "b2"}, {"3", "c"}}},
		}, &calls)

		var seen [][3]int
		hook := func(page, size, total int) { seen = append(seen, [3]int{page, size, total}) }

		if _, err := Paginate(context.Background(), fetch, recordKey, hook); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if diff := cmp.Diff([][3]int{{1, 2, 2}, {2, 2, 3}}, seen); diff != "" {
			t.Errorf("hook mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Canceled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls []string
		fetch := pages(map[string]models.Page[record]{"": {Results: []record{{"1", "a"}}}}, &calls)
		if _, err := Paginate(ctx, fetch, recordKey, nil); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(calls) != 0 {
			t.Errorf("expected no calls, got %v", calls)
		}
	})
}
