package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/tdq/internal/shared"
	"github.com/google/go-cmp/cmp"
)

func TestPriority(t *testing.T) {
	t.Run("Attributes", func(t *testing.T) {
		tc := []struct {
			p     Priority
			label string
			term  string
			rank  int
		}{
			{PriorityHigh, "High", "p1", 4},
			{PriorityMedium, "Medium", "p2", 3},
			{PriorityLow, "Low", "p3", 2},
			{PriorityNone, "None", "p4", 1},
		}
		for _, tt := range tc {
			if tt.p.Label() != tt.label || tt.p.FilterTerm() != tt.term || tt.p.Rank() != tt.rank {
				t.Errorf("%v: got (%s, %s, %d), want (%s, %s, %d)",
					tt.p, tt.p.Label(), tt.p.FilterTerm(), tt.p.Rank(), tt.label, tt.term, tt.rank)
			}
		}
	})

	t.Run("ParsePriority Is Case Insensitive", func(t *testing.T) {
		for _, label := range []string{"high", "HIGH", "High", " hIgH "} {
			p, err := ParsePriority(label)
			if err != nil {
				t.Fatalf("expected no error for %q, got %v", label, err)
			}
			if p != PriorityHigh {
				t.Errorf("expected High for %q, got %v", label, p)
			}
		}
	})

	t.Run("ParsePriority Rejects Unknown Labels", func(t *testing.T) {
		_, err := ParsePriority("urgent")
		if !errors.Is(err, shared.ErrInvalidPriorityLabel) {
			t.Fatalf("expected ErrInvalidPriorityLabel, got %v", err)
		}
		if re := shared.AsResponseError(err); re.Short != shared.InvalidPriorityLabel {
			t.Errorf("expected INVALID_PRIORITY_LABEL, got %s", re.Short)
		}
	})

	t.Run("PriorityFromRank", func(t *testing.T) {
		if p, ok := PriorityFromRank(3); !ok || p != PriorityMedium {
			t.Errorf("expected Medium for rank 3, got %v (%v)", p, ok)
		}
		if _, ok := PriorityFromRank(9); ok {
			t.Error("expected rank 9 to be unknown")
		}
	})

	t.Run("JSON", func(t *testing.T) {
		var body struct {
			P  Priority   `json:"todoistPriority"`
			PS []Priority `json:"todoistPriorities"`
		}
		if err := json.Unmarshal([]byte(`{"todoistPriority":"low","todoistPriorities":["High","none"]}`), &body); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if body.P != PriorityLow {
			t.Errorf("expected Low, got %v", body.P)
		}
		if diff := cmp.Diff([]Priority{PriorityHigh, PriorityNone}, body.PS); diff != "" {
			t.Errorf("priorities mismatch (-want +got):\n%s", diff)
		}

		err := json.Unmarshal([]byte(`{"todoistPriority":"p0"}`), &body)
		if !errors.Is(err, shared.ErrInvalidPriorityLabel) {
			t.Errorf("expected ErrInvalidPriorityLabel, got %v", err)
		}
	})
}

func TestProduct(t *testing.T) {
	tc := map[string]Product{"primary": Primary, "Tasks": Primary, "projects": Secondary, "filtered": Filtered}
	for in, want := range tc {
		got, err := ParseProduct(in)
		if err != nil || got != want {
			t.Errorf("ParseProduct(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseProduct("sync"); err == nil {
		t.Error("expected error for unknown family")
	}
}

func TestZonedTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	z := ZonedTime{time.Date(2024, 3, 1, 9, 30, 0, 0, loc)}

	if z.Timestamp() != "2024-03-01T09:30:00.000-05:00" {
		t.Errorf("unexpected timestamp %s", z.Timestamp())
	}

	utc := ZonedTime{time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)}
	data, err := json.Marshal(utc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(data) != `"2024-03-01T09:30:00.000Z"` {
		t.Errorf("unexpected JSON %s", data)
	}
}

func TestCatalog(t *testing.T) {
	t.Run("ListProjects", func(t *testing.T) {
		projects := []Project{
			{ID: "1", Name: "Work", ViewStyle: "list"},
			{ID: "2", Name: "Board", ViewStyle: "board"},
			{ID: "3", Name: "Errands", ViewStyle: "list"},
		}
		got := ListProjects(projects)
		if len(got) != 2 || got[0].Name != "Errands" || got[1].Name != "Work" {
			t.Errorf("expected [Errands Work], got %+v", got)
		}
	})

	t.Run("FilterLabels", func(t *testing.T) {
		labels := []Label{{Name: "home", Color: "berry_red"}, {Name: "work", Color: "unknown"}}

		all := FilterLabels(labels, nil)
		if len(all) != 2 {
			t.Fatalf("expected all labels, got %d", len(all))
		}
		if all[0].Hex != "#B8255F" || all[0].ColorName != "Berry Red" {
			t.Errorf("unexpected color for home: %+v", all[0])
		}
		if all[1].ColorName != "Charcoal" {
			t.Errorf("expected unknown colors to fall back to charcoal, got %+v", all[1])
		}

		some := FilterLabels(labels, []string{"work"})
		if len(some) != 1 || some[0].Name != "work" {
			t.Errorf("expected only work, got %+v", some)
		}
	})
}

func TestUserSettings(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		valid := NewUserSettings(1, "device-1", "Kitchen", "Europe/Berlin")
		if err := valid.Validate(); err != nil {
			t.Errorf("expected valid settings, got %v", err)
		}

		tc := []*UserSettings{
			NewUserSettings(1, "", "Kitchen", "UTC"),
			NewUserSettings(1, "device-1", "", "UTC"),
			NewUserSettings(1, "device-1", "Kitchen", ""),
			NewUserSettings(1, "device-1", "Kitchen", "Not/AZone"),
		}
		for _, s := range tc {
			if err := s.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput for %+v, got %v", s, err)
			}
		}
	})

	t.Run("StaticSettings", func(t *testing.T) {
		var cs ContextSettings = StaticSettings("UTC")
		if cs.TimeZone() != "UTC" {
			t.Errorf("expected UTC, got %s", cs.TimeZone())
		}
	})

	t.Run("View", func(t *testing.T) {
		s := NewUserSettings(3, "hall", "Hall", "Europe/Oslo")
		s.SetID("abc")
		s.SetInboxProjectID("inbox-1")

		data, err := json.Marshal(s.View())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var got map[string]any
		_ = json.Unmarshal(data, &got)
		want := map[string]any{"id": "abc", "sequence": float64(3), "controlDeviceId": "hall", "name": "Hall",
			"timeZone": "Europe/Oslo", "inboxProjectId": "inbox-1", "updatedAt": got["updatedAt"]}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected view (-want +got):\n%s", diff)
		}
	})
}

func TestProjectTask(t *testing.T) {
	pt := ProjectTask{
		Task:      Task{ID: "1", Content: "garden", Labels: []string{}},
		SubTasks:  []Task{{ID: "2", ParentID: "1", Labels: []string{}}},
		Reminders: []TaskDue{Due{Date: "2024-03-01", String: "tomorrow", TimeZone: "UTC"}.View()},
	}

	data, err := json.Marshal(pt)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	var got map[string]any
	_ = json.Unmarshal(data, &got)
	if got["taskId"] != "1" || got["content"] != "garden" {
		t.Errorf("expected task fields at the top level, got %v", got)
	}
	if subs, ok := got["subTasks"].([]any); !ok || len(subs) != 1 {
		t.Errorf("expected one subtask, got %v", got["subTasks"])
	}
	rems, _ := got["reminders"].([]any)
	if len(rems) != 1 || rems[0].(map[string]any)["strVal"] != "tomorrow" {
		t.Errorf("expected reminder with strVal, got %v", got["reminders"])
	}
}
