package models

import (
	"encoding/json"
	"strings"

	"github.com/desertthunder/tdq/internal/shared"
)

// Priority is Todoist's four level task priority.
//
// The zero value is not a valid priority.
type Priority int

const (
	PriorityHigh Priority = iota + 1
	PriorityMedium
	PriorityLow
	PriorityNone
)

var priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow, PriorityNone}

// Priorities returns every priority from highest to lowest.
func Priorities() []Priority {
	return append([]Priority(nil), priorities...)
}

// Label is the display name: High, Medium, Low or None.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	case PriorityNone:
		return "None"
	default:
		return ""
	}
}

// FilterTerm is the token used in filter expressions (p1 is the highest).
func (p Priority) FilterTerm() string {
	switch p {
	case PriorityHigh:
		return "p1"
	case PriorityMedium:
		return "p2"
	case PriorityLow:
		return "p3"
	case PriorityNone:
		return "p4"
	default:
		return ""
	}
}

// Rank is the numeric form the API returns on tasks (4 is the highest).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 4
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 2
	case PriorityNone:
		return 1
	default:
		return 0
	}
}

func (p Priority) String() string { return p.Label() }

// ParsePriority resolves a label case-insensitively.
func ParsePriority(label string) (Priority, error) {
	for _, p := range priorities {
		if strings.EqualFold(strings.TrimSpace(label), p.Label()) {
			return p, nil
		}
	}
	return 0, shared.InvalidPriorityError(label)
}

// PriorityFromRank maps an API rank back to its priority; ok is false for unknown ranks.
func PriorityFromRank(rank int) (p Priority, ok bool) {
	for _, p := range priorities {
		if p.Rank() == rank {
			return p, true
		}
	}
	return 0, false
}

// ParsePriorities parses every label, failing on the first invalid one.
func ParsePriorities(labels []string) ([]Priority, error) {
	out := make([]Priority, 0, len(labels))
	for _, l := range labels {
		p, err := ParsePriority(l)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Label())
}

// UnmarshalJSON accepts a label string such as "high" or "High".
func (p *Priority) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return shared.InvalidPriorityError(string(data))
	}
	parsed, err := ParsePriority(label)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
