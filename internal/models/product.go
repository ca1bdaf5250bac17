package models

import (
	"fmt"
	"strings"
)

// Product is the endpoint family a retrieval targets.
//
// [Unresolved] means no family has been chosen yet.
type Product int

const (
	Unresolved Product = iota
	Primary            // tasks listing
	Secondary          // projects listing
	Filtered           // filter-language task search
)

func (p Product) String() string {
	switch p {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Filtered:
		return "filtered"
	default:
		return "unresolved"
	}
}

// ParseProduct accepts the family names and their Todoist aliases (tasks, projects, filtered-tasks).
func ParseProduct(s string) (Product, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "tasks":
		return Primary, nil
	case "secondary", "projects":
		return Secondary, nil
	case "filtered", "filtered-tasks", "filter":
		return Filtered, nil
	default:
		return Unresolved, fmt.Errorf("unknown endpoint family %q", s)
	}
}
