package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
)

var (
	_ list.Item = queryItem{}
	_ list.Item = taskItem{}
)

// queryItem wraps [shared.QueryConfig] to implement [list.Item].
type queryItem struct {
	query shared.QueryConfig
}

func (i queryItem) FilterValue() string { return i.query.Name }
func (i queryItem) Title() string       { return i.query.Name }
func (i queryItem) Description() string {
	desc := "all tasks"
	if len(i.query.Filters) > 0 {
		desc = strings.Join(i.query.Filters, " · ")
	}
	if len(i.query.Ordering) > 0 {
		desc = fmt.Sprintf("%s • %s", desc, strings.Join(i.query.Ordering, ", "))
	}
	return desc
}

// taskItem wraps [models.Task] to implement [list.Item].
type taskItem struct {
	task models.Task
}

func (i taskItem) FilterValue() string { return i.task.Content }
func (i taskItem) Title() string       { return i.task.Content }
func (i taskItem) Description() string {
	parts := []string{i.task.PriorityLevel().Label()}
	if i.task.Due != nil {
		parts = append(parts, "due "+i.task.Due.Date)
	}
	for _, l := range i.task.Labels {
		parts = append(parts, "@"+l)
	}
	return strings.Join(parts, " • ")
}

func queryItems(queries []shared.QueryConfig) []list.Item {
	items := make([]list.Item, len(queries))
	for i, q := range queries {
		items[i] = queryItem{query: q}
	}
	return items
}

func taskItems(tasks []models.Task) []list.Item {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = taskItem{task: t}
	}
	return items
}
