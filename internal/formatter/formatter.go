// package formatter renders task lists, projects and labels (JSON, YAML, CSV, Markdown, plain text, tables)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
	"github.com/natefinch/atomic"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Format is an output format name.
type Format string

const (
	JSON     Format = "json"
	YAML     Format = "yaml"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
	Table    Format = "table"
)

// ParseFormat resolves a format name or one of its short forms (yml, md, text).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	case "table":
		return Table, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Ext is the file extension used when a format is written to disk.
func (f Format) Ext() string {
	switch f {
	case YAML:
		return ".yaml"
	case CSV:
		return ".csv"
	case Markdown:
		return ".md"
	case Text, Table:
		return ".txt"
	default:
		return ".json"
	}
}

// Render converts a task list into format f. title is used by the Markdown and text renderings.
func Render(f Format, title string, list models.TaskList) ([]byte, error) {
	switch f {
	case YAML:
		return ExportToYAML(list)
	case CSV:
		return ExportToCSV(list.Tasks)
	case Markdown:
		return ExportToMarkdown(title, list)
	case Text:
		return ExportToText(title, list)
	case Table:
		var buf bytes.Buffer
		if err := RenderTaskTable(&buf, list.Tasks); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return shared.MarshalJSON(list, true)
	}
}

// ExportToYAML encodes the task list as YAML with two space indentation.
func ExportToYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToCSV converts tasks to CSV with columns: ID, Project, Content, Priority, Due, Deadline, Start, End, Labels, Order, Notes
func ExportToCSV(tasks []models.Task) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Project", "Content", "Priority", "Due", "Deadline", "Start", "End", "Labels", "Order", "Notes"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, task := range tasks {
		start, end := span(task)
		record := []string{
			task.ID,
			task.ProjectID,
			task.Content,
			task.PriorityLevel().Label(),
			due(task),
			deadline(task),
			start,
			end,
			strings.Join(task.Labels, ";"),
			strconv.Itoa(task.ChildOrder),
			strconv.Itoa(task.NoteCount),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a task list to a Markdown checklist
func ExportToMarkdown(title string, list models.TaskList) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Tasks**: %d\n\n", list.NumberOfTasks)

	for _, task := range list.Tasks {
		fmt.Fprintf(&buf, "- [ ] %s", task.Content)
		if p := task.PriorityLevel(); p != 0 && p != models.PriorityNone {
			fmt.Fprintf(&buf, " `%s`", p.FilterTerm())
		}
		if d := due(task); d != "" {
			fmt.Fprintf(&buf, " (due %s)", d)
		}
		if dl := deadline(task); dl != "" {
			fmt.Fprintf(&buf, " **deadline %s**", dl)
		}
		for _, l := range task.Labels {
			fmt.Fprintf(&buf, " @%s", l)
		}
		buf.WriteString("\n")
		if task.Description != "" {
			fmt.Fprintf(&buf, "  > %s\n", strings.ReplaceAll(task.Description, "\n", "\n  > "))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a task list to plain text format
func ExportToText(title string, list models.TaskList) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Query: %s\n", title)
	fmt.Fprintf(&buf, "Tasks: %d\n\n", list.NumberOfTasks)

	for i, task := range list.Tasks {
		fmt.Fprintf(&buf, "%d. [%s] %s", i+1, task.PriorityLevel().Label(), task.Content)
		if d := due(task); d != "" {
			fmt.Fprintf(&buf, " - due %s", d)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// RenderTaskTable writes tasks as a table.
func RenderTaskTable(w io.Writer, tasks []models.Task) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Content", "Priority", "Due", "Deadline", "Labels", "Order")
	for _, task := range tasks {
		if err := table.Append([]string{
			task.ID,
			truncate(task.Content, 48),
			task.PriorityLevel().Label(),
			due(task),
			deadline(task),
			strings.Join(task.Labels, ", "),
			strconv.Itoa(task.ChildOrder),
		}); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}
	return table.Render()
}

// RenderProjectTable writes projects as a table.
func RenderProjectTable(w io.Writer, projects []models.Project) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Color", "Inbox", "Favorite")
	for _, p := range projects {
		if err := table.Append([]string{p.ID, p.Name, models.ColorByKey(p.Color).Name, yesNo(p.IsInboxProject), yesNo(p.IsFavorite)}); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}
	return table.Render()
}

// RenderLabelTable writes labels as a table.
func RenderLabelTable(w io.Writer, labels []models.LabelView) error {
	table := tablewriter.NewWriter(w)
	table.Header("Name", "Color", "Hex")
	for _, l := range labels {
		if err := table.Append([]string{l.Name, l.ColorName, l.Hex}); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}
	return table.Render()
}

// WriteFile atomically replaces path with data, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteExport renders list in format f and writes it to path.
//
// Defaults to {title}{ext} as the filename.
func WriteExport(f Format, title string, list models.TaskList, path string) (string, error) {
	if path == "" {
		path = Slug(title) + f.Ext()
	}

	data, err := Render(f, title, list)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", f, err)
	}
	if err := WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return WriteFile(path, data)
}

// Slug turns a query name into a file-name friendly form.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "tasks"
	}
	return s
}

func due(t models.Task) string {
	if t.Due == nil {
		return ""
	}
	return t.Due.Date
}

func deadline(t models.Task) string {
	if t.Deadline == nil {
		return ""
	}
	return t.Deadline.Timestamp()
}

func span(t models.Task) (string, string) {
	if t.Duration == nil {
		return "", ""
	}
	return t.Duration.Start.Timestamp(), t.Duration.End.Timestamp()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
