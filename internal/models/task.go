package models

import (
	"encoding/json"
	"time"
)

// TimestampLayout renders zoned instants with millisecond precision and a numeric offset (Z for UTC).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Deadline is the date-only or date-time deadline of a task.
type Deadline struct {
	Date string `json:"date"`
}

// Duration is the planned length of a task, counted from its due date.
type Duration struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit,omitempty"` // minute or day
}

// Due describes when a task is due, as entered by the user.
type Due struct {
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
	String      string `json:"string"`
	TimeZone    string `json:"timezone,omitempty"`
}

// RawTask is a task as returned by the Todoist tasks endpoints.
type RawTask struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	SectionID   string    `json:"section_id"`
	ParentID    string    `json:"parent_id"`
	Labels      []string  `json:"labels"`
	Deadline    *Deadline `json:"deadline"`
	Duration    *Duration `json:"duration"`
	Due         *Due      `json:"due"`
	Priority    int       `json:"priority"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	ChildOrder  int       `json:"child_order"`
	NoteCount   int       `json:"note_count"`
	IsDeleted   bool      `json:"is_deleted"`
}

// Key identifies the task across pages.
func (t RawTask) Key() string { return t.ID }

// ZonedTime is an instant bound to the location it should be displayed in.
type ZonedTime struct {
	time.Time
}

// Timestamp formats the instant with [TimestampLayout].
func (z ZonedTime) Timestamp() string {
	return z.Format(TimestampLayout)
}

func (z ZonedTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.Timestamp())
}

func (z ZonedTime) MarshalYAML() (any, error) {
	return z.Timestamp(), nil
}

func (z *ZonedTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return err
	}
	z.Time = t
	return nil
}

// Span is a resolved [Duration]: it starts at the due date.
type Span struct {
	Start ZonedTime `json:"startTime" yaml:"startTime"`
	End   ZonedTime `json:"endTime" yaml:"endTime"`
}

// TaskDue mirrors [Due] with the field names the HTTP API has always used.
type TaskDue struct {
	Date        string `json:"date" yaml:"date"`
	IsRecurring bool   `json:"isRecurring" yaml:"isRecurring"`
	String      string `json:"strVal" yaml:"strVal"`
}

// View renames d's fields for the HTTP API.
func (d Due) View() TaskDue {
	return TaskDue{Date: d.Date, IsRecurring: d.IsRecurring, String: d.String}
}

// Task is a [RawTask] with its deadline and duration resolved in a user's time zone.
type Task struct {
	ID          string     `json:"taskId" yaml:"taskId"`
	ProjectID   string     `json:"projectId" yaml:"projectId"`
	SectionID   string     `json:"sectionId,omitempty" yaml:"sectionId,omitempty"`
	ParentID    string     `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Labels      []string   `json:"labels" yaml:"labels"`
	Deadline    *ZonedTime `json:"deadline" yaml:"deadline"`
	Duration    *Span      `json:"duration" yaml:"duration"`
	Due         *TaskDue   `json:"due" yaml:"due"`
	Priority    int        `json:"priority" yaml:"priority"`
	ChildOrder  int        `json:"childOrder" yaml:"childOrder"`
	Content     string     `json:"content" yaml:"content"`
	Description string     `json:"description" yaml:"description"`
	NoteCount   int        `json:"noteCount" yaml:"noteCount"`
}

// PriorityLevel converts the numeric rank back into a [Priority], or 0 when unknown.
func (t Task) PriorityLevel() Priority {
	p, _ := PriorityFromRank(t.Priority)
	return p
}

// TaskList is the response body of every task retrieval.
type TaskList struct {
	NumberOfTasks int    `json:"numberOfTasks" yaml:"numberOfTasks"`
	Tasks         []Task `json:"tasks" yaml:"tasks"`
}

// NewTaskList wraps tasks, keeping an empty list non-nil so it encodes as [].
func NewTaskList(tasks []Task) TaskList {
	if tasks == nil {
		tasks = []Task{}
	}
	return TaskList{NumberOfTasks: len(tasks), Tasks: tasks}
}

// Reminder is an alert on a task, as returned by the sync endpoint.
type Reminder struct {
	ID        string `json:"id"`
	ItemID    string `json:"item_id"`
	Type      string `json:"type"`
	Due       *Due   `json:"due"`
	IsDeleted bool   `json:"is_deleted"`
}

// ProjectTask is a top-level task of a project with its direct subtasks and reminder times.
type ProjectTask struct {
	Task      `yaml:",inline"`
	SubTasks  []Task    `json:"subTasks" yaml:"subTasks"`
	Reminders []TaskDue `json:"reminders" yaml:"reminders"`
}

// Page is one cursor page of results.
type Page[T any] struct {
	Results    []T    `json:"results"`
	NextCursor string `json:"next_cursor"`
}
