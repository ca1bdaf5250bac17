package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
	"github.com/desertthunder/tdq/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	QueryListView ViewState = iota
	FetchView
	TaskListView
	DetailView
)

// Retriever runs a saved query; [tasks.Retriever] implements it.
type Retriever interface {
	Saved(ctx context.Context, q shared.QueryConfig, settings models.ContextSettings, progress chan<- tasks.ProgressUpdate) (*tasks.RetrieveResult, error)
}

var _ Retriever = (*tasks.Retriever)(nil)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	retriever    Retriever
	settings     models.ContextSettings
	width        int
	height       int
	queryList    list.Model
	taskList     list.Model
	selected     shared.QueryConfig
	task         models.Task
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	result       *tasks.RetrieveResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model over the saved queries.
func NewModel(ctx context.Context, r Retriever, queries []shared.QueryConfig, settings models.ContextSettings) *Model {
	m := &Model{
		ctx:       ctx,
		view:      QueryListView,
		retriever: r,
		settings:  settings,
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.queryList = list.New(queryItems(queries), list.NewDefaultDelegate(), 0, 0)
	m.queryList.Title = "Saved Queries"
	m.taskList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	return m
}

// ViewState reports the current view.
func (m *Model) ViewState() ViewState { return m.view }

// Init has nothing to fetch; saved queries come from the configuration.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.queryList.SetSize(msg.Width-4, msg.Height-8)
		m.taskList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case QueryListView:
			return m.handleQueryListKeys(msg)
		case FetchView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case TaskListView:
			return m.handleTaskListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgTasksFetched:
		data := msg.data.(tasksFetched)
		m.progressChan = nil
		m.doneChan = nil
		if data.err != nil {
			m.err = data.err
			m.view = QueryListView
			return m, nil
		}
		m.err = nil
		m.result = data.result
		m.taskList.SetItems(taskItems(data.result.Tasks.Tasks))
		m.taskList.Title = fmt.Sprintf("%s (%d)", m.selected.Name, data.result.Tasks.NumberOfTasks)
		m.view = TaskListView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case QueryListView:
		return m.renderQueryList()
	case FetchView:
		return m.renderFetch()
	case TaskListView:
		return m.renderTaskList()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleQueryListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.queryList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			if q, ok := m.queryList.SelectedItem().(queryItem); ok {
				m.selected = q.query
				return m, m.startFetch()
			}
		}
	}

	var cmd tea.Cmd
	m.queryList, cmd = m.queryList.Update(msg)
	return m, cmd
}

func (m *Model) handleTaskListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.taskList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.back):
			m.view = QueryListView
			return m, nil
		case key.Matches(msg, m.keys.refresh):
			return m, m.startFetch()
		case key.Matches(msg, m.keys.enter):
			if t, ok := m.taskList.SelectedItem().(taskItem); ok {
				m.task = t.task
				m.view = DetailView
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = TaskListView
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case QueryListView:
		m.queryList, cmd = m.queryList.Update(msg)
	case TaskListView:
		m.taskList, cmd = m.taskList.Update(msg)
	}
	return m, cmd
}

// startFetch runs the selected query in the background and streams its progress.
func (m *Model) startFetch() tea.Cmd {
	m.view = FetchView
	m.progress = tasks.ProgressUpdate{}
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.doneChan = make(chan Msg, 1)

	progress, done, q := m.progressChan, m.doneChan, m.selected
	go func() {
		result, err := m.retriever.Saved(m.ctx, q, m.settings, progress)
		done <- tasksFetchedMsg(result, err)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderQueryList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	out := fmt.Sprintf("%s\n\n%s", m.queryList.View(), m.help.ShortHelpView(helpKeys))
	if m.err != nil {
		out = fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Error: %v", m.err)), out)
	}
	return out
}

func (m *Model) renderFetch() string {
	title := styles.title.Render(fmt.Sprintf("Running '%s'", m.selected.Name))

	var phase string
	switch m.progress.Phase {
	case tasks.ComposeQuery:
		phase = "Composing query..."
	case tasks.FetchPages:
		phase = fmt.Sprintf("Fetching page %d", m.progress.Step)
	case tasks.MapTasks:
		phase = "Resolving dates..."
	case tasks.OrderTasks:
		phase = "Ordering..."
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderTaskList() string {
	openKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details"))
	helpKeys := []key.Binding{openKey, m.keys.refresh, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.taskList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	t := m.task
	p := t.PriorityLevel()

	var b strings.Builder
	b.WriteString(styles.title.Render(t.Content))
	b.WriteString("\n")

	row := func(name, value string) {
		if value == "" {
			return
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, styles.label.Render(name), value))
		b.WriteString("\n")
	}

	row("Priority", styles.As(p.Label(), priorityColor(p)))
	row("ID", t.ID)
	row("Project", t.ProjectID)
	row("Section", t.SectionID)
	row("Parent", t.ParentID)
	if t.Due != nil {
		due := t.Due.Date
		if t.Due.IsRecurring {
			due = fmt.Sprintf("%s (%s)", due, t.Due.String)
		}
		row("Due", due)
	}
	if t.Deadline != nil {
		row("Deadline", styles.warn.Render(t.Deadline.Timestamp()))
	}
	if t.Duration != nil {
		row("Scheduled", fmt.Sprintf("%s → %s", t.Duration.Start.Timestamp(), t.Duration.End.Timestamp()))
	}
	if len(t.Labels) > 0 {
		row("Labels", "@"+strings.Join(t.Labels, " @"))
	}
	row("Order", fmt.Sprint(t.ChildOrder))
	if t.NoteCount > 0 {
		row("Comments", fmt.Sprint(t.NoteCount))
	}
	if t.Description != "" {
		b.WriteString("\n")
		b.WriteString(t.Description)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	return b.String()
}
