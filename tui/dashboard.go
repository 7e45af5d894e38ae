package tui

import (
	"context"
	"fmt"

	"taskflow-cli/tasks"
	"taskflow-cli/types"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Padding(0, 1)
)

type taskItem struct {
	task types.Task
}

func (i taskItem) Title() string {
	marker := "[ ]"
	if i.task.Completed {
		marker = "[x]"
	}
	return fmt.Sprintf("%s %s", marker, i.task.Title)
}

func (i taskItem) Description() string {
	desc := i.task.Priority
	if i.task.DueDate != nil {
		desc += " · due " + i.task.DueDate.Format("2006-01-02")
	}
	if i.task.Description != "" {
		desc += " · " + i.task.Description
	}
	return desc
}

func (i taskItem) FilterValue() string { return i.task.Title }

type tasksLoadedMsg struct{}

type tasksErrMsg struct{ err error }

type mutationDoneMsg struct{}

type mutationErrMsg struct{ err error }

// dashboardModel is the dashboard page: the reconciler holds the collection,
// the model only decides what to render and which reconciler call to fire.
type dashboardModel struct {
	reconciler *tasks.TaskList
	filter     tasks.Filter

	list    list.Model
	spinner spinner.Model
	loading bool
	loadErr error
	status  string

	width  int
	height int
}

func RunDashboard(l *tasks.TaskList) error {
	_, err := tea.NewProgram(newDashboardModel(l), tea.WithAltScreen()).Run()
	return err
}

func newDashboardModel(l *tasks.TaskList) dashboardModel {
	delegate := list.NewDefaultDelegate()
	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "My Tasks"
	lst.SetShowStatusBar(false)
	lst.SetFilteringEnabled(false)
	lst.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return dashboardModel{
		reconciler: l,
		filter:     tasks.FilterAll,
		list:       lst,
		spinner:    sp,
		loading:    true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, refreshTasks(m.reconciler))
}

func refreshTasks(l *tasks.TaskList) tea.Cmd {
	return func() tea.Msg {
		if err := l.Refresh(context.Background()); err != nil {
			return tasksErrMsg{err}
		}
		return tasksLoadedMsg{}
	}
}

func toggleTask(l *tasks.TaskList, id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := l.Toggle(context.Background(), id); err != nil {
			return mutationErrMsg{err}
		}
		return mutationDoneMsg{}
	}
}

func deleteTask(l *tasks.TaskList, id string) tea.Cmd {
	return func() tea.Msg {
		if err := l.Delete(context.Background(), id); err != nil {
			return mutationErrMsg{err}
		}
		return mutationDoneMsg{}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tasksLoadedMsg, mutationDoneMsg:
		m.loading = false
		m.loadErr = nil
		m.syncItems()
		return m, nil

	case tasksErrMsg:
		m.loading = false
		m.loadErr = msg.err
		return m, nil

	case mutationErrMsg:
		m.status = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.loadErr = nil
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, refreshTasks(m.reconciler))
		case "f", "tab":
			m.filter = nextFilter(m.filter)
			m.syncItems()
			return m, nil
		case "enter", " ":
			if item, ok := m.selected(); ok {
				m.status = ""
				return m, toggleTask(m.reconciler, item.task.ID)
			}
		case "d", "x":
			if item, ok := m.selected(); ok {
				m.status = ""
				return m, deleteTask(m.reconciler, item.task.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *dashboardModel) selected() (taskItem, bool) {
	item, ok := m.list.SelectedItem().(taskItem)
	return item, ok
}

func (m *dashboardModel) syncItems() {
	filtered := m.reconciler.Filter(m.filter)
	items := make([]list.Item, 0, len(filtered))
	for _, t := range filtered {
		items = append(items, taskItem{task: t})
	}
	m.list.SetItems(items)
	m.list.Title = "My Tasks — " + m.filter.String()
}

func nextFilter(f tasks.Filter) tasks.Filter {
	switch f {
	case tasks.FilterAll:
		return tasks.FilterActive
	case tasks.FilterActive:
		return tasks.FilterCompleted
	default:
		return tasks.FilterAll
	}
}

func (m dashboardModel) View() string {
	if m.loading {
		return titleStyle.Render("TaskFlow") + "\n\n  " + m.spinner.View() + " Loading tasks…\n"
	}
	if m.loadErr != nil {
		return titleStyle.Render("TaskFlow") + "\n\n" +
			errStyle.Render("Could not load tasks: "+m.loadErr.Error()) + "\n\n" +
			statusStyle.Render("r retry · q quit") + "\n"
	}

	view := m.list.View() + "\n"
	if m.status != "" {
		view += errStyle.Render(m.status) + "\n"
	}
	view += statusStyle.Render("enter toggle · d delete · f filter · r refresh · q quit")
	return view
}
