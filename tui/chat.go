package tui

import (
	"context"
	"strings"

	"taskflow-cli/chat"
	"taskflow-cli/types"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	userStyle      = lipgloss.NewStyle().Bold(true)
	pendingStyle   = lipgloss.NewStyle().Faint(true)
	inlineErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

type sendDoneMsg struct{}

type sendErrMsg struct{ err error }

// chatModel is the assistant page: an append-only transcript owned by the
// relay, a text input, and a spinner while a send is in flight.
type chatModel struct {
	relay   *chat.Relay
	input   textinput.Model
	spinner spinner.Model
	sending bool

	width  int
	height int
}

func RunChat(r *chat.Relay) error {
	_, err := tea.NewProgram(newChatModel(r), tea.WithAltScreen()).Run()
	return err
}

func newChatModel(r *chat.Relay) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask the assistant… (e.g. \"Add a task to buy milk\")"
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return chatModel{
		relay:   r,
		input:   ti,
		spinner: sp,
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func sendMessage(r *chat.Relay, text string) tea.Cmd {
	return func() tea.Msg {
		if _, err := r.Send(context.Background(), text); err != nil {
			return sendErrMsg{err}
		}
		return sendDoneMsg{}
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sendDoneMsg, sendErrMsg:
		// Either way the transcript already carries the outcome; failed sends
		// stay visible with their inline error.
		m.sending = false
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.sending {
				return m, nil
			}
			m.sending = true
			m.input.Reset()
			return m, tea.Batch(m.spinner.Tick, sendMessage(m.relay, text))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Task Assistant") + "\n\n")

	messages := m.relay.Messages()
	if len(messages) == 0 {
		b.WriteString(statusStyle.Render("I can help you manage your tasks. Try \"Add a task to buy groceries\".") + "\n")
	}
	for _, msg := range messages {
		b.WriteString(m.renderMessage(msg))
	}

	if m.sending {
		b.WriteString(pendingStyle.Render(m.spinner.View()+" thinking…") + "\n")
	}

	b.WriteString("\n" + m.input.View() + "\n")
	b.WriteString(statusStyle.Render("enter send · esc quit"))
	return b.String()
}

func (m chatModel) renderMessage(msg types.ChatMessage) string {
	switch msg.Role {
	case types.RoleAssistant:
		return renderMarkdown(msg.Content, m.width-4) + "\n"
	default:
		line := userStyle.Render("You: ") + msg.Content
		if msg.Pending {
			line += pendingStyle.Render(" …")
		}
		if msg.Error != "" {
			line += "\n" + inlineErrStyle.Render("  could not send: "+msg.Error)
		}
		return line + "\n"
	}
}

// renderMarkdown renders assistant replies with glamour, falling back to the
// raw text when the renderer is unavailable.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n") + "\n"
}
