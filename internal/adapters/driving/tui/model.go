// Package tui implements the interactive chat session as a bubbletea
// program: a scrolling transcript viewport over a single-line input.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/recall-labs/recall-cli/internal/core/ports/driving"
)

// askTimeout bounds a single question round-trip, including retrieval
// and generation.
const askTimeout = 2 * time.Minute

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	contextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	inputStyle     = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

// answerMsg carries a completed chat turn back into the update loop.
type answerMsg struct {
	question string
	answer   driving.ChatAnswer
	err      error
}

// ChatModel is the bubbletea model for an interactive chat session.
type ChatModel struct {
	chat    driving.ChatService
	persona string

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	transcript []string
	waiting    bool
	ready      bool
	width      int
}

// NewChatModel creates the chat session model.
func NewChatModel(chat driving.ChatService, persona string) *ChatModel {
	input := textinput.New()
	input.Placeholder = "Ask me anything about yourself..."
	input.Focus()
	input.CharLimit = 500

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &ChatModel{
		chat:    chat,
		persona: persona,
		input:   input,
		spinner: spin,
	}
}

// Init implements tea.Model.
func (m *ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		inputHeight := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-inputHeight-1)
			m.ready = true
			m.refreshTranscript()
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - inputHeight - 1
		}
		m.input.Width = msg.Width - 6
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.appendLine(userStyle.Render("You: ") + question)
			return m, tea.Batch(m.spinner.Tick, m.ask(question))
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.appendLine(errorStyle.Render("Error: " + msg.err.Error()))
		} else {
			m.appendLine(assistantStyle.Render(m.persona+": ") + msg.answer.Reply)
			if n := len(msg.answer.Context); n > 0 {
				m.appendLine(contextStyle.Render(pluralObservations(n)))
			}
		}
		m.appendLine("")
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *ChatModel) View() string {
	if !m.ready {
		return "Starting chat..."
	}

	status := ""
	if m.waiting {
		status = m.spinner.View() + " thinking..."
	}

	return m.viewport.View() + "\n" + status + "\n" + inputStyle.Width(m.width-2).Render(m.input.View())
}

// ask runs one chat turn off the update loop.
func (m *ChatModel) ask(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()

		answer, err := m.chat.Ask(ctx, question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m *ChatModel) appendLine(line string) {
	m.transcript = append(m.transcript, line)
	m.refreshTranscript()
}

func (m *ChatModel) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

func pluralObservations(n int) string {
	if n == 1 {
		return "(grounded in 1 observation)"
	}
	return fmt.Sprintf("(grounded in %d observations)", n)
}
