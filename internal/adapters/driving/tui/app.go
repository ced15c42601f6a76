// Package tui provides an interactive question-and-answer view over the
// stored documents.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
)

// askTimeout bounds one question round trip.
const askTimeout = 2 * time.Minute

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	answerStyle = lipgloss.NewStyle().PaddingLeft(2)
	sourceStyle = lipgloss.NewStyle().PaddingLeft(2).Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// answerMsg carries one completed Ask round trip.
type answerMsg struct {
	answer *domain.Answer
	err    error
}

// Model is the bubbletea model for the ask view.
type Model struct {
	query driving.QueryService
	topK  int

	input   textinput.Model
	waiting bool
	answer  *domain.Answer
	err     error
}

// NewModel creates the ask view. topK <= 0 uses the service default.
func NewModel(query driving.QueryService, topK int) Model {
	input := textinput.New()
	input.Placeholder = "Ask a question about your documents..."
	input.Focus()
	input.CharLimit = 512
	input.Width = 72

	return Model{
		query: query,
		topK:  topK,
		input: input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.waiting {
				return m, nil
			}
			m.waiting = true
			m.err = nil
			m.answer = nil
			return m, m.ask(question)
		}

	case answerMsg:
		m.waiting = false
		m.answer = msg.answer
		m.err = msg.err
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs the question against the query service off the UI loop.
func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()

		answer, err := m.query.Ask(ctx, question, m.topK)
		return answerMsg{answer: answer, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("docqa"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.waiting:
		b.WriteString(helpStyle.Render("Thinking..."))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.answer != nil:
		b.WriteString(answerStyle.Render(m.answer.Answer))
		b.WriteString("\n")
		for _, src := range m.answer.Sources {
			b.WriteString(sourceStyle.Render(
				fmt.Sprintf("— %s (%.2f)", src.Filename, src.Score)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: ask • esc: quit"))
	return b.String()
}

// Run starts the interactive ask view and blocks until the user quits.
func Run(query driving.QueryService, topK int) error {
	_, err := tea.NewProgram(NewModel(query, topK)).Run()
	return err
}
