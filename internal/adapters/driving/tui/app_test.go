package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// stubQuery returns a fixed answer or error.
type stubQuery struct {
	answer *domain.Answer
	err    error
	asked  string
}

func (s *stubQuery) Ask(_ context.Context, query string, _ int) (*domain.Answer, error) {
	s.asked = query
	if s.err != nil {
		return nil, s.err
	}
	return s.answer, nil
}

func (s *stubQuery) Retrieve(context.Context, string, int) ([]domain.SearchResult, error) {
	return nil, nil
}

func typeString(m Model, s string) Model {
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func TestEnterAsksQuestion(t *testing.T) {
	stub := &stubQuery{answer: &domain.Answer{Answer: "42"}}
	m := NewModel(stub, 5)

	m = typeString(m, "what is the answer?")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if !m.waiting {
		t.Error("expected waiting state after enter")
	}
	if cmd == nil {
		t.Fatal("expected an ask command")
	}

	msg := cmd()
	answer, ok := msg.(answerMsg)
	if !ok {
		t.Fatalf("got %T", msg)
	}
	if answer.answer.Answer != "42" {
		t.Errorf("answer = %q", answer.answer.Answer)
	}
	if stub.asked != "what is the answer?" {
		t.Errorf("asked = %q", stub.asked)
	}
}

func TestEmptyQuestionIgnored(t *testing.T) {
	m := NewModel(&stubQuery{}, 5)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for empty input")
	}
}

func TestAnswerRendered(t *testing.T) {
	m := NewModel(&stubQuery{}, 5)

	updated, _ := m.Update(answerMsg{answer: &domain.Answer{
		Answer: "Cats sleep a lot.",
		Sources: []domain.AnswerSource{
			{Filename: "cats.txt", Score: 0.9},
		},
	}})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "Cats sleep a lot.") {
		t.Errorf("view missing answer:\n%s", view)
	}
	if !strings.Contains(view, "cats.txt") {
		t.Errorf("view missing source:\n%s", view)
	}
	if m.waiting {
		t.Error("waiting should clear after answer")
	}
}

func TestErrorRendered(t *testing.T) {
	m := NewModel(&stubQuery{}, 5)

	updated, _ := m.Update(answerMsg{err: errors.New("embedding service down")})
	m = updated.(Model)

	if !strings.Contains(m.View(), "embedding service down") {
		t.Errorf("view missing error:\n%s", m.View())
	}
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(&stubQuery{}, 5)

	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		if cmd == nil {
			t.Fatalf("expected quit command for %v", key)
		}
	}
}
