package tui

import (
	"context"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/saasdash/internal/guard"
	"github.com/naveenspark/saasdash/internal/task"
	"github.com/naveenspark/saasdash/pkg/client"
	"github.com/naveenspark/saasdash/pkg/domain"
)

// registeredMsg is the result of a sign-up request.
type registeredMsg struct{ err error }

const registeredFlash = "Registration successful! Please log in."

type registerModel struct {
	deps    Deps
	scope   *task.Scope
	spinner spinner.Model
	form    form
	busy    bool
	errText string
}

func newRegisterModel(deps Deps, scope *task.Scope) registerModel {
	return registerModel{
		deps:    deps,
		scope:   scope,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		form: newForm(
			field{label: "Name", placeholder: "Name"},
			field{label: "Email", placeholder: "you@example.com"},
			field{label: "Password", placeholder: "Password", secret: true},
		),
	}
}

func (m registerModel) Init() tea.Cmd { return nil }

func (m registerModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case registeredMsg:
		m.busy = false
		if msg.err != nil {
			log.Printf("register: %v", msg.err)
			m.errText = client.MessageOr(msg.err, "Registration failed")
			return m, nil
		}
		return m, navigateTo(guard.RouteLogin, registeredFlash)

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, navigateTo(guard.RouteLogin, "")
		case "enter":
			if !m.form.last() {
				cmd := m.form.setFocus(m.form.focus + 1)
				return m, cmd
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m registerModel) submit() (screen, tea.Cmd) {
	r := domain.Registration{Name: m.form.trimmed(0), Email: m.form.trimmed(1), Password: m.form.value(2)}
	if err := client.ValidateRegistration(r); err != nil {
		m.errText = client.Message(err)
		return m, nil
	}
	m.busy = true
	m.errText = ""
	c := m.deps.Client
	return m, tea.Batch(m.spinner.Tick, m.scope.Run(func(ctx context.Context) tea.Msg {
		_, err := c.Register(ctx, r)
		return registeredMsg{err: err}
	}))
}

func (m registerModel) editing() bool { return true }

func (m registerModel) helpKeys() string {
	return helpLine("tab", "next field", "enter", "register", "esc", "back to login")
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Register") + "\n\n")
	b.WriteString(m.form.View())
	if m.errText != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errText) + "\n")
	}
	if m.busy {
		b.WriteString("\n  " + m.spinner.View() + " " + dimStyle.Render("Creating account...") + "\n")
	}
	return b.String()
}
