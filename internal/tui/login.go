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

type loginResultMsg struct {
	token string
	err   error
}

type loginModel struct {
	deps    Deps
	scope   *task.Scope
	spinner spinner.Model
	form    form
	busy    bool
	errText string
}

func newLoginModel(deps Deps, scope *task.Scope) loginModel {
	return loginModel{
		deps:    deps,
		scope:   scope,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		form: newForm(
			field{label: "Email", placeholder: "you@example.com"},
			field{label: "Password", placeholder: "Password", secret: true},
		),
	}
}

func (m loginModel) Init() tea.Cmd { return nil }

func (m loginModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			log.Printf("login: %v", msg.err)
			m.errText = client.Message(msg.err)
			return m, nil
		}
		m.deps.Session.SetToken(msg.token)
		return m, func() tea.Msg { return authChangedMsg{} }

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+r":
			return m, navigateTo(guard.RouteRegister, "")
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

func (m loginModel) submit() (screen, tea.Cmd) {
	creds := domain.Credentials{Email: m.form.trimmed(0), Password: m.form.value(1)}
	m.busy = true
	m.errText = ""
	c := m.deps.Client
	return m, tea.Batch(m.spinner.Tick, m.scope.Run(func(ctx context.Context) tea.Msg {
		token, err := c.Login(ctx, creds)
		return loginResultMsg{token: token, err: err}
	}))
}

// The login form always owns the keyboard.
func (m loginModel) editing() bool { return true }

func (m loginModel) helpKeys() string {
	return helpLine("tab", "next field", "enter", "login", "ctrl+r", "register")
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Login") + "\n\n")
	b.WriteString(m.form.View())
	if m.errText != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errText) + "\n")
	}
	if m.busy {
		b.WriteString("\n  " + m.spinner.View() + " " + dimStyle.Render("Signing in...") + "\n")
	}
	b.WriteString("\n  " + metaStyle.Render("Don't have an account? ctrl+r to register") + "\n")
	return b.String()
}
