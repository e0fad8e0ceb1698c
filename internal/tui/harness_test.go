package tui

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/saasdash/internal/apitest"
	"github.com/naveenspark/saasdash/internal/prefs"
	"github.com/naveenspark/saasdash/internal/session"
	"github.com/naveenspark/saasdash/internal/theme"
	"github.com/naveenspark/saasdash/pkg/client"
)

// newTestDeps wires the views against srv with an in-memory preference store.
// A non-empty token is stored as the current session and accepted by srv.
func newTestDeps(t *testing.T, srv *apitest.Server, token string) Deps {
	t.Helper()
	p := prefs.NewMemory()
	sess := session.New(p)
	if token != "" {
		sess.SetToken(token)
		srv.IssueToken(token)
	}
	th := theme.New(p)
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(false) })
	return Deps{Client: client.New(srv.URL, sess), Session: sess, Theme: th, Prefs: p}
}

func newTestServer(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	return srv
}

func newSizedApp(deps Deps) App {
	a := NewApp(deps)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

// runCmd executes one command, failing the test if it hangs.
func runCmd(t *testing.T, c tea.Cmd) tea.Msg {
	t.Helper()
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(3 * time.Second):
		t.Fatal("command did not finish")
		return nil
	}
}

// drive runs cmd and feeds every message it produces back into the app until
// no work is left. Animation ticks are dropped so the loop ends.
func drive(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 500 {
			t.Fatal("too many update steps")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := runCmd(t, c).(type) {
		case nil, spinner.TickMsg, shimmerTickMsg, cursor.BlinkMsg:
			continue
		case tea.QuitMsg:
			return a
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			model, next := a.Update(msg)
			a = model.(App)
			queue = append(queue, next)
		}
	}
	return a
}

// start runs Init to completion.
func start(t *testing.T, a App) App {
	t.Helper()
	return drive(t, a, a.Init())
}

// press sends one key and drives whatever it starts.
func press(t *testing.T, a App, key tea.KeyMsg) App {
	t.Helper()
	model, cmd := a.Update(key)
	return drive(t, model.(App), cmd)
}

// typeText sends runes one at a time. Cursor commands are discarded.
func typeText(a App, s string) App {
	for _, r := range s {
		model, _ := a.Update(runeKey(string(r)))
		a = model.(App)
	}
	return a
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// tab moves form focus without running the cursor blink it schedules.
func tab(a App) App {
	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyTab})
	return model.(App)
}

var enterKey = tea.KeyMsg{Type: tea.KeyEnter}
