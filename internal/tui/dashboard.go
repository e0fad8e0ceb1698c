package tui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/saasdash/internal/task"
	"github.com/naveenspark/saasdash/pkg/domain"
)

// -- messages --

type summaryLoadedMsg struct {
	summary *domain.DashboardSummary
	err     error
}

type revenueLoadedMsg struct {
	records []domain.RevenueRecord
	err     error
}

type sessionsLoadedMsg struct {
	records []domain.SessionRecord
	err     error
}

// -- model --

type dashboardModel struct {
	deps    Deps
	scope   *task.Scope
	spinner spinner.Model
	vp      viewport.Model

	pending  int // fetches still in flight
	summary  domain.DashboardSummary
	revenue  []domain.RevenueRecord
	sessions []domain.SessionRecord

	width  int
	height int
}

func newDashboardModel(deps Deps, scope *task.Scope) dashboardModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle))
	return dashboardModel{deps: deps, scope: scope, spinner: sp, vp: viewport.New(80, 20), pending: 3}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

// load starts the three dashboard fetches. Each reports on its own.
func (m dashboardModel) load() tea.Cmd {
	c := m.deps.Client
	return tea.Batch(
		m.scope.Run(func(ctx context.Context) tea.Msg {
			s, err := c.DashboardSummary(ctx)
			return summaryLoadedMsg{summary: s, err: err}
		}),
		m.scope.Run(func(ctx context.Context) tea.Msg {
			recs, err := c.RevenueHistory(ctx)
			return revenueLoadedMsg{records: recs, err: err}
		}),
		m.scope.Run(func(ctx context.Context) tea.Msg {
			recs, err := c.SessionHistory(ctx)
			return sessionsLoadedMsg{records: recs, err: err}
		}),
	)
}

func (m dashboardModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = max(msg.Width, 20)
		m.vp.Height = max(msg.Height, 3)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case summaryLoadedMsg:
		m.pending = max(m.pending-1, 0)
		if msg.err != nil {
			log.Printf("dashboard: summary: %v", msg.err)
			m.summary = domain.DashboardSummary{}
		} else if msg.summary != nil {
			m.summary = *msg.summary
		}
		m.refresh()
		return m, nil

	case revenueLoadedMsg:
		m.pending = max(m.pending-1, 0)
		if msg.err != nil {
			log.Printf("dashboard: revenue history: %v", msg.err)
			m.revenue = nil
		} else {
			m.revenue = msg.records
		}
		m.refresh()
		return m, nil

	case sessionsLoadedMsg:
		m.pending = max(m.pending-1, 0)
		if msg.err != nil {
			log.Printf("dashboard: session history: %v", msg.err)
			m.sessions = nil
		} else {
			m.sessions = msg.records
		}
		m.refresh()
		return m, nil

	case themeToggledMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" && m.pending == 0 {
			m.pending = 3
			return m, tea.Batch(m.spinner.Tick, m.load())
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// refresh re-renders the scrollable content after data or size changes.
func (m *dashboardModel) refresh() {
	offset := m.vp.YOffset
	m.vp.SetContent(m.renderContent())
	m.vp.SetYOffset(offset)
}

func (m dashboardModel) editing() bool { return false }

func (m dashboardModel) helpKeys() string {
	return helpLine("1-3", "tabs", "j/k", "scroll", "r", "reload", "t", "theme", "L", "logout")
}

func (m dashboardModel) View() string {
	if m.pending > 0 {
		return "\n  " + m.spinner.View() + " " + dimStyle.Render("Loading...")
	}
	return m.vp.View()
}

func (m dashboardModel) renderContent() string {
	width := max(m.width, 40)

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Dashboard Overview") + "\n\n")

	cardW := max((width-6)/3-4, 14)
	cards := []string{
		m.card("Total Users", fmt.Sprintf("%d", m.summary.TotalUsers), cardW),
		m.card("Total Sessions", fmt.Sprintf("%d", m.summary.TotalSessions), cardW),
		m.card("Total Revenue", fmt.Sprintf("$%.2f", m.summary.TotalRevenue), cardW),
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], " ", cards[1], " ", cards[2])
	b.WriteString(indent(row, 2) + "\n\n")

	b.WriteString("  " + sectionHeaderStyle.Render("Revenue") + "\n")
	labels, values := revenueSeries(m.revenue)
	b.WriteString(barChart(labels, values, width, formatMoney) + "\n")

	b.WriteString("  " + sectionHeaderStyle.Render("Sessions per day") + "\n")
	days, counts := sessionsPerDay(m.sessions)
	b.WriteString(barChart(days, counts, width, formatCount) + "\n")

	b.WriteString("  " + titleStyle.Render("Revenue History") + "\n")
	revRows := make([][]string, len(m.revenue))
	for i, r := range m.revenue {
		revRows[i] = []string{formatDate(r.Date), formatMoney(r.Revenue)}
	}
	b.WriteString(renderGrid([]string{"Date", "Revenue"}, revRows, nil) + "\n")

	b.WriteString("  " + titleStyle.Render("Session History") + "\n")
	sessRows := make([][]string, len(m.sessions))
	for i, s := range m.sessions {
		sessRows[i] = []string{
			truncStr(s.UserName, 24),
			truncStr(s.Email, 32),
			formatDateTime(s.StartTime),
			s.Duration.String(),
			s.Status,
		}
	}
	headers := []string{"User", "Email", "Start Time", "Duration", "Status"}
	b.WriteString(renderGrid(headers, sessRows, func(row, col int, cell string) string {
		if col == 4 {
			return statusStyle(m.sessions[row].Status).Render(cell)
		}
		return normalStyle.Render(cell)
	}))
	return b.String()
}

func (m dashboardModel) card(label, value string, width int) string {
	return cardStyle.Width(width).Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
}
