package tui

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/saasdash/internal/export"
	"github.com/naveenspark/saasdash/internal/prefs"
	"github.com/naveenspark/saasdash/internal/task"
	"github.com/naveenspark/saasdash/internal/theme"
	"github.com/naveenspark/saasdash/internal/usertable"
	"github.com/naveenspark/saasdash/pkg/domain"
)

type usersLoadedMsg struct {
	users []domain.User
	err   error
}

// analyticsModel is the searchable, sortable, paged user list.
type analyticsModel struct {
	deps    Deps
	scope   *task.Scope
	spinner spinner.Model
	loading bool

	users  []domain.User
	search textinput.Model
	// searching is true while the search box has the keyboard.
	searching bool

	focusCol usertable.Column // header under the sort cursor
	sortCol  usertable.Column
	sortDir  usertable.Direction
	page     int
	pageSize int

	tbl    table.Model
	width  int
	height int
}

func newAnalyticsModel(deps Deps, scope *task.Scope) analyticsModel {
	ti := textinput.New()
	ti.Placeholder = "Search name or email"
	ti.Prompt = "/ "
	ti.PromptStyle = inputPromptStyle
	ti.PlaceholderStyle = inputPlaceholderStyle
	ti.CharLimit = maxInputLen

	st := table.DefaultStyles()
	st.Header = st.Header.Foreground(theme.Muted).Bold(true)
	st.Selected = st.Selected.Foreground(theme.Accent).Bold(true)

	m := analyticsModel{
		deps:     deps,
		scope:    scope,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		loading:  true,
		search:   ti,
		pageSize: loadPageSize(deps.Prefs),
		tbl:      table.New(table.WithFocused(true), table.WithStyles(st), table.WithHeight(10)),
		width:    80,
		height:   20,
	}
	m.refresh()
	return m
}

// loadPageSize reads the stored page size, falling back to the default.
func loadPageSize(p prefs.Store) int {
	if p == nil {
		return usertable.DefaultPageSize
	}
	v, ok, err := p.Get(prefs.KeyPageSize)
	if err != nil {
		log.Printf("analytics: read page size: %v", err)
		return usertable.DefaultPageSize
	}
	if !ok {
		return usertable.DefaultPageSize
	}
	return usertable.ParsePageSize(v)
}

func (m analyticsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m analyticsModel) load() tea.Cmd {
	c := m.deps.Client
	return m.scope.Run(func(ctx context.Context) tea.Msg {
		users, err := c.ListUsers(ctx)
		return usersLoadedMsg{users: users, err: err}
	})
}

// visible returns the filtered, sorted rows before paging.
func (m analyticsModel) visible() []domain.User {
	return usertable.Sort(usertable.Filter(m.users, m.search.Value()), m.sortCol, m.sortDir)
}

// refresh rebuilds the table rows and headers from the current state.
func (m *analyticsModel) refresh() {
	rows := m.visible()
	start, end, _, page := usertable.Paginate(len(rows), m.page, m.pageSize)
	m.page = page

	dateW := 18
	avail := max(m.width-dateW-10, 30)
	nameW := avail * 2 / 5
	emailW := avail - nameW
	widths := map[usertable.Column]int{usertable.ColName: nameW, usertable.ColEmail: emailW, usertable.ColDate: dateW}

	cols := make([]table.Column, 0, len(usertable.Columns))
	for _, c := range usertable.Columns {
		title := c.Title()
		if c == m.sortCol && m.sortDir != usertable.Unsorted {
			title += " " + m.sortDir.Arrow()
		}
		if c == m.focusCol {
			title = "›" + title
		}
		cols = append(cols, table.Column{Title: title, Width: widths[c]})
	}

	pageRows := make([]table.Row, 0, end-start)
	for _, u := range rows[start:end] {
		pageRows = append(pageRows, table.Row{
			truncStr(u.Name, nameW),
			truncStr(u.Email, emailW),
			formatDate(u.DateOfRegistration),
		})
	}

	m.tbl.SetColumns(cols)
	m.tbl.SetRows(pageRows)
	m.tbl.SetHeight(max(min(m.pageSize, m.height-8), 3) + 1)
	// SetCursor on an empty table leaves the cursor at -1.
	if c := m.tbl.Cursor(); len(pageRows) > 0 && (c < 0 || c >= len(pageRows)) {
		m.tbl.SetCursor(min(max(c, 0), len(pageRows)-1))
	}
}

// selected returns the user under the table cursor.
func (m analyticsModel) selected() (domain.User, bool) {
	rows := m.visible()
	start, end, _, _ := usertable.Paginate(len(rows), m.page, m.pageSize)
	i := start + m.tbl.Cursor()
	if i < start || i >= end {
		return domain.User{}, false
	}
	return rows[i], true
}

func (m analyticsModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(msg.Width-8, 10)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case usersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			log.Printf("analytics: list users: %v", msg.err)
			m.users = nil
		} else {
			m.users = msg.users
		}
		m.refresh()
		return m, nil

	case themeToggledMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m analyticsModel) updateSearch(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		m.tbl.Focus()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.page = 0
		m.refresh()
	}
	return m, cmd
}

func (m analyticsModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.searching = true
		m.tbl.Blur()
		return m, m.search.Focus()

	case "h", "left":
		m.focusCol = (m.focusCol + usertable.Column(len(usertable.Columns)) - 1) % usertable.Column(len(usertable.Columns))
		m.refresh()
		return m, nil

	case "l", "right":
		m.focusCol = (m.focusCol + 1) % usertable.Column(len(usertable.Columns))
		m.refresh()
		return m, nil

	case "s":
		if m.focusCol == m.sortCol {
			m.sortDir = m.sortDir.Next()
		} else {
			m.sortCol, m.sortDir = m.focusCol, usertable.Asc
		}
		m.page = 0
		m.refresh()
		return m, nil

	case "[":
		m.page--
		m.refresh()
		return m, nil

	case "]":
		m.page++
		m.refresh()
		return m, nil

	case "z":
		m.pageSize = usertable.NextPageSize(m.pageSize)
		m.page = 0
		m.refresh()
		if err := m.deps.Prefs.Set(prefs.KeyPageSize, strconv.Itoa(m.pageSize)); err != nil {
			log.Printf("analytics: save page size: %v", err)
		}
		return m, nil

	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.load())

	case "x":
		return m, exportUsers(m.users)

	case "c":
		u, ok := m.selected()
		if !ok {
			return m, flash("No user selected.", true)
		}
		return m, copyToClipboard(u.Email)
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

// exportUsers writes every loaded user, ignoring search and sort.
func exportUsers(users []domain.User) tea.Cmd {
	return func() tea.Msg {
		if err := export.SaveUsersCSV(export.DefaultFilename, users); err != nil {
			log.Printf("analytics: export: %v", err)
			return flashMsg{text: "Export failed: " + err.Error(), err: true}
		}
		return flashMsg{text: fmt.Sprintf("Exported %d users to %s", len(users), export.DefaultFilename)}
	}
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			log.Printf("analytics: clipboard: %v", err)
			return flashMsg{text: "Clipboard unavailable", err: true}
		}
		return flashMsg{text: "Copied " + text}
	}
}

func (m analyticsModel) editing() bool { return m.searching }

func (m analyticsModel) helpKeys() string {
	if m.searching {
		return helpLine("type", "filter", "enter/esc", "done")
	}
	return helpLine("/", "search", "h/l", "column", "s", "sort", "[/]", "page", "z", "size", "x", "export", "c", "copy email", "r", "reload")
}

func (m analyticsModel) View() string {
	if m.loading {
		return "\n  " + m.spinner.View() + " " + dimStyle.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("User List") + "\n\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString("  " + m.search.View() + "\n\n")
	}

	rows := m.visible()
	if len(rows) == 0 {
		if len(m.users) == 0 {
			b.WriteString("  " + dimStyle.Render("No users.") + "\n")
		} else {
			b.WriteString("  " + dimStyle.Render("No users match the search.") + "\n")
		}
	} else {
		b.WriteString(indent(m.tbl.View(), 2) + "\n")
	}

	_, _, pages, _ := usertable.Paginate(len(rows), m.page, m.pageSize)
	footer := fmt.Sprintf("Page %d of %d", m.page+1, pages)
	footer += "  ·  Show " + strconv.Itoa(m.pageSize)
	footer += fmt.Sprintf("  ·  %d of %d users", len(rows), len(m.users))
	b.WriteString("\n  " + metaStyle.Render(footer) + "\n")
	return b.String()
}
