package tui

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/saasdash/internal/guard"
	"github.com/naveenspark/saasdash/internal/prefs"
	"github.com/naveenspark/saasdash/internal/session"
	"github.com/naveenspark/saasdash/internal/task"
	"github.com/naveenspark/saasdash/internal/theme"
	"github.com/naveenspark/saasdash/pkg/client"
	"github.com/naveenspark/saasdash/pkg/domain"
)

// crashMessage replaces a view that panicked.
const crashMessage = "Something went wrong! Please try again later."

// Deps are the services every view shares. All fields are required.
type Deps struct {
	Client  *client.Client
	Session *session.Store
	Theme   *theme.Store
	Prefs   prefs.Store
}

// screen is one routed view. Each is built fresh on navigation.
type screen interface {
	Init() tea.Cmd
	Update(tea.Msg) (screen, tea.Cmd)
	View() string
	// editing is true while a text input owns the keyboard.
	editing() bool
	helpKeys() string
}

// -- messages --

// navigateMsg asks the router to show a route. flash, when set, is shown in the status line.
type navigateMsg struct {
	route guard.Route
	flash string
}

func navigateTo(r guard.Route, flash string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: r, flash: flash} }
}

// authChangedMsg is sent after a login stored a token.
type authChangedMsg struct{}

// flashMsg sets the status line.
type flashMsg struct {
	text string
	err  bool
}

func flash(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return flashMsg{text: text, err: isErr} }
}

type logoutResultMsg struct{ err error }

type avatarLoadedMsg struct {
	image string
	err   error
}

type themeToggledMsg struct{ dark bool }

// App is the root Bubbletea model.
type App struct {
	deps   Deps
	route  guard.Route
	screen screen
	scope  *task.Scope

	crashed  bool
	avatar   string
	flash    string
	flashErr bool

	width  int
	height int
	frame  int // logo shimmer animation frame
	logo   *logoGradient
}

// NewApp creates the TUI showing the dashboard, or the login view without a session.
func NewApp(deps Deps) App {
	a := App{deps: deps, logo: newLogoGradient()}
	logo := a.logo
	deps.Theme.Subscribe(func(bool) { logo.reload() })
	a.mount(guard.RouteDashboard)
	return a
}

// mount resolves r through the guard, tears down the current view and builds
// the resolved one. It does not call Init.
func (a *App) mount(r guard.Route) {
	resolved := guard.Resolve(r, guard.Check(a.deps.Session))
	if a.scope != nil {
		a.scope.Cancel()
	}
	a.scope = task.NewScope(context.Background())
	a.route = resolved
	a.crashed = false
	a.screen = a.build(resolved)
	if a.width > 0 {
		a.screen, _ = a.screen.Update(a.bodySize())
	}
}

func (a App) build(r guard.Route) screen {
	switch r {
	case guard.RouteDashboard:
		return newDashboardModel(a.deps, a.scope)
	case guard.RouteAnalytics:
		return newAnalyticsModel(a.deps, a.scope)
	case guard.RouteProfile:
		return newProfileModel(a.deps, a.scope)
	case guard.RouteRegister:
		return newRegisterModel(a.deps, a.scope)
	default:
		return newLoginModel(a.deps, a.scope)
	}
}

func (a App) navigate(r guard.Route) (App, tea.Cmd) {
	a.mount(r)
	return a, a.initScreen()
}

// Route returns the route currently shown.
func (a App) Route() guard.Route { return a.route }

func (a App) Init() tea.Cmd {
	return tea.Batch(a.initScreen(), shimmerTickCmd(), a.loadAvatar())
}

func (a App) initScreen() (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tui: init %s: %v", a.route, r)
			cmd = func() tea.Msg { return screenCrashedMsg{} }
		}
	}()
	return a.screen.Init()
}

type screenCrashedMsg struct{}

// loadAvatar fetches the profile image for the navbar. It is app-scoped and
// falls back to the default image on any failure.
func (a App) loadAvatar() tea.Cmd {
	if !a.deps.Session.Authenticated() {
		return nil
	}
	c := a.deps.Client
	return func() tea.Msg {
		p, err := c.GetProfile(context.Background())
		if err != nil {
			return avatarLoadedMsg{err: err}
		}
		return avatarLoadedMsg{image: p.ProfileImage}
	}
}

func (a App) bodySize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width - a.sidebarWidth(), Height: a.height - chromeHeight}
}

// Chrome: header(2) + tabs(1) + flash(1) + help(1).
const chromeHeight = 5

func (a App) sidebarWidth() int {
	if a.width < 70 {
		return 0
	}
	return 18
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.updateScreen(a.bodySize())

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case task.Result:
		inner, ok := a.scope.Accept(msg)
		if !ok {
			// Result from a view that is no longer mounted.
			return a, nil
		}
		return a.updateScreen(inner)

	case navigateMsg:
		if msg.flash != "" {
			a.flash, a.flashErr = msg.flash, false
		}
		return a.navigate(msg.route)

	case authChangedMsg:
		a.flash, a.flashErr = "", false
		next, cmd := a.navigate(guard.RouteDashboard)
		return next, tea.Batch(cmd, next.loadAvatar())

	case flashMsg:
		a.flash, a.flashErr = msg.text, msg.err
		return a, nil

	case avatarLoadedMsg:
		if msg.err != nil {
			log.Printf("navbar: profile image: %v", msg.err)
			a.avatar = ""
			return a, nil
		}
		a.avatar = msg.image
		return a, nil

	case logoutResultMsg:
		if msg.err != nil {
			log.Printf("logout: %v", msg.err)
			a.flash, a.flashErr = "Failed to logout. Please try again.", true
			return a, nil
		}
		a.deps.Session.ClearToken()
		a.avatar = ""
		a.flash, a.flashErr = "Logout successful", false
		return a.navigate(guard.RouteDashboard)

	case themeToggledMsg:
		return a.updateScreen(msg)

	case screenCrashedMsg:
		a.crashed = true
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.isEditing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				return a.switchTo(guard.RouteDashboard)
			case "2":
				return a.switchTo(guard.RouteAnalytics)
			case "3":
				return a.switchTo(guard.RouteProfile)
			case "t":
				dark := a.deps.Theme.Toggle()
				a.flash, a.flashErr = "display mode: "+a.deps.Theme.Label(), false
				return a.updateScreen(themeToggledMsg{dark: dark})
			case "L":
				return a.logout()
			}
		}
	}

	return a.updateScreen(msg)
}

// switchTo navigates unless r is already shown.
func (a App) switchTo(r guard.Route) (tea.Model, tea.Cmd) {
	if guard.Resolve(r, guard.Check(a.deps.Session)) == a.route && !a.crashed {
		return a, nil
	}
	a.flash = ""
	return a.navigate(r)
}

func (a App) logout() (tea.Model, tea.Cmd) {
	if !a.deps.Session.Authenticated() {
		a.flash, a.flashErr = "No user is logged in.", true
		return a, nil
	}
	c := a.deps.Client
	return a, func() tea.Msg {
		return logoutResultMsg{err: c.Logout(context.Background())}
	}
}

// updateScreen forwards msg to the mounted view. A panic marks the view as
// crashed until the next navigation.
func (a App) updateScreen(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	if a.crashed {
		return a, nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tui: update %s: %v", a.route, r)
			a.crashed = true
			model, cmd = a, nil
		}
	}()
	a.screen, cmd = a.screen.Update(msg)
	return a, cmd
}

func (a App) isEditing() bool {
	if a.crashed {
		return false
	}
	return a.screen.editing()
}

// renderBody draws the mounted view, replacing it with crashMessage on panic.
func (a App) renderBody() (body string) {
	if a.crashed {
		return "\n  " + errorStyle.Render(crashMessage)
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tui: render %s: %v", a.route, r)
			body = "\n  " + errorStyle.Render(crashMessage)
		}
	}()
	return a.screen.View()
}

func (a App) View() string {
	// Header: centered shimmer logo, avatar and mode below
	header := centerLine(renderShimmerLogo(a.frame, a.logo), a.width)
	var meta []string
	if a.deps.Session.Authenticated() {
		meta = append(meta, "avatar "+truncStr(domain.ImageOrDefault(a.avatar, a.deps.Client.BaseURL()), 48))
	}
	meta = append(meta, a.deps.Theme.Label()+" mode")
	header += "\n" + centerLine(metaStyle.Render(strings.Join(meta, " . ")), a.width)

	tabs := a.renderTabs()

	body := a.renderBody()
	bodyHeight := a.height - chromeHeight
	body = strings.TrimRight(truncateToHeight(body, bodyHeight), "\n")
	if sw := a.sidebarWidth(); sw > 0 {
		side := sidebarStyle.Width(sw - 2).Height(max(bodyHeight, 1)).Render(a.renderSidebar())
		body = lipgloss.JoinHorizontal(lipgloss.Top, side, " "+strings.ReplaceAll(body, "\n", "\n "))
		body = strings.TrimRight(truncateToHeight(body, bodyHeight), "\n")
	}

	status := ""
	if a.flash != "" {
		if a.flashErr {
			status = " " + errorStyle.Render(a.flash)
		} else {
			status = " " + successStyle.Render(a.flash)
		}
	}

	help := helpLine("1-3", "tabs", "t", "theme", "L", "logout", "q", "quit")
	if !a.crashed {
		if keys := a.screen.helpKeys(); keys != "" {
			help = keys + "  " + helpEntry("q", "quit")
		}
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabs, body, status, help)
}

var tabRoutes = []struct {
	key   string
	name  string
	route guard.Route
}{
	{"1", "Dashboard", guard.RouteDashboard},
	{"2", "Analytics", guard.RouteAnalytics},
	{"3", "Profile", guard.RouteProfile},
}

func (a App) renderTabs() string {
	colWidth := a.width / len(tabRoutes)
	var tabBar strings.Builder
	for _, t := range tabRoutes {
		var label string
		if t.route == a.route {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return tabBar.String()
}

func (a App) renderSidebar() string {
	type entry struct {
		name  string
		route guard.Route
	}
	var entries []entry
	if a.deps.Session.Authenticated() {
		entries = []entry{
			{"Dashboard", guard.RouteDashboard},
			{"Analytics", guard.RouteAnalytics},
			{"Profile", guard.RouteProfile},
		}
	} else {
		entries = []entry{
			{"Login", guard.RouteLogin},
			{"Register", guard.RouteRegister},
		}
	}
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("MENU") + "\n\n")
	for _, e := range entries {
		if e.route == a.route {
			b.WriteString(accentStyle.Render("> ") + selectedStyle.Render(e.name) + "\n")
		} else {
			b.WriteString("  " + dimStyle.Render(e.name) + "\n")
		}
	}
	if a.deps.Session.Authenticated() {
		b.WriteString("\n  " + metaStyle.Render("L  logout") + "\n")
	}
	return b.String()
}
