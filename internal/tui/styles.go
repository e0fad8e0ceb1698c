package tui

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/saasdash/internal/theme"
	"github.com/naveenspark/saasdash/pkg/domain"
)

// Shimmer animation for the SAASDASH logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// logoGradient holds the resolved shimmer endpoints for the current display
// mode. The App reloads it from a theme subscription.
type logoGradient struct {
	mu       sync.Mutex
	from, to [3]int
}

func newLogoGradient() *logoGradient {
	g := &logoGradient{}
	g.reload()
	return g
}

func (g *logoGradient) reload() {
	r0, g0, b0 := hexToRGB(theme.Resolve(theme.AccentDeep))
	r1, g1, b1 := hexToRGB(theme.Resolve(theme.Accent))
	g.mu.Lock()
	g.from = [3]int{r0, g0, b0}
	g.to = [3]int{r1, g1, b1}
	g.mu.Unlock()
}

func (g *logoGradient) endpoints() (from, to [3]int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.from, g.to
}

// renderShimmerLogo renders "SAASDASH" as a wave of light flowing from the
// gradient's deep accent to its bright accent.
func renderShimmerLogo(frame int, grad *logoGradient) string {
	const text = "SAASDASH"
	n := len(text)

	from, to := grad.endpoints()
	r0, g0, b0 := from[0], from[1], from[2]
	r1, g1, b1 := to[0], to[1], to[2]

	var out strings.Builder
	t := float64(frame)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		// Slow breathing tide
		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18
		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(float64(r0) + b*float64(r1-r0))
		g := clampByte(float64(g0) + b*float64(g1-g0))
		bl := clampByte(float64(b0) + b*float64(b1-b0))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out.WriteString(s.Render(string(text[i])))

		if i < n-1 {
			out.WriteString(" ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

// hexToRGB parses a hex color string (#RRGGBB) into r,g,b ints.
func hexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 128, 128, 128
	}
	var r, g, b int
	_, _ = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b) //nolint:errcheck
	return r, g, b
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(theme.Muted)

	selectedStyle = lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(theme.Subtext)

	metaStyle = lipgloss.NewStyle().
			Foreground(theme.Faint)

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(theme.Muted)

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(theme.Faint)

	accentStyle = lipgloss.NewStyle().
			Foreground(theme.Accent)

	titleStyle = lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(theme.Muted).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(theme.Danger)

	successStyle = lipgloss.NewStyle().
			Foreground(theme.Success)

	warnStyle = lipgloss.NewStyle().
			Foreground(theme.Warning)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(theme.Accent).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(theme.Faint)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 2)

	cardLabelStyle = lipgloss.NewStyle().
			Foreground(theme.Muted)

	cardValueStyle = lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(theme.Border).
			PaddingRight(1)

	chartBarStyle = lipgloss.NewStyle().
			Foreground(theme.Chart)
)

// statusStyle colors a session status: active green, expired red, anything else dim.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case domain.SessionActive:
		return successStyle.Bold(true)
	case domain.SessionExpired:
		return errorStyle.Bold(true)
	default:
		return dimStyle.Bold(true)
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpLine joins help entries given as key, label pairs.
func helpLine(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}
