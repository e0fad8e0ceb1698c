package theme

import "github.com/charmbracelet/lipgloss"

var (
	Text    = lipgloss.AdaptiveColor{Light: "#1f2430", Dark: "#e4e4ec"}
	Subtext = lipgloss.AdaptiveColor{Light: "#4b5263", Dark: "#c0c4d0"}
	Muted   = lipgloss.AdaptiveColor{Light: "#7a8294", Dark: "#8890a0"}
	Faint   = lipgloss.AdaptiveColor{Light: "#a3aab8", Dark: "#505868"}
	Border  = lipgloss.AdaptiveColor{Light: "#d5d9e2", Dark: "#1e1e2a"}
	Surface = lipgloss.AdaptiveColor{Light: "#f3f4f7", Dark: "#111118"}

	Accent     = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	AccentDeep = lipgloss.AdaptiveColor{Light: "#1e3a8a", Dark: "#1e3a5f"}
	Success    = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}
	Danger     = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}
	Warning    = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"}
	Chart      = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
)

// Resolve returns the hex value c takes in the current mode.
func Resolve(c lipgloss.AdaptiveColor) string {
	if lipgloss.HasDarkBackground() {
		return c.Dark
	}
	return c.Light
}
