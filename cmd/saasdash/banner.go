package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/saasdash/internal/theme"
)

var welcomeLines = [...]string{
	"The numbers missed you.",
	"Revenue does not chart itself. Well, it does now.",
	"Your sessions are active. Hopefully so are you.",
	"Fresh data, same dashboard.",
	"Somebody registered while you were away. Go look.",
	"Pages of users, sorted however you like.",
	"Press 2 for analytics. Press q when you have seen enough.",
	"Dark mode is one keystroke away.",
}

// printWelcome greets a freshly logged-in user.
func printWelcome(w io.Writer, name string) {
	msg := welcomeLines[rand.IntN(len(welcomeLines))]

	title := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render("S A A S D A S H")

	hello := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Welcome, " + name + ".")

	quote := lipgloss.NewStyle().
		Foreground(theme.Muted).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(theme.Faint).
		Render("Run saasdash to open the dashboard.")

	_, _ = fmt.Fprintf(w, "\n  %s\n\n  %s\n  %s\n\n  %s\n\n", title, hello, quote, hint)
}
