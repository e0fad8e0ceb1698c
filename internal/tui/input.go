package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 256

// field describes one form input.
type field struct {
	label       string
	placeholder string
	secret      bool
}

// form is a vertical stack of text inputs with one focused at a time.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(fields ...field) form {
	f := form{}
	for _, fd := range fields {
		ti := textinput.New()
		ti.Placeholder = fd.placeholder
		ti.CharLimit = maxInputLen
		ti.Prompt = ""
		ti.PlaceholderStyle = inputPlaceholderStyle
		if fd.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, ti)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// value returns the raw text of input i.
func (f form) value(i int) string { return f.inputs[i].Value() }

// trimmed returns the text of input i without surrounding whitespace.
func (f form) trimmed(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

func (f *form) setValue(i int, v string) { f.inputs[i].SetValue(v) }

// setFocus moves focus to input i, wrapping around.
func (f *form) setFocus(i int) tea.Cmd {
	n := len(f.inputs)
	if n == 0 {
		return nil
	}
	i = ((i % n) + n) % n
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.setFocus(0)
}

// last reports whether the focused input is the final one.
func (f form) last() bool { return f.focus == len(f.inputs)-1 }

// update handles focus movement and forwards everything else to the focused input.
func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			cmd := f.setFocus(f.focus + 1)
			return f, cmd
		case "shift+tab", "up":
			cmd := f.setFocus(f.focus - 1)
			return f, cmd
		}
	}
	if len(f.inputs) == 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f form) View() string {
	var b strings.Builder
	for i, ti := range f.inputs {
		label := dimStyle.Render(f.labels[i])
		prompt := "  "
		if i == f.focus {
			label = selectedStyle.Render(f.labels[i])
			prompt = inputPromptStyle.Render("> ")
		}
		b.WriteString("  " + label + "\n")
		b.WriteString("  " + prompt + ti.View() + "\n")
	}
	return b.String()
}
