package tui

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/saasdash/internal/browser"
	"github.com/naveenspark/saasdash/internal/task"
	"github.com/naveenspark/saasdash/pkg/client"
	"github.com/naveenspark/saasdash/pkg/domain"
)

type profileMode int

const (
	profileViewing profileMode = iota
	profileEditing
	profileAddingSkill
	profileUploading
)

type profileLoadedMsg struct {
	profile *domain.Profile
	err     error
}

type profileSavedMsg struct {
	profile *domain.Profile
	err     error
}

type skillAddedMsg struct {
	skills []domain.Skill
	err    error
}

type imageUploadedMsg struct {
	image string
	err   error
}

type profileModel struct {
	deps    Deps
	scope   *task.Scope
	spinner spinner.Model

	loading bool
	saving  bool
	// errText replaces the whole view until the next reload.
	errText string

	name   string
	email  string
	skills []domain.Skill
	image  string

	mode profileMode
	form form
	hint string // inline notice under the active form
}

func newProfileModel(deps Deps, scope *task.Scope) profileModel {
	return profileModel{
		deps:    deps,
		scope:   scope,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		loading: true,
	}
}

func (m profileModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m profileModel) load() tea.Cmd {
	c := m.deps.Client
	return m.scope.Run(func(ctx context.Context) tea.Msg {
		p, err := c.GetProfile(ctx)
		return profileLoadedMsg{profile: p, err: err}
	})
}

func (m profileModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading && !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			log.Printf("profile: load: %v", msg.err)
			m.errText = client.MessageOr(msg.err, "Failed to load profile.")
			return m, nil
		}
		m.name, m.email = msg.profile.Name, msg.profile.Email
		m.skills = msg.profile.Skills
		m.image = msg.profile.ProfileImage
		return m, nil

	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			log.Printf("profile: update: %v", msg.err)
			m.errText = client.MessageOr(msg.err, "Failed to update profile.")
			m.mode = profileViewing
			return m, nil
		}
		m.name, m.email = msg.profile.Name, msg.profile.Email
		m.mode = profileViewing
		return m, flash("Profile updated", false)

	case skillAddedMsg:
		m.saving = false
		if msg.err != nil {
			log.Printf("profile: add skill: %v", msg.err)
			m.errText = client.MessageOr(msg.err, "Failed to add skill.")
			m.mode = profileViewing
			return m, nil
		}
		m.skills = msg.skills
		m.form.reset()
		m.mode = profileViewing
		return m, nil

	case imageUploadedMsg:
		m.saving = false
		if msg.err != nil {
			log.Printf("profile: upload image: %v", msg.err)
			if client.IsValidation(msg.err) {
				// Nothing was sent; keep the form open.
				m.hint = client.Message(msg.err)
				return m, nil
			}
			m.errText = "Failed to upload profile image."
			m.mode = profileViewing
			return m, nil
		}
		m.image = msg.image
		m.mode = profileViewing
		return m, flash("Profile image updated", false)

	case tea.KeyMsg:
		if m.mode != profileViewing {
			return m.updateForm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m profileModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	if m.loading || m.saving {
		return m, nil
	}
	switch msg.String() {
	case "r":
		m.errText = ""
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.load())
	}
	if m.errText != "" {
		return m, nil
	}

	switch msg.String() {
	case "e":
		m.form = newForm(
			field{label: "Name", placeholder: "Name"},
			field{label: "Email", placeholder: "Email"},
			field{label: "Password", placeholder: "leave blank to keep", secret: true},
		)
		m.form.setValue(0, m.name)
		m.form.setValue(1, m.email)
		m.mode, m.hint = profileEditing, ""
		return m, nil

	case "a":
		m.form = newForm(
			field{label: "Skill", placeholder: "Add a new skill"},
			field{label: "Years of experience", placeholder: "Years of experience"},
		)
		m.mode, m.hint = profileAddingSkill, ""
		return m, nil

	case "u":
		m.form = newForm(field{label: "Image file", placeholder: "/path/to/picture.png"})
		m.mode, m.hint = profileUploading, ""
		return m, nil

	case "o":
		url := domain.ImageOrDefault(m.image, m.deps.Client.BaseURL())
		return m, func() tea.Msg {
			if err := browser.Open(url); err != nil {
				log.Printf("profile: open image: %v", err)
				return flashMsg{text: "Cannot open " + url, err: true}
			}
			return nil
		}
	}
	return m, nil
}

func (m profileModel) updateForm(msg tea.KeyMsg) (screen, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.mode, m.hint = profileViewing, ""
		return m, nil
	case "enter":
		return m.submit()
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m profileModel) submit() (screen, tea.Cmd) {
	c := m.deps.Client
	switch m.mode {
	case profileEditing:
		u := domain.ProfileUpdate{Name: m.form.trimmed(0), Email: m.form.trimmed(1), Password: m.form.value(2)}
		m.saving = true
		return m, tea.Batch(m.spinner.Tick, m.scope.Run(func(ctx context.Context) tea.Msg {
			p, err := c.UpdateProfile(ctx, u)
			return profileSavedMsg{profile: p, err: err}
		}))

	case profileAddingSkill:
		skill, years := m.form.trimmed(0), m.form.trimmed(1)
		if skill == "" || years == "" {
			return m, nil
		}
		n, err := strconv.Atoi(years)
		if err != nil {
			m.hint = "Years of experience must be a whole number."
			return m, nil
		}
		s := domain.Skill{Skill: skill, YearsOfExperience: n}
		m.saving = true
		return m, tea.Batch(m.spinner.Tick, m.scope.Run(func(ctx context.Context) tea.Msg {
			skills, err := c.AddSkill(ctx, s)
			return skillAddedMsg{skills: skills, err: err}
		}))

	case profileUploading:
		path := m.form.trimmed(0)
		m.saving = true
		return m, tea.Batch(m.spinner.Tick, m.scope.Run(func(ctx context.Context) tea.Msg {
			image, err := c.UploadProfileImageFile(ctx, path)
			return imageUploadedMsg{image: image, err: err}
		}))
	}
	return m, nil
}

func (m profileModel) editing() bool { return m.mode != profileViewing }

func (m profileModel) helpKeys() string {
	if m.mode != profileViewing {
		return helpLine("tab", "next field", "enter", "save", "esc", "cancel")
	}
	if m.errText != "" {
		return helpLine("r", "retry", "1-3", "tabs", "L", "logout")
	}
	return helpLine("e", "edit", "a", "add skill", "u", "upload image", "o", "open image", "t", "theme", "r", "reload")
}

func (m profileModel) View() string {
	if m.loading {
		return "\n  " + m.spinner.View() + " " + dimStyle.Render("Loading...")
	}
	if m.errText != "" {
		return "\n  " + errorStyle.Render(m.errText)
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Profile") + "\n\n")
	b.WriteString("  " + metaStyle.Render(domain.ImageOrDefault(m.image, m.deps.Client.BaseURL())) + "\n\n")
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("Name: "), selectedStyle.Render(m.name))
	fmt.Fprintf(&b, "  %s %s\n\n", dimStyle.Render("Email:"), normalStyle.Render(m.email))

	b.WriteString("  " + sectionHeaderStyle.Render("Skills") + "\n")
	if len(m.skills) == 0 {
		b.WriteString("  " + dimStyle.Render("No skills added yet.") + "\n")
	}
	for _, s := range m.skills {
		fmt.Fprintf(&b, "  %s %s\n", accentStyle.Render("·"),
			normalStyle.Render(fmt.Sprintf("%s - %d years", s.Skill, s.YearsOfExperience)))
	}

	if m.mode != profileViewing {
		titles := map[profileMode]string{
			profileEditing:     "Edit Profile",
			profileAddingSkill: "Add Skill",
			profileUploading:   "Upload Profile Image",
		}
		b.WriteString("\n  " + titleStyle.Render(titles[m.mode]) + "\n")
		b.WriteString(m.form.View())
		if m.hint != "" {
			b.WriteString("  " + warnStyle.Render(m.hint) + "\n")
		}
		if m.saving {
			b.WriteString("  " + m.spinner.View() + " " + dimStyle.Render("Saving...") + "\n")
		}
	}
	return b.String()
}
