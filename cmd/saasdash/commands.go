package main

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/naveenspark/saasdash/internal/browser"
	"github.com/naveenspark/saasdash/internal/export"
	"github.com/naveenspark/saasdash/internal/guard"
	"github.com/naveenspark/saasdash/internal/prefs"
	"github.com/naveenspark/saasdash/internal/usertable"
	"github.com/naveenspark/saasdash/pkg/client"
	"github.com/naveenspark/saasdash/pkg/domain"
)

// messageError is shown to the user verbatim.
type messageError string

func (e messageError) Error() string { return string(e) }

func newLoginCmd(apiURL *string) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(apiURL, func(e *env) error {
				tok, err := e.client.Login(cmd.Context(), domain.Credentials{Email: email, Password: password})
				if err != nil {
					return messageError(client.Message(err))
				}
				e.session.SetToken(tok)

				name := email
				if p, err := e.client.GetProfile(cmd.Context()); err != nil {
					log.Printf("login: profile: %v", err)
				} else if p.Name != "" {
					name = p.Name
				}
				printWelcome(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(apiURL *string) *cobra.Command {
	var reg domain.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(apiURL, func(e *env) error {
				if _, err := e.client.Register(cmd.Context(), reg); err != nil {
					return messageError(client.MessageOr(err, "Registration failed"))
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Registration successful! Please log in.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&reg.Name, "name", "", "display name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(apiURL, func(e *env) error {
				if !e.session.Authenticated() {
					return messageError("No user is logged in.")
				}
				if err := e.client.Logout(cmd.Context()); err != nil {
					log.Printf("logout: %v", err)
					return messageError("Failed to logout. Please try again.")
				}
				e.session.ClearToken()
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logout successful")
				return nil
			})
		},
	}
}

func newUsersCmd(apiURL *string) *cobra.Command {
	var (
		search     string
		sortBy     string
		page       int
		pageSize   int
		exportPath string
	)
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			col, dir, err := usertable.ParseSort(sortBy)
			if err != nil {
				return err
			}
			return withEnv(apiURL, func(e *env) error {
				if err := guard.Require(e.session); err != nil {
					return err
				}
				users, err := e.client.ListUsers(cmd.Context())
				if err != nil {
					return fmt.Errorf("list users: %w", err)
				}
				out := cmd.OutOrStdout()

				if exportPath != "" {
					if err := export.SaveUsersCSV(exportPath, users); err != nil {
						return err
					}
					_, _ = fmt.Fprintf(out, "Exported %d users to %s\n", len(users), exportPath)
					return nil
				}

				size := pageSize
				if size <= 0 {
					size = storedPageSize(e.prefs)
				}
				rows := usertable.Sort(usertable.Filter(users, search), col, dir)
				start, end, pages, current := usertable.Paginate(len(rows), page-1, size)

				cells := make([][]string, 0, end-start)
				for _, u := range rows[start:end] {
					cells = append(cells, []string{u.Name, u.Email, formatDay(u)})
				}
				headers := make([]string, 0, len(usertable.Columns))
				for _, c := range usertable.Columns {
					headers = append(headers, c.Title())
				}
				printTable(out, headers, cells)
				_, _ = fmt.Fprintf(out, "Page %d of %d  ·  %d of %d users\n", current+1, pages, len(rows), len(users))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by name or email")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort column: name, email or date; prefix - for descending")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page (default: the size saved by the TUI)")
	cmd.Flags().StringVar(&exportPath, "export", "", "write all users to this CSV file instead of printing")
	return cmd
}

func storedPageSize(p prefs.Store) int {
	v, ok, err := p.Get(prefs.KeyPageSize)
	if err != nil {
		log.Printf("users: read page size: %v", err)
	}
	if err != nil || !ok {
		return usertable.DefaultPageSize
	}
	return usertable.ParsePageSize(v)
}

func formatDay(u domain.User) string {
	if u.DateOfRegistration.IsZero() {
		return ""
	}
	return u.DateOfRegistration.Local().Format(export.DateLayout)
}

func newDashboardCmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(apiURL, func(e *env) error {
				if err := guard.Require(e.session); err != nil {
					return err
				}
				ctx := cmd.Context()
				sum, err := e.client.DashboardSummary(ctx)
				if err != nil {
					return fmt.Errorf("dashboard summary: %w", err)
				}
				revenue, err := e.client.RevenueHistory(ctx)
				if err != nil {
					return fmt.Errorf("revenue history: %w", err)
				}
				sessions, err := e.client.SessionHistory(ctx)
				if err != nil {
					return fmt.Errorf("session history: %w", err)
				}

				var active, expired int
				for _, s := range sessions {
					switch s.Status {
					case domain.SessionActive:
						active++
					case domain.SessionExpired:
						expired++
					}
				}
				printTable(cmd.OutOrStdout(), []string{"Metric", "Value"}, [][]string{
					{"Total Users", strconv.Itoa(sum.TotalUsers)},
					{"Total Sessions", strconv.Itoa(sum.TotalSessions)},
					{"Total Revenue", fmt.Sprintf("$%.2f", sum.TotalRevenue)},
					{"Revenue records", strconv.Itoa(len(revenue))},
					{"Session records", fmt.Sprintf("%d (%d active, %d expired)", len(sessions), active, expired)},
				})
				return nil
			})
		},
	}
}

func newProfileCmd(apiURL *string) *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(apiURL, func(e *env) error {
				if err := guard.Require(e.session); err != nil {
					return err
				}
				p, err := e.client.GetProfile(cmd.Context())
				if err != nil {
					return messageError(client.MessageOr(err, "Failed to load profile."))
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "name:  %s\nemail: %s\nimage: %s\n", p.Name, p.Email, p.ImageOrDefault(e.client.BaseURL()))
				if len(p.Skills) == 0 {
					_, _ = fmt.Fprintln(out, "skills: none")
					return nil
				}
				rows := make([][]string, len(p.Skills))
				for i, s := range p.Skills {
					rows[i] = []string{s.Skill, strconv.Itoa(s.YearsOfExperience)}
				}
				printTable(out, []string{"Skill", "Years"}, rows)
				return nil
			})
		},
	}

	var upd domain.ProfileUpdate
	update := &cobra.Command{
		Use:   "update",
		Short: "Change name, email or password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(apiURL, func(e *env) error {
				if err := guard.Require(e.session); err != nil {
					return err
				}
				// Unset fields keep their current value.
				if upd.Name == "" || upd.Email == "" {
					cur, err := e.client.GetProfile(cmd.Context())
					if err != nil {
						return messageError(client.MessageOr(err, "Failed to load profile."))
					}
					if upd.Name == "" {
						upd.Name = cur.Name
					}
					if upd.Email == "" {
						upd.Email = cur.Email
					}
				}
				p, err := e.client.UpdateProfile(cmd.Context(), upd)
				if err != nil {
					return messageError(client.MessageOr(err, "Failed to update profile."))
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile updated: %s <%s>\n", p.Name, p.Email)
				return nil
			})
		},
	}
	update.Flags().StringVar(&upd.Name, "name", "", "new name")
	update.Flags().StringVar(&upd.Email, "email", "", "new email")
	update.Flags().StringVar(&upd.Password, "password", "", "new password")

	var skill domain.Skill
	addSkill := &cobra.Command{
		Use:   "add-skill",
		Short: "Add a skill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(apiURL, func(e *env) error {
				if err := guard.Require(e.session); err != nil {
					return err
				}
				skills, err := e.client.AddSkill(cmd.Context(), skill)
				if err != nil {
					return messageError(client.MessageOr(err, "Failed to add skill."))
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Skill added. You now list %d skills.\n", len(skills))
				return nil
			})
		},
	}
	addSkill.Flags().StringVar(&skill.Skill, "skill", "", "skill name")
	addSkill.Flags().IntVar(&skill.YearsOfExperience, "years", 0, "years of experience")
	_ = addSkill.MarkFlagRequired("skill")

	upload := &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload a profile image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(apiURL, func(e *env) error {
				if err := guard.Require(e.session); err != nil {
					return err
				}
				url, err := e.client.UploadProfileImageFile(cmd.Context(), args[0])
				if err != nil {
					if client.IsValidation(err) {
						return messageError(client.Message(err))
					}
					log.Printf("profile upload: %v", err)
					return messageError("Failed to upload profile image.")
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Profile image: "+url)
				return nil
			})
		},
	}

	open := &cobra.Command{
		Use:   "open",
		Short: "Open the profile image in the browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(apiURL, func(e *env) error {
				if err := guard.Require(e.session); err != nil {
					return err
				}
				p, err := e.client.GetProfile(cmd.Context())
				if err != nil {
					return messageError(client.MessageOr(err, "Failed to load profile."))
				}
				return browser.Open(p.ImageOrDefault(e.client.BaseURL()))
			})
		},
	}

	profile.AddCommand(update, addSkill, upload, open)
	return profile
}

func newThemeCmd(apiURL *string) *cobra.Command {
	show := &cobra.Command{
		Use:   "theme",
		Short: "Show the display mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(apiURL, func(e *env) error {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "display mode: "+e.theme.Label())
				return nil
			})
		},
	}
	show.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(apiURL, func(e *env) error {
				e.theme.Toggle()
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "display mode: "+e.theme.Label())
				return nil
			})
		},
	})
	return show
}

// printTable renders rows as a bordered table.
func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...)
	_, _ = fmt.Fprintln(w, t.String())
}
