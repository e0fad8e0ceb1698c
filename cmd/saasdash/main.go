package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/naveenspark/saasdash/internal/config"
	"github.com/naveenspark/saasdash/internal/prefs"
	"github.com/naveenspark/saasdash/internal/session"
	"github.com/naveenspark/saasdash/internal/theme"
	"github.com/naveenspark/saasdash/internal/tui"
	"github.com/naveenspark/saasdash/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env holds the services one command invocation works with.
type env struct {
	cfg     *config.Config
	prefs   prefs.Store
	session *session.Store
	theme   *theme.Store
	client  *client.Client
}

func (e *env) deps() tui.Deps {
	return tui.Deps{Client: e.client, Session: e.session, Theme: e.theme, Prefs: e.prefs}
}

// openEnv loads configuration and opens the preference store. apiURL, when
// set, overrides SAASDASH_API_URL.
func openEnv(apiURL string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	p, err := prefs.Open(cfg.PrefsBackend, cfg.Home)
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	sess := session.New(p, session.WithEnvToken(cfg.Token))

	opts := []client.Option{client.WithTimeout(cfg.HTTPTimeout)}
	if cfg.LogoutOn401 {
		opts = append(opts, client.WithUnauthorizedHook(sess.ClearToken))
	}
	return &env{
		cfg:     cfg,
		prefs:   p,
		session: sess,
		theme:   theme.New(p),
		client:  client.New(cfg.APIURL, sess, opts...),
	}, nil
}

// withEnv runs fn with a freshly opened env and closes it afterwards.
func withEnv(apiURL *string, fn func(e *env) error) error {
	e, err := openEnv(*apiURL)
	if err != nil {
		return err
	}
	defer e.prefs.Close() //nolint:errcheck
	return fn(e)
}

func newRootCmd() *cobra.Command {
	var apiURL string

	root := &cobra.Command{
		Use:           "saasdash",
		Short:         "Terminal dashboard for the SaaS analytics backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withEnv(&apiURL, runTUI)
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides SAASDASH_API_URL)")

	root.AddCommand(
		newTUICmd(&apiURL),
		newLoginCmd(&apiURL),
		newRegisterCmd(&apiURL),
		newLogoutCmd(&apiURL),
		newUsersCmd(&apiURL),
		newDashboardCmd(&apiURL),
		newProfileCmd(&apiURL),
		newThemeCmd(&apiURL),
		newVersionCmd(),
	)
	return root
}

func newTUICmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withEnv(apiURL, runTUI)
		},
	}
}

// runTUI starts the full-screen app. The log goes to a file because the
// alt screen owns the terminal.
func runTUI(e *env) error {
	if err := os.MkdirAll(filepath.Dir(e.cfg.LogFile), 0o700); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := tea.LogToFile(e.cfg.LogFile, "saasdash")
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close() //nolint:errcheck

	p := tea.NewProgram(tui.NewApp(e.deps()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "saasdash "+version)
			return nil
		},
	}
}
