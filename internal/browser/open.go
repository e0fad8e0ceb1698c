package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Open opens an http(s) URL in the user's default browser.
func Open(rawURL string) error {
	if err := Validate(rawURL); err != nil {
		return err
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "linux":
		return exec.Command("xdg-open", rawURL).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}

// Validate rejects anything that is not an absolute http(s) URL, so a value
// from the API can never make the opener run a local file.
func Validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("browser: parse %q: %w", rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("browser: refusing to open %q", rawURL)
	}
	return nil
}
