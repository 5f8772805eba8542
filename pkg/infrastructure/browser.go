package infrastructure

import (
	"fmt"
	"os/exec"

	"github.com/go-rod/rod/lib/launcher"
)

// ResolveBrowser downloads a compatible Chromium binary if one is not
// already cached and returns the path to the executable.
func ResolveBrowser() (string, error) {
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("chrome: downloading browser: %w", err)
	}
	return path, nil
}

// LookupChrome returns the first Chrome or Chromium binary on PATH.
func LookupChrome() (string, bool) {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p, true
		}
	}
	return "", false
}
