// Package autostart registers the application to launch at login, using
// XDG autostart entries on Linux, launchd agents on macOS and the
// CurrentVersion Run key on Windows.
package autostart

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const (
	appName = "arxiv-news"
	runKey  = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`
)

// Test seams.
var (
	osIdent       = runtime.GOOS
	userConfigDir = os.UserConfigDir
	userHomeDir   = os.UserHomeDir
	executable    = os.Executable
	runCommand    = func(name string, args ...string) error {
		return exec.Command(name, args...).Run()
	}
)

// entryPath returns the platform autostart entry location.
func entryPath() (string, error) {
	switch osIdent {
	case "linux":
		dir, err := userConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate config directory: %w", err)
		}
		return filepath.Join(dir, "autostart", appName+".desktop"), nil
	case "darwin":
		home, err := userHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate home directory: %w", err)
		}
		return filepath.Join(home, "Library", "LaunchAgents", "org.arxiv-news.agent.plist"), nil
	default:
		return "", fmt.Errorf("autostart not supported on %s", osIdent)
	}
}

// entryContent renders the autostart entry for the current platform.
func entryContent(execPath string) string {
	if osIdent == "darwin" {
		return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>org.arxiv-news.agent</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`, execPath)
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=arXiv News
Exec=%s
X-GNOME-Autostart-enabled=true
`, execPath)
}

// Register creates the login entry pointing at the current executable.
func Register() error {
	if osIdent == "windows" {
		execPath, err := executable()
		if err != nil {
			return fmt.Errorf("failed to resolve executable path: %w", err)
		}
		if err := runCommand("reg", "add", runKey, "/v", appName, "/t", "REG_SZ", "/d", execPath, "/f"); err != nil {
			return fmt.Errorf("failed to write run key: %w", err)
		}
		return nil
	}
	path, err := entryPath()
	if err != nil {
		return err
	}
	execPath, err := executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(entryContent(execPath)), 0o644); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}
	return nil
}

// Unregister removes the login entry. Removing an absent entry is a no-op.
func Unregister() error {
	if osIdent == "windows" {
		registered, err := IsRegistered()
		if err != nil {
			return err
		}
		if !registered {
			return nil
		}
		if err := runCommand("reg", "delete", runKey, "/v", appName, "/f"); err != nil {
			return fmt.Errorf("failed to remove run key: %w", err)
		}
		return nil
	}
	path, err := entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove autostart entry: %w", err)
	}
	return nil
}

// IsRegistered reports whether a login entry exists.
func IsRegistered() (bool, error) {
	if osIdent == "windows" {
		// reg query exits non-zero when the value is absent.
		return runCommand("reg", "query", runKey, "/v", appName) == nil, nil
	}
	path, err := entryPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
