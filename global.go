package discovery

import (
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/Sriram-PR/go-discovery/internal/errors"
)

// GlobalIgnorePath resolves the user's global ignore file, in order:
//
//  1. git config --global core.excludesFile (if git is available)
//  2. $XDG_CONFIG_HOME/git/ignore (if XDG_CONFIG_HOME is set)
//  3. ~/.config/git/ignore
//
// The returned file may not exist.
func GlobalIgnorePath() (string, error) {
	path, err := gitConfigExcludesFile()
	if err != nil {
		return "", err
	}
	if path != "" {
		return path, nil
	}

	return xdgGlobalIgnorePath()
}

// LoadGlobalIgnore parses the global ignore file with the given size limit.
// A missing file yields no rules and no error.
func LoadGlobalIgnore(maxSize int64) ([]IgnoreRule, []ParseWarning, string, error) {
	path, err := GlobalIgnorePath()
	if err != nil {
		return nil, nil, "", err
	}

	rules, warnings, err := ParseIgnoreFile(path, maxSize)
	if err != nil {
		return nil, nil, path, err
	}
	return rules, warnings, path, nil
}

// gitConfigExcludesFile reads core.excludesFile from the global git config.
// Returns "" if git is missing or the key is unset.
func gitConfigExcludesFile() (string, error) {
	out, err := exec.Command("git", "config", "--global", "core.excludesFile").Output()
	if err != nil {
		return "", nil
	}

	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", nil
	}

	return expandTilde(path)
}

// xdgGlobalIgnorePath returns $XDG_CONFIG_HOME/git/ignore, or
// ~/.config/git/ignore when XDG_CONFIG_HOME is unset.
func xdgGlobalIgnorePath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git", "ignore"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, ".config", "git", "ignore"), nil
}

// expandTilde expands ~ and ~user prefixes in a path.
func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	userPart, rest := path, ""
	if i := strings.IndexByte(path, '/'); i >= 0 {
		userPart, rest = path[:i], path[i:]
	}

	if userPart == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Errorf("expanding ~: %w", err)
		}
		return home + rest, nil
	}

	u, err := user.Lookup(userPart[1:])
	if err != nil {
		return "", errors.Errorf("expanding %s: %w", userPart, err)
	}
	return u.HomeDir + rest, nil
}
