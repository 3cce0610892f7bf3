// Package provider discovers runnable commands from external tools: Laravel
// artisan, composer, and justfiles. Providers are best-effort; when the tool
// is missing or its project marker is absent, they contribute no entries
// rather than failing the launcher.
package provider

import (
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/cristianoliveira/quickfire/internal/catalog"
	"github.com/cristianoliveira/quickfire/internal/config"
	"github.com/cristianoliveira/quickfire/internal/logging"
)

// Load collects catalog entries from every enabled provider, relative to the
// working directory.
func Load(providers config.ProvidersConfig, cwd string) []catalog.Entry {
	var entries []catalog.Entry

	if providers.Artisan.Enabled {
		entries = append(entries, loadArtisan(cwd)...)
	}
	if providers.Composer.Enabled {
		entries = append(entries, loadComposer(cwd)...)
	}
	if providers.Justfile.Enabled {
		entries = append(entries, loadJustfile(cwd, providers.Justfile)...)
	}

	logging.Debug("provider scan complete", "entries", len(entries))
	return entries
}

// resolvePath expands a ~ shorthand and resolves relative paths by walking
// from cwd towards the filesystem root. Returns "" when no file is found.
func resolvePath(cwd, rawPath string) string {
	candidate, err := homedir.Expand(rawPath)
	if err != nil {
		logging.Warn("cannot expand provider path", "path", rawPath, "error", err)
		return ""
	}

	if filepath.IsAbs(candidate) {
		if isFile(candidate) {
			return candidate
		}
		return ""
	}

	dir := cwd
	for {
		joined := filepath.Join(dir, candidate)
		if isFile(joined) {
			return joined
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// shellEscapeArg quotes an argument for inclusion in a `sh -c` command line,
// leaving plain tokens untouched.
func shellEscapeArg(input string) string {
	if isShellSafeArg(input) {
		return input
	}
	return "'" + strings.ReplaceAll(input, "'", `'\''`) + "'"
}

func isShellSafeArg(input string) bool {
	if input == "" {
		return false
	}
	for _, ch := range input {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '_' || ch == '-' || ch == '.' || ch == '/' || ch == ':' ||
			ch == '=' || ch == '+' || ch == '@' || ch == '%':
		default:
			return false
		}
	}
	return true
}
