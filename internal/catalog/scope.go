package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchesScope reports whether a command with the given scope patterns is
// active for the current working directory. An empty pattern list matches
// everywhere. Literal scopes ("laravel", "composer" and their prefixed
// variants) match when the corresponding project root is detected; all other
// patterns are globs matched against the cwd and detected project paths.
func MatchesScope(patterns []string, cwd string) (bool, error) {
	if len(patterns) == 0 {
		return true, nil
	}

	laravelRoot := DetectLaravelRoot(cwd)
	composerRoot := DetectComposerRoot(cwd)
	candidates := scopeCandidates(cwd, laravelRoot, composerRoot)

	for _, pattern := range patterns {
		if matchesLiteralScope(pattern, laravelRoot, composerRoot) {
			return true, nil
		}

		for _, candidate := range candidates {
			ok, err := doublestar.Match(pattern, filepath.ToSlash(candidate))
			if err != nil {
				return false, fmt.Errorf("invalid scope pattern %q: %w", pattern, err)
			}
			if ok {
				return true, nil
			}
		}
	}

	return false, nil
}

func matchesLiteralScope(pattern, laravelRoot, composerRoot string) bool {
	switch strings.ToLower(strings.TrimSpace(pattern)) {
	case "laravel", "project:laravel", "framework:laravel":
		return laravelRoot != ""
	case "composer", "project:composer", "tool:composer":
		return composerRoot != ""
	}
	return false
}

func scopeCandidates(cwd, laravelRoot, composerRoot string) []string {
	candidates := []string{cwd}
	if laravelRoot != "" {
		candidates = append(candidates,
			laravelRoot,
			filepath.Join(laravelRoot, "app"),
			filepath.Join(laravelRoot, "app", "__scope_marker__"),
			filepath.Join(laravelRoot, "artisan"),
		)
	}
	if composerRoot != "" {
		candidates = append(candidates,
			composerRoot,
			filepath.Join(composerRoot, "composer.json"),
		)
	}
	return candidates
}

// DetectLaravelRoot walks from start towards the filesystem root looking for
// a directory containing an artisan script. Returns "" when none is found.
func DetectLaravelRoot(start string) string {
	return findAncestorWithFile(start, "artisan")
}

// DetectComposerRoot walks from start towards the filesystem root looking for
// a directory containing composer.json. Returns "" when none is found.
func DetectComposerRoot(start string) string {
	return findAncestorWithFile(start, "composer.json")
}

func findAncestorWithFile(start, name string) string {
	dir := start
	for {
		info, err := os.Stat(filepath.Join(dir, name))
		if err == nil && !info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
