package provider

import (
	"os/exec"
	"sort"
	"strings"

	"github.com/google/shlex"

	"github.com/cristianoliveira/quickfire/internal/catalog"
	"github.com/cristianoliveira/quickfire/internal/config"
	"github.com/cristianoliveira/quickfire/internal/logging"
)

// loadJustfile lists recipes from the configured justfile. Returns nothing
// when the justfile cannot be found or just is unavailable.
func loadJustfile(cwd string, cfg config.ProviderConfig) []catalog.Entry {
	justfilePath := resolvePath(cwd, cfg.Path)
	if justfilePath == "" {
		return nil
	}

	options := tokenizeOptions(cfg.Options)
	recipes := parseJustRecipes(justListSummaryRaw(justfilePath, cwd, options))

	entries := make([]catalog.Entry, 0, len(recipes))
	for _, recipe := range recipes {
		entries = append(entries, catalog.Entry{
			Name:        "just " + recipe,
			Description: "just recipe",
			Template:    buildJustTemplate(justfilePath, options, recipe),
			Provider:    "justfile",
			WorkingDir:  cwd,
		})
	}
	return entries
}

func justListSummaryRaw(justfilePath, cwd string, options []string) string {
	args := append(append([]string{}, options...), "--summary", "--justfile", justfilePath)
	cmd := exec.Command("just", args...)
	cmd.Dir = cwd
	out, err := cmd.Output()
	if err != nil {
		logging.Debug("just summary failed", "justfile", justfilePath, "error", err)
		return ""
	}
	return string(out)
}

// tokenizeOptions splits each configured option string into shell words, so
// `options = "--working-directory ."` yields two arguments.
func tokenizeOptions(rawOptions []string) []string {
	var tokens []string
	for _, option := range rawOptions {
		words, err := shlex.Split(option)
		if err != nil {
			tokens = append(tokens, strings.Fields(option)...)
			continue
		}
		tokens = append(tokens, words...)
	}
	return tokens
}

// parseJustRecipes extracts recipe names from `just --summary` output.
// The summary is normally a single whitespace-separated line, but headers and
// `--` comment suffixes from list-style output are tolerated. Hidden
// (underscore-prefixed) recipes are skipped. The result is sorted.
func parseJustRecipes(raw string) []string {
	seen := make(map[string]struct{})

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(strings.ToLower(line), "available recipes") {
			continue
		}

		for _, token := range strings.Fields(line) {
			if token == "--" {
				break
			}

			name := strings.Trim(token, ",:")
			if name == "" || strings.HasPrefix(name, "_") {
				continue
			}
			if strings.EqualFold(name, "available") || strings.EqualFold(name, "recipes") {
				continue
			}
			if !isRecipeName(name) {
				continue
			}
			seen[name] = struct{}{}
		}
	}

	recipes := make([]string, 0, len(seen))
	for name := range seen {
		recipes = append(recipes, name)
	}
	sort.Strings(recipes)
	return recipes
}

func isRecipeName(name string) bool {
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-' || ch == '_' || ch == ':':
		default:
			return false
		}
	}
	return true
}

// buildJustTemplate renders the shell command used to run a recipe, keeping
// the configured options and the resolved justfile path.
func buildJustTemplate(justfilePath string, options []string, recipe string) string {
	pieces := []string{"just"}
	for _, option := range options {
		pieces = append(pieces, shellEscapeArg(option))
	}
	pieces = append(pieces, "--justfile", shellEscapeArg(justfilePath), shellEscapeArg(recipe))
	return strings.Join(pieces, " ")
}
