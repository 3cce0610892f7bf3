package provider

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cristianoliveira/quickfire/internal/catalog"
)

// basicComposerCommands are always offered inside a composer project.
var basicComposerCommands = []struct {
	name        string
	description string
}{
	{"install", "Install project dependencies"},
	{"update", "Update dependencies"},
	{"dump-autoload", "Regenerate autoloader files"},
	{"validate", "Validate composer.json and composer.lock"},
	{"show", "List installed packages"},
	{"outdated", "Show outdated dependencies"},
	{"audit", "Run security audit on dependencies"},
}

// loadComposer offers the common composer subcommands plus the project's own
// scripts. Returns nothing outside a composer project.
func loadComposer(cwd string) []catalog.Entry {
	root := catalog.DetectComposerRoot(cwd)
	if root == "" {
		return nil
	}

	var entries []catalog.Entry
	for _, basic := range basicComposerCommands {
		entries = append(entries, catalog.Entry{
			Name:        "composer " + basic.name,
			Description: basic.description,
			Template:    "composer " + basic.name,
			Provider:    "composer",
			WorkingDir:  root,
		})
	}

	for _, script := range composerScripts(root) {
		entries = append(entries, catalog.Entry{
			Name:        "composer script:" + script,
			Description: "composer script",
			Template:    "composer run-script " + script,
			Provider:    "composer",
			WorkingDir:  root,
		})
	}

	return entries
}

func composerScripts(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "composer.json"))
	if err != nil {
		return nil
	}
	return parseComposerScriptsJSON(data)
}

// parseComposerScriptsJSON lists script names from composer.json, skipping
// underscore-prefixed (private) entries. The result is sorted.
func parseComposerScriptsJSON(raw []byte) []string {
	var manifest struct {
		Scripts map[string]json.RawMessage `json:"scripts"`
	}
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil
	}

	scripts := make([]string, 0, len(manifest.Scripts))
	for key := range manifest.Scripts {
		name := strings.TrimSpace(key)
		if name == "" || strings.HasPrefix(name, "_") {
			continue
		}
		scripts = append(scripts, name)
	}
	sort.Strings(scripts)
	return scripts
}
