package provider

import (
	"encoding/json"
	"os/exec"
	"sort"
	"strings"

	"github.com/cristianoliveira/quickfire/internal/catalog"
	"github.com/cristianoliveira/quickfire/internal/logging"
)

// loadArtisan lists Laravel artisan commands for the enclosing project.
// Returns nothing outside a Laravel project or when php is unavailable.
func loadArtisan(cwd string) []catalog.Entry {
	root := catalog.DetectLaravelRoot(cwd)
	if root == "" {
		return nil
	}

	names := parseArtisanCommands(artisanListRaw(root))
	descriptions := artisanDescriptions(root)

	entries := make([]catalog.Entry, 0, len(names))
	for _, name := range names {
		description := strings.TrimSpace(descriptions[name])
		if description == "" {
			description = "Laravel artisan command"
		}
		entries = append(entries, catalog.Entry{
			Name:        "artisan " + name,
			Description: description,
			Template:    "php artisan " + name + " --ansi",
			Provider:    "artisan",
			WorkingDir:  root,
		})
	}
	return entries
}

func artisanListRaw(root string) string {
	cmd := exec.Command("php", "artisan", "list", "--raw", "--no-ansi")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		logging.Debug("artisan list failed", "root", root, "error", err)
		return ""
	}
	return string(out)
}

func artisanDescriptions(root string) map[string]string {
	cmd := exec.Command("php", "artisan", "list", "--format=json", "--no-ansi")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		logging.Debug("artisan json list failed", "root", root, "error", err)
		return nil
	}
	return parseArtisanDescriptionsJSON(out)
}

// parseArtisanCommands extracts command names from `artisan list --raw`
// output, skipping blanks and hidden (underscore-prefixed) commands. The
// result is sorted and deduplicated.
func parseArtisanCommands(raw string) []string {
	seen := make(map[string]struct{})
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "_") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		if strings.HasPrefix(name, "_") {
			continue
		}
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseArtisanDescriptionsJSON reads `artisan list --format=json` output.
// Older Laravel versions emit commands as an object keyed by name, newer ones
// as an array; both shapes are accepted.
func parseArtisanDescriptionsJSON(raw []byte) map[string]string {
	descriptions := make(map[string]string)

	var asArray struct {
		Commands []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"commands"`
	}
	if err := json.Unmarshal(raw, &asArray); err == nil && len(asArray.Commands) > 0 {
		for _, cmd := range asArray.Commands {
			if cmd.Name != "" {
				descriptions[cmd.Name] = cmd.Description
			}
		}
		return descriptions
	}

	var asObject struct {
		Commands map[string]struct {
			Description string `json:"description"`
		} `json:"commands"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil {
		for name, cmd := range asObject.Commands {
			descriptions[name] = cmd.Description
		}
	}
	return descriptions
}
