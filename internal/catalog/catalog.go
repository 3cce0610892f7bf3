// Package catalog defines the set of runnable command entries available to
// search, along with their parameter specifications and template rendering.
package catalog

import (
	"path/filepath"
	"sort"
	"strings"
)

// SourceConfig is the provider name used for entries loaded from the
// configuration file.
const SourceConfig = "config"

// ParamKind distinguishes free-text parameters from yes/no flags.
type ParamKind int

const (
	// ParamValue is a free-text parameter substituted verbatim.
	ParamValue ParamKind = iota
	// ParamFlag is a yes/no parameter rendered as a flag token when enabled.
	ParamFlag
)

// ParamSpec describes a single parameter of a command template.
type ParamSpec struct {
	Name        string
	Kind        ParamKind
	Prompt      string
	Placeholder string

	// DefaultValue/HardValue apply to value parameters; DefaultFlag/HardFlag
	// apply to flag parameters. The Has* fields track whether the config
	// declared them at all.
	DefaultValue    string
	HasDefaultValue bool
	HardValue       string
	HasHardValue    bool
	DefaultFlag     bool
	HasDefaultFlag  bool
	HardFlag        bool
	HasHardFlag     bool

	Required bool
	// PromptInTUI is set when the config declared an explicit prompt text,
	// forcing an interactive prompt even when a default exists.
	PromptInTUI bool
}

// RequiresInput reports whether the parameter needs an interactive prompt.
// Hardcoded values never prompt; flags prompt unless hardcoded.
func (p ParamSpec) RequiresInput() bool {
	switch p.Kind {
	case ParamFlag:
		return !p.HasHardFlag
	default:
		return !p.HasHardValue && (p.PromptInTUI || p.Required || !p.HasDefaultValue)
	}
}

// FlagToken returns the command-line token rendered when a flag parameter is
// enabled. Names already starting with a dash are used verbatim.
func (p ParamSpec) FlagToken() string {
	if strings.HasPrefix(p.Name, "-") {
		return p.Name
	}
	return "--" + p.Name
}

// Entry is a single runnable command. Entries are immutable; a reload
// replaces the whole catalog rather than mutating entries in place.
type Entry struct {
	Name        string
	Description string
	Template    string
	Params      []ParamSpec
	// Provider is the source tag: SourceConfig or a provider name such as
	// "artisan", "composer" or "justfile".
	Provider   string
	WorkingDir string
}

// UsageKey returns the identifier used to track invocation counts for the
// entry, in the form "{provider}::{name}".
func (e Entry) UsageKey() string {
	return e.Provider + "::" + e.Name
}

// RenderTemplate substitutes collected parameter values into a command
// template. Every occurrence of a {{name}} placeholder is replaced literally.
func RenderTemplate(template string, values map[string]string) string {
	out := template
	for name, value := range values {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}
	return out
}

// HasUnresolvedPlaceholders reports whether a rendered command line still
// contains {{...}} placeholders that no value was collected for.
func HasUnresolvedPlaceholders(rendered string) bool {
	open := strings.Index(rendered, "{{")
	if open < 0 {
		return false
	}
	return strings.Contains(rendered[open:], "}}")
}

// SortEntries orders entries by lowercase name, the canonical catalog order.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// ResolveWorkingDir resolves a configured working directory against the
// current working directory when it is relative.
func ResolveWorkingDir(raw, cwd string) string {
	if raw == "" {
		return ""
	}
	if filepath.IsAbs(raw) {
		return raw
	}
	return filepath.Join(cwd, raw)
}
