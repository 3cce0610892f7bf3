package state

import (
	"strings"

	"github.com/cristianoliveira/quickfire/internal/match"
)

// InternalKind enumerates the built-in slash commands.
type InternalKind int

const (
	InternalInit InternalKind = iota
	InternalReload
)

// InternalDef describes one slash command offered in the list.
type InternalDef struct {
	Name         string
	Description  string
	Kind         InternalKind
	DefaultForce bool
}

func internalCommandDefs() []InternalDef {
	return []InternalDef{
		{Name: "/init", Description: "Create default config file", Kind: InternalInit},
		{Name: "/reload", Description: "Reload config and providers", Kind: InternalReload},
	}
}

// InternalCommand is a parsed slash command invocation.
type InternalCommand interface {
	isInternalCommand()
}

// ReloadCommand re-reads configuration and providers.
type ReloadCommand struct{}

// InitCommand writes the example config file.
type InitCommand struct {
	Force bool
}

// UnknownCommand is an unrecognized slash command name.
type UnknownCommand struct {
	Name string
}

func (ReloadCommand) isInternalCommand()  {}
func (InitCommand) isInternalCommand()    {}
func (UnknownCommand) isInternalCommand() {}

// parseInternalCommand interprets a query that starts with "/". Returns nil
// for queries that are not slash commands at all.
func parseInternalCommand(query string) InternalCommand {
	trimmed := strings.TrimSpace(query)
	if !strings.HasPrefix(trimmed, "/") {
		return nil
	}

	parts := strings.Fields(trimmed[1:])
	if len(parts) == 0 {
		return UnknownCommand{}
	}

	name := strings.ToLower(parts[0])
	switch name {
	case "reload":
		return ReloadCommand{}
	case "init":
		force := false
		for _, part := range parts[1:] {
			if part == "--force" || part == "-f" {
				force = true
			}
		}
		return InitCommand{Force: force}
	default:
		return UnknownCommand{Name: name}
	}
}

func queryHasForceFlag(query string) bool {
	for _, part := range strings.Fields(query) {
		if part == "--force" || part == "-f" {
			return true
		}
	}
	return false
}

// parseFlagInput interprets a yes/no answer. Empty input picks the default;
// unrecognized input is rejected so the prompt can re-ask.
func parseFlagInput(input string, defaultValue bool) (bool, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return defaultValue, true
	}

	switch strings.ToLower(trimmed) {
	case "y", "yes", "true", "1", "on":
		return true, true
	case "n", "no", "false", "0", "off":
		return false, true
	}
	return false, false
}

// suggestInternal proposes the closest internal command for a typo.
func suggestInternal(name string, defs []InternalDef) string {
	candidates := make([]string, 0, len(defs))
	for _, def := range defs {
		candidates = append(candidates, strings.TrimPrefix(def.Name, "/"))
	}
	return match.Suggest(name, candidates)
}
