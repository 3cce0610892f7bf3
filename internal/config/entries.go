package config

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/quickfire/internal/catalog"
)

// CatalogEntries converts the configured [[commands]] blocks into catalog
// entries, applying scope filtering against the working directory.
func CatalogEntries(cfg Config, cwd string) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	for _, command := range cfg.Commands {
		ok, err := catalog.MatchesScope(command.Scopes, cwd)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		entry := catalog.Entry{
			Name:        command.Name,
			Description: command.Description,
			Template:    command.Template(),
			Provider:    catalog.SourceConfig,
			WorkingDir:  catalog.ResolveWorkingDir(command.WorkingDir, cwd),
		}
		for _, param := range command.Params {
			spec, err := paramSpec(command.Name, param)
			if err != nil {
				return nil, err
			}
			entry.Params = append(entry.Params, spec)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func paramSpec(commandName string, param ParamConfig) (catalog.ParamSpec, error) {
	spec := catalog.ParamSpec{
		Name:        param.Name,
		Prompt:      param.Prompt,
		Placeholder: param.Placeholder,
		Required:    param.Required,
		PromptInTUI: param.Prompt != "",
	}

	switch strings.ToLower(param.Type) {
	case "", "value":
		spec.Kind = catalog.ParamValue
	case "flag":
		spec.Kind = catalog.ParamFlag
	default:
		return catalog.ParamSpec{}, fmt.Errorf("command %q: param %q has unknown type %q", commandName, param.Name, param.Type)
	}

	if spec.Kind == catalog.ParamFlag {
		if b, ok := literalBool(param.Default); ok {
			spec.DefaultFlag = b
			spec.HasDefaultFlag = true
		}
		if b, ok := literalBool(param.Value); ok {
			spec.HardFlag = b
			spec.HasHardFlag = true
		}
	} else {
		if s, ok := literalString(param.Default); ok {
			spec.DefaultValue = s
			spec.HasDefaultValue = true
		}
		if s, ok := literalString(param.Value); ok {
			spec.HardValue = s
			spec.HasHardValue = true
		}
	}

	if spec.Prompt == "" {
		spec.Prompt = defaultPrompt(spec)
	}

	return spec, nil
}

func defaultPrompt(spec catalog.ParamSpec) string {
	if spec.Kind == catalog.ParamFlag {
		return fmt.Sprintf("Enable %s?", spec.FlagToken())
	}
	return spec.Name + ":"
}

// literalString converts a string-or-bool TOML literal to its string form.
func literalString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return fmt.Sprintf("%t", v), true
	}
	return "", false
}

// literalBool converts a string-or-bool TOML literal to a boolean, parsing
// the usual truthy/falsy vocabulary for strings.
func literalBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "t", "1", "yes", "y", "on":
			return true, true
		case "false", "f", "0", "no", "n", "off":
			return false, true
		}
	}
	return false, false
}
