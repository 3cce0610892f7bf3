package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const exampleConfig = `# quickfire config
#
# Use {{param}} placeholders inside command ` + "`run`" + ` templates.
# Parameter types:
# - value (default): free text
# - flag: y/n prompt, renders --name when enabled

[ranking]
usage_enabled = true
usage_weight = 8000

# Load commands from this file (` + "`[[commands]]`" + ` blocks)
[providers.config]
enabled = true
alias = "cf"

# Auto-load Laravel artisan commands when inside a Laravel project.
[providers.artisan]
enabled = false
alias = "a"

# Auto-load composer commands and scripts when composer.json is present.
[providers.composer]
enabled = false
alias = "co"

# Auto-load just recipes from a justfile.
[providers.justfile]
enabled = false
path = "justfile"
options = "--working-directory ."
alias = "j"

# Add your own commands below using ` + "`[[commands]]`" + `.
# Example:
#
# [[commands]]
# name = "Run tests"
# run = "php artisan test --filter={{filter}} {{no-coverage}}"
# description = "Example command"
# scopes = ["laravel"] # optional
#
# [[commands.params]]
# name = "filter"
# prompt = "Test filter"
# required = true
#
# [[commands.params]]
# name = "no-coverage"
# type = "flag"
# default = false
`

// WriteExampleConfig writes a commented starter configuration to path. It
// refuses to overwrite an existing file unless force is set.
func WriteExampleConfig(path string, force bool) error {
	if fileExists(path) && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", path)
	}

	if parent := filepath.Dir(path); parent != "" {
		if err := os.MkdirAll(parent, FileModeDir); err != nil {
			return fmt.Errorf("failed to create %s: %w", parent, err)
		}
	}

	if err := os.WriteFile(path, []byte(exampleConfig), FileModeFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
