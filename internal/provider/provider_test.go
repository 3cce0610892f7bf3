package provider

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArtisanCommands(t *testing.T) {
	input := "about\nlist\n_foo\ncache:clear [store] [--tags[=TAGS]]\n\nmigrate:fresh {--seed}\n"

	commands := parseArtisanCommands(input)
	assert.Equal(t, []string{"about", "cache:clear", "list", "migrate:fresh"}, commands)
}

func TestParseArtisanDescriptionsArrayShape(t *testing.T) {
	input := `{
  "commands": [
    { "name": "about", "description": "Display basic information about your application" },
    { "name": "cache:clear", "description": "Flush the application cache" }
  ]
}`

	descriptions := parseArtisanDescriptionsJSON([]byte(input))
	assert.Equal(t, "Flush the application cache", descriptions["cache:clear"])
}

func TestParseArtisanDescriptionsObjectShape(t *testing.T) {
	input := `{
  "commands": {
    "about": { "description": "Display basic information" }
  }
}`

	descriptions := parseArtisanDescriptionsJSON([]byte(input))
	assert.Equal(t, "Display basic information", descriptions["about"])
}

func TestParseJustRecipes(t *testing.T) {
	input := "build check\n_ignored\nAvailable recipes:\nlint -- some description\nmodx::task\n"

	recipes := parseJustRecipes(input)
	assert.Equal(t, []string{"build", "check", "lint", "modx::task"}, recipes)
}

func TestResolvePathWalksAncestors(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0755))
	justfile := filepath.Join(root, "justfile")
	require.NoError(t, os.WriteFile(justfile, []byte("default:\n\techo hi\n"), 0644))

	assert.Equal(t, justfile, resolvePath(nested, "justfile"))
	assert.Equal(t, "", resolvePath(nested, "missingfile"))
}

func TestResolvePathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	target := filepath.Join(home, "tools", "justfile")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, os.WriteFile(target, []byte(""), 0644))

	assert.Equal(t, target, resolvePath(t.TempDir(), "~/tools/justfile"))
}

func TestTokenizeOptions(t *testing.T) {
	tokens := tokenizeOptions([]string{"--working-directory .", "--unstable"})
	assert.Equal(t, []string{"--working-directory", ".", "--unstable"}, tokens)
}

func TestTokenizeOptionsRespectsQuotes(t *testing.T) {
	tokens := tokenizeOptions([]string{`--set msg "hello world"`})
	assert.Equal(t, []string{"--set", "msg", "hello world"}, tokens)
}

func TestBuildJustTemplate(t *testing.T) {
	template := buildJustTemplate("/tmp/justfile", []string{"--working-directory", "."}, "build")

	assert.True(t, strings.HasPrefix(template, "just --working-directory ."))
	assert.Contains(t, template, "--justfile")
	assert.True(t, strings.HasSuffix(template, " build"))
}

func TestShellEscapeArg(t *testing.T) {
	assert.Equal(t, "--working-directory", shellEscapeArg("--working-directory"))
	assert.Equal(t, ".", shellEscapeArg("."))
	assert.Equal(t, "modx::task", shellEscapeArg("modx::task"))
	assert.Equal(t, "'path with space'", shellEscapeArg("path with space"))
	assert.Equal(t, `'it'\''s'`, shellEscapeArg("it's"))
}

func TestParseComposerScripts(t *testing.T) {
	raw := `{
  "scripts": {
    "test": "phpunit",
    "qa": ["phpstan", "phpunit"],
    "_private": "echo hidden"
  }
}`

	scripts := parseComposerScriptsJSON([]byte(raw))
	assert.Equal(t, []string{"qa", "test"}, scripts)
}

func TestLoadComposerBasicAndScriptCommands(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "deep", "nested")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "composer.json"),
		[]byte(`{"scripts":{"test":"phpunit","qa":"phpstan"}}`),
		0644,
	))

	entries := loadComposer(nested)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
		assert.Equal(t, root, entry.WorkingDir)
		assert.Equal(t, "composer", entry.Provider)
	}
	assert.Contains(t, names, "composer install")
	assert.Contains(t, names, "composer script:test")
	assert.Contains(t, names, "composer script:qa")
}

func TestLoadComposerOutsideProject(t *testing.T) {
	assert.Empty(t, loadComposer(t.TempDir()))
}
