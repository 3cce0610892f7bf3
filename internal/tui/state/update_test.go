package state

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/quickfire/internal/catalog"
	"github.com/cristianoliveira/quickfire/internal/shell"
)

// runningStub marks the model as executing without spawning a process.
var runningStub shell.Runner

func runResult(exitCode int, interrupted bool) shell.Result {
	return shell.Result{ExitCode: exitCode, Interrupted: interrupted}
}

func pressKey(m *Model, key tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(key)
	return cmd
}

func press(m *Model, keyType tea.KeyType) tea.Cmd {
	return pressKey(m, tea.KeyMsg{Type: keyType})
}

func typeText(m *Model, text string) {
	for _, r := range text {
		pressKey(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func lastLine(m *Model) string {
	if len(m.Session) == 0 {
		return ""
	}
	return m.Session[len(m.Session)-1].Text
}

func TestTypingFiltersCommands(t *testing.T) {
	m := newTestModel(t, testEntries())
	typeText(m, "cache")

	require.Len(t, m.Filtered, 1)
	assert.Equal(t, "cache clear", m.Entries[m.Filtered[0].Index].Name)
}

func TestEscClearsQueryBeforeQuitting(t *testing.T) {
	m := newTestModel(t, testEntries())
	typeText(m, "cache")

	cmd := press(m, tea.KeyEsc)
	assert.Nil(t, cmd)
	assert.Empty(t, m.Input.Value())
	assert.Len(t, m.Filtered, 3)

	cmd = press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTabTogglesActivePane(t *testing.T) {
	m := newTestModel(t, testEntries())
	assert.Equal(t, PaneCommands, m.ActivePane)

	press(m, tea.KeyTab)
	assert.Equal(t, PaneSession, m.ActivePane)

	press(m, tea.KeyTab)
	assert.Equal(t, PaneCommands, m.ActivePane)
}

func TestTypingReturnsFocusToCommands(t *testing.T) {
	m := newTestModel(t, testEntries())
	press(m, tea.KeyTab)
	require.Equal(t, PaneSession, m.ActivePane)

	typeText(m, "c")
	assert.Equal(t, PaneCommands, m.ActivePane)
}

func TestHelpOverlayToggles(t *testing.T) {
	m := newTestModel(t, testEntries())

	typeText(m, "?")
	assert.True(t, m.ShowHelp)

	typeText(m, "?")
	assert.False(t, m.ShowHelp)

	typeText(m, "?")
	press(m, tea.KeyEsc)
	assert.False(t, m.ShowHelp)
	assert.Empty(t, m.Input.Value())
}

func TestHelpOverlayReprocessesOtherKeys(t *testing.T) {
	m := newTestModel(t, testEntries())
	typeText(m, "?")
	require.True(t, m.ShowHelp)

	typeText(m, "c")
	assert.False(t, m.ShowHelp)
	assert.Equal(t, "c", m.Input.Value())
}

func TestAltEnterQueuesInheritedExec(t *testing.T) {
	m := newTestModel(t, testEntries())
	typeText(m, "composer install")

	cmd := pressKey(m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	require.NotNil(t, m.PendingExec)
	assert.Equal(t, "composer install", m.PendingExec.CommandLine)
	assert.Equal(t, "composer::composer install", m.PendingExec.UsageKey)
}

func TestUnresolvedPlaceholderRefusesRun(t *testing.T) {
	entries := []catalog.Entry{
		{Name: "broken", Provider: "config", Template: "run {{missing}}"},
	}
	m := newTestModel(t, entries)

	cmd := pressKey(m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	assert.Nil(t, cmd)
	assert.Nil(t, m.PendingExec)
	assert.Equal(t, "Command 'broken' still has unresolved placeholders", lastLine(m))
}

func TestParamPromptCollectsValueAndFlag(t *testing.T) {
	entries := []catalog.Entry{
		{
			Name: "deploy", Provider: "config",
			Template: "deploy.sh {{env}} {{verbose}}",
			Params: []catalog.ParamSpec{
				{Name: "env", Kind: catalog.ParamValue, Prompt: "env:", Required: true},
				{Name: "verbose", Kind: catalog.ParamFlag, Prompt: "Enable --verbose?"},
			},
		},
	}
	m := newTestModel(t, entries)

	cmd := pressKey(m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	assert.Nil(t, cmd)
	prompt, ok := m.Mode.(ParamPromptMode)
	require.True(t, ok)
	assert.Len(t, prompt.Pending, 2)

	typeText(m, "prod")
	cmd = press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	prompt = m.Mode.(ParamPromptMode)
	assert.Equal(t, 1, prompt.Current)

	// A flag prompt resolves on a single keystroke.
	cmd = pressKey(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	require.NotNil(t, m.PendingExec)
	assert.Equal(t, "deploy.sh prod --verbose", m.PendingExec.CommandLine)
}

func TestParamPromptRequiredValueReasks(t *testing.T) {
	entries := []catalog.Entry{
		{
			Name: "deploy", Provider: "config", Template: "deploy.sh {{env}}",
			Params: []catalog.ParamSpec{
				{Name: "env", Kind: catalog.ParamValue, Prompt: "env:", Required: true},
			},
		},
	}
	m := newTestModel(t, entries)
	pressKey(m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})

	press(m, tea.KeyEnter)
	_, stillPrompting := m.Mode.(ParamPromptMode)
	assert.True(t, stillPrompting)
	assert.Equal(t, "'env' is required", lastLine(m))
}

func TestParamPromptEmptyInputUsesDefault(t *testing.T) {
	entries := []catalog.Entry{
		{
			Name: "greet", Provider: "config", Template: "echo {{name}} {{loud}}",
			Params: []catalog.ParamSpec{
				{Name: "name", Kind: catalog.ParamValue, Prompt: "name:",
					DefaultValue: "world", HasDefaultValue: true, PromptInTUI: true},
				{Name: "loud", Kind: catalog.ParamFlag, Prompt: "Enable --loud?",
					DefaultFlag: true, HasDefaultFlag: true},
			},
		},
	}
	m := newTestModel(t, entries)
	pressKey(m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})

	press(m, tea.KeyEnter)
	press(m, tea.KeyEnter)

	require.NotNil(t, m.PendingExec)
	assert.Equal(t, "echo world --loud", m.PendingExec.CommandLine)
}

func TestParamPromptDisabledFlagLeavesNoToken(t *testing.T) {
	entries := []catalog.Entry{
		{
			Name: "greet", Provider: "config", Template: "echo hi {{loud}}",
			Params: []catalog.ParamSpec{
				{Name: "loud", Kind: catalog.ParamFlag, Prompt: "Enable --loud?"},
			},
		},
	}
	m := newTestModel(t, entries)
	pressKey(m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})

	typeText(m, "n")
	require.NotNil(t, m.PendingExec)
	assert.Equal(t, "echo hi ", m.PendingExec.CommandLine)
}

func TestParamPromptEscCancels(t *testing.T) {
	entries := []catalog.Entry{
		{
			Name: "deploy", Provider: "config", Template: "deploy.sh {{env}}",
			Params: []catalog.ParamSpec{
				{Name: "env", Kind: catalog.ParamValue, Prompt: "env:", Required: true},
			},
		},
	}
	m := newTestModel(t, entries)
	pressKey(m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})

	press(m, tea.KeyEsc)
	_, searching := m.Mode.(SearchMode)
	assert.True(t, searching)
	assert.Equal(t, "Parameter entry canceled", lastLine(m))
	assert.Nil(t, m.PendingExec)
}

func TestParamPromptRejectsBadFlagAnswer(t *testing.T) {
	entries := []catalog.Entry{
		{
			Name: "greet", Provider: "config", Template: "echo hi {{loud}}",
			Params: []catalog.ParamSpec{
				{Name: "loud", Kind: catalog.ParamFlag, Prompt: "Enable --loud?"},
			},
		},
	}
	m := newTestModel(t, entries)
	pressKey(m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})

	typeText(m, "x")
	press(m, tea.KeyEnter)
	_, stillPrompting := m.Mode.(ParamPromptMode)
	assert.True(t, stillPrompting)
	assert.Equal(t, "Please enter y or n", lastLine(m))
}

func TestInternalInitOpensConfirmation(t *testing.T) {
	m := newTestModel(t, testEntries())
	typeText(m, "/init")

	cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)

	prompt, ok := m.Mode.(InternalPromptMode)
	require.True(t, ok)
	assert.Equal(t, "/init", m.InternalCommands[prompt.CommandIndex].Name)
}

func TestInternalInitWithExplicitForceSkipsConfirmation(t *testing.T) {
	m := newTestModel(t, testEntries())
	typeText(m, "/init --force")

	cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, m.Loading)
	assert.Equal(t, "/init", m.LoadingLabel)
}

func TestInternalPromptEscCancels(t *testing.T) {
	m := newTestModel(t, testEntries())
	typeText(m, "/init")
	press(m, tea.KeyEnter)

	press(m, tea.KeyEsc)
	_, searching := m.Mode.(SearchMode)
	assert.True(t, searching)
	assert.Equal(t, "Internal command canceled", lastLine(m))
}

func TestUnknownInternalSuggestsClosestName(t *testing.T) {
	m := newTestModel(t, testEntries())
	typeText(m, "/reloda")

	press(m, tea.KeyEnter)
	require.GreaterOrEqual(t, len(m.Session), 2)
	assert.Equal(t, "Unknown internal command. Available: /reload, /init",
		m.Session[len(m.Session)-2].Text)
	assert.Equal(t, "Did you mean /reload?", lastLine(m))
}

func TestInternalDoneErrorGoesToSession(t *testing.T) {
	m := newTestModel(t, testEntries())
	m.startLoading("/reload")

	m.Update(internalDoneMsg{err: assert.AnError})
	assert.False(t, m.Loading)
	assert.Equal(t, assert.AnError.Error(), lastLine(m))
	assert.Equal(t, LineStderr, m.Session[len(m.Session)-1].Kind)
}

func TestInternalDoneAppliesReloadedCatalog(t *testing.T) {
	m := newTestModel(t, testEntries())
	m.startLoading("/reload")

	reloaded := CatalogPayload{
		Entries: []catalog.Entry{{Name: "only one", Provider: "config", Template: "true"}},
	}
	m.Update(internalDoneMsg{reloaded: &reloaded})

	assert.False(t, m.Loading)
	assert.Len(t, m.Entries, 1)
	assert.Equal(t, "Reloaded 1 commands", lastLine(m))
}

func TestKeysSwallowedWhileRunning(t *testing.T) {
	m := newTestModel(t, testEntries())
	m.runner = &runningStub
	defer func() { m.runner = nil }()

	typeText(m, "abc")
	assert.Empty(t, m.Input.Value())

	cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Nil(t, m.PendingExec)
}

func TestRunDoneRecordsUsageAndExitCode(t *testing.T) {
	m := newTestModel(t, testEntries())
	m.runner = &runningStub
	m.pendingUsageKey = "config::cache clear"
	m.startLoading("cache clear")

	m.handleRunDone(runDoneMsg{result: runResult(3, false)})

	assert.False(t, m.Loading)
	assert.Nil(t, m.runner)
	assert.Equal(t, "exit code: 3", lastLine(m))
	assert.Equal(t, uint64(1), m.Usage.Count("config::cache clear"))
}

func TestRunDoneReportsInterrupt(t *testing.T) {
	m := newTestModel(t, testEntries())
	m.runner = &runningStub
	m.startLoading("cache clear")

	m.handleRunDone(runDoneMsg{result: runResult(130, true)})
	assert.Equal(t, "Interrupted by user (Escape)", lastLine(m))
}
