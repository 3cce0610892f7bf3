package state

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cristianoliveira/quickfire/internal/catalog"
)

// Update is the bubbletea message handler. It returns the concrete model;
// the render package wraps it into a tea.Model with the view attached.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Input.Width = msg.Width - 12
		return m, nil

	case spinner.TickMsg:
		if !m.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case runLineMsg:
		return m, m.handleRunLine(msg)

	case runDoneMsg:
		m.handleRunDone(msg)
		return m, nil

	case internalDoneMsg:
		m.handleInternalDone(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	// While a command streams, Escape interrupts it and everything else is
	// swallowed so keystrokes cannot leak into the query.
	if m.Running() {
		if msg.String() == "esc" {
			m.runner.Interrupt()
		}
		return m, nil
	}

	if m.ShowHelp {
		switch msg.String() {
		case "esc", "?":
			m.ShowHelp = false
			return m, nil
		}
		// Any other key closes help and is handled normally.
		m.ShowHelp = false
	}

	switch m.Mode.(type) {
	case SearchMode:
		return m.handleSearchKey(msg)
	case ParamPromptMode:
		return m.handleParamPromptKey(msg)
	case InternalPromptMode:
		return m.handleInternalPromptKey(msg)
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "?":
		m.ShowHelp = true
		return m, nil

	case "tab":
		if m.ActivePane == PaneCommands {
			m.ActivePane = PaneSession
		} else {
			m.ActivePane = PaneCommands
		}
		return m, nil

	case "esc":
		if m.Input.Value() == "" {
			return m, tea.Quit
		}
		m.clearQuery()
		m.ActivePane = PaneCommands
		return m, nil

	case "enter", "alt+enter":
		if m.ActivePane == PaneSession {
			return m, nil
		}
		if m.isInternalQuery() {
			return m, m.prepareSelectedInternal()
		}
		returnToUI := msg.String() != "alt+enter"
		return m, m.prepareSelectedCommand(returnToUI)

	case "up":
		if m.ActivePane == PaneSession {
			m.scrollSession(1)
		} else {
			m.moveSelection(-1)
		}
		return m, nil

	case "down":
		if m.ActivePane == PaneSession {
			m.scrollSession(-1)
		} else {
			m.moveSelection(1)
		}
		return m, nil

	case "pgup":
		if m.ActivePane == PaneSession {
			m.scrollSession(10)
		} else {
			m.moveSelection(-10)
		}
		return m, nil

	case "pgdown":
		if m.ActivePane == PaneSession {
			m.scrollSession(-10)
		} else {
			m.moveSelection(10)
		}
		return m, nil

	case "ctrl+j":
		if m.ActivePane == PaneSession {
			m.scrollSession(-1)
		} else {
			m.moveSelection(1)
		}
		return m, nil

	case "ctrl+k":
		if m.ActivePane == PaneSession {
			m.scrollSession(1)
		} else {
			m.moveSelection(-1)
		}
		return m, nil

	case "ctrl+c":
		return m, tea.Quit
	}

	before := m.Input.Value()
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	if m.Input.Value() != before {
		m.refreshFiltered()
	}
	if isEditingKey(msg) {
		m.ActivePane = PaneCommands
	}
	return m, cmd
}

// isEditingKey reports keys that return focus to the commands pane: anything
// that edits the query or moves its cursor.
func isEditingKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "left", "right", "home", "end", "backspace", "delete":
		return true
	}
	return msg.Type == tea.KeyRunes && !msg.Alt
}

func (m *Model) handleParamPromptKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	prompt := m.Mode.(ParamPromptMode)
	param := m.Entries[prompt.CommandIndex].Params[prompt.Pending[prompt.Current]]

	switch msg.String() {
	case "esc":
		m.pushInfo("Parameter entry canceled")
		m.Mode = SearchMode{}
		return m, nil

	case "backspace":
		runes := []rune(prompt.Input)
		if len(runes) > 0 {
			prompt.Input = string(runes[:len(runes)-1])
		}
		m.Mode = prompt
		return m, nil

	case "enter":
		return m.submitParamInput(prompt, param)
	}

	if msg.Type == tea.KeyRunes && !msg.Alt && len(msg.Runes) == 1 {
		ch := string(msg.Runes)

		// A single keystroke answers a flag prompt immediately.
		if param.Kind == catalog.ParamFlag {
			defaultFlag := param.HasDefaultFlag && param.DefaultFlag
			if value, ok := parseFlagInput(ch, defaultFlag); ok {
				prompt.Values[param.Name] = flagToken(param, value)
				return m.advanceParamPrompt(prompt)
			}
		}

		prompt.Input += ch
		m.Mode = prompt
	}
	return m, nil
}

func (m *Model) submitParamInput(prompt ParamPromptMode, param catalog.ParamSpec) (*Model, tea.Cmd) {
	input := strings.TrimSpace(prompt.Input)

	switch param.Kind {
	case catalog.ParamValue:
		value := input
		if value == "" {
			switch {
			case param.HasDefaultValue:
				value = param.DefaultValue
			case param.Required:
				m.pushInfo(fmt.Sprintf("'%s' is required", param.Name))
				m.Mode = prompt
				return m, nil
			}
		}
		if value != "" {
			prompt.Values[param.Name] = value
		}

	case catalog.ParamFlag:
		defaultFlag := param.HasDefaultFlag && param.DefaultFlag
		value, ok := parseFlagInput(input, defaultFlag)
		if !ok {
			m.pushInfo("Please enter y or n")
			m.Mode = prompt
			return m, nil
		}
		prompt.Values[param.Name] = flagToken(param, value)
	}

	return m.advanceParamPrompt(prompt)
}

func (m *Model) advanceParamPrompt(prompt ParamPromptMode) (*Model, tea.Cmd) {
	prompt.Current++
	prompt.Input = ""

	if prompt.Current >= len(prompt.Pending) {
		m.Mode = SearchMode{}
		return m, m.buildRunRequest(prompt.CommandIndex, prompt.Values, prompt.ReturnToUI)
	}

	m.Mode = prompt
	return m, nil
}

func (m *Model) handleInternalPromptKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	prompt := m.Mode.(InternalPromptMode)
	def := m.InternalCommands[prompt.CommandIndex]

	switch msg.String() {
	case "esc":
		m.pushInfo("Internal command canceled")
		m.Mode = SearchMode{}
		return m, nil

	case "backspace":
		runes := []rune(prompt.Input)
		if len(runes) > 0 {
			prompt.Input = string(runes[:len(runes)-1])
		}
		m.Mode = prompt
		return m, nil

	case "enter":
		force, ok := parseFlagInput(strings.TrimSpace(prompt.Input), def.DefaultForce)
		if !ok {
			m.pushInfo("Please enter y or n")
			m.Mode = prompt
			return m, nil
		}
		return m, m.runInternal(InitCommand{Force: force})
	}

	if msg.Type == tea.KeyRunes && !msg.Alt && len(msg.Runes) == 1 {
		ch := string(msg.Runes)
		if force, ok := parseFlagInput(ch, def.DefaultForce); ok {
			return m, m.runInternal(InitCommand{Force: force})
		}
		prompt.Input += ch
		m.Mode = prompt
	}
	return m, nil
}

// prepareSelectedInternal resolves Enter on a slash query. A typed command
// name is authoritative: /reload runs, /init asks for confirmation unless the
// force flag was spelled out, and a misspelled name reports instead of
// running whatever the list happens to show. A bare "/" runs the selection.
func (m *Model) prepareSelectedInternal() tea.Cmd {
	trimmed := strings.TrimSpace(m.Input.Value())
	parsed := parseInternalCommand(trimmed)

	switch cmd := parsed.(type) {
	case ReloadCommand:
		return m.runInternal(cmd)

	case InitCommand:
		if queryHasForceFlag(trimmed) {
			return m.runInternal(cmd)
		}
		return m.openInitConfirmation()

	case UnknownCommand:
		if cmd.Name != "" {
			m.pushInfo("Unknown internal command. Available: /reload, /init")
			if suggestion := suggestInternal(cmd.Name, m.InternalCommands); suggestion != "" {
				m.pushInfo(fmt.Sprintf("Did you mean /%s?", suggestion))
			}
			return nil
		}
	}

	index, ok := m.currentInternalIndex()
	if !ok {
		m.pushInfo("Unknown internal command. Available: /reload, /init")
		return nil
	}

	switch m.InternalCommands[index].Kind {
	case InternalReload:
		return m.runInternal(ReloadCommand{})
	case InternalInit:
		return m.openInitConfirmation()
	}
	return nil
}

func (m *Model) openInitConfirmation() tea.Cmd {
	for index, def := range m.InternalCommands {
		if def.Kind == InternalInit {
			m.Mode = InternalPromptMode{CommandIndex: index}
			break
		}
	}
	return nil
}
