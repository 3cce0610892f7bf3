package state

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cristianoliveira/quickfire/internal/catalog"
	"github.com/cristianoliveira/quickfire/internal/config"
	"github.com/cristianoliveira/quickfire/internal/logging"
	"github.com/cristianoliveira/quickfire/internal/shell"
)

// prepareSelectedCommand resolves parameters for the selected entry. Params
// with hardcoded values or usable defaults are filled in; the rest open the
// parameter prompt.
func (m *Model) prepareSelectedCommand(returnToUI bool) tea.Cmd {
	index, ok := m.currentCommandIndex()
	if !ok {
		m.pushInfo("No command selected")
		return nil
	}

	entry := m.Entries[index]
	values := make(map[string]string)
	var pending []int

	for i, param := range entry.Params {
		switch param.Kind {
		case catalog.ParamValue:
			if param.HasHardValue {
				values[param.Name] = param.HardValue
				continue
			}
			if param.RequiresInput() {
				pending = append(pending, i)
				continue
			}
			if param.HasDefaultValue {
				values[param.Name] = param.DefaultValue
			}
		case catalog.ParamFlag:
			if param.HasHardFlag {
				values[param.Name] = flagToken(param, param.HardFlag)
				continue
			}
			if param.RequiresInput() {
				pending = append(pending, i)
				continue
			}
			values[param.Name] = flagToken(param, param.HasDefaultFlag && param.DefaultFlag)
		}
	}

	if len(pending) == 0 {
		return m.buildRunRequest(index, values, returnToUI)
	}

	m.Mode = ParamPromptMode{
		CommandIndex: index,
		Pending:      pending,
		Values:       values,
		ReturnToUI:   returnToUI,
	}
	return nil
}

func flagToken(param catalog.ParamSpec, enabled bool) string {
	if !enabled {
		return ""
	}
	return param.FlagToken()
}

// buildRunRequest renders the template and either starts the streamed run or
// quits with a pending inherited execution.
func (m *Model) buildRunRequest(index int, values map[string]string, returnToUI bool) tea.Cmd {
	entry := m.Entries[index]
	rendered := catalog.RenderTemplate(entry.Template, values)

	if catalog.HasUnresolvedPlaceholders(rendered) {
		m.pushInfo(fmt.Sprintf("Command '%s' still has unresolved placeholders", entry.Name))
		return nil
	}

	request := ExecRequest{
		DisplayName: entry.Name,
		CommandLine: rendered,
		WorkingDir:  entry.WorkingDir,
		UsageKey:    entry.UsageKey(),
	}

	m.clearQuery()

	if !returnToUI {
		m.PendingExec = &request
		return tea.Quit
	}
	return m.startStreamedRun(request)
}

func (m *Model) startStreamedRun(request ExecRequest) tea.Cmd {
	m.pushCommand(request.CommandLine)
	if request.WorkingDir != "" {
		m.pushInfo("working directory: " + request.WorkingDir)
	}

	runner, err := shell.Start(request.CommandLine, request.WorkingDir)
	if err != nil {
		m.pushError(fmt.Sprintf("execution failed: %v", err))
		return nil
	}

	m.runner = runner
	m.pendingUsageKey = request.UsageKey
	m.startLoading(request.DisplayName)
	return tea.Batch(listenRunner(runner), m.Spinner.Tick)
}

func (m *Model) handleRunLine(msg runLineMsg) tea.Cmd {
	kind := LineStdout
	if msg.line.Kind == shell.Stderr {
		kind = LineStderr
	}
	m.pushLine(kind, msg.line.Text)
	if m.runner == nil {
		return nil
	}
	return listenRunner(m.runner)
}

func (m *Model) handleRunDone(msg runDoneMsg) {
	if msg.result.Interrupted {
		m.pushInfo("Interrupted by user (Escape)")
	} else {
		m.pushInfo(fmt.Sprintf("exit code: %d", msg.result.ExitCode))
	}
	m.stopLoading()
	m.Usage.Record(m.pendingUsageKey)
	m.runner = nil
	m.pendingUsageKey = ""
}

// runInternal starts the internal command worker and switches the UI into
// the loading state.
func (m *Model) runInternal(command InternalCommand) tea.Cmd {
	m.Mode = SearchMode{}
	m.clearQuery()

	label := "internal"
	switch command.(type) {
	case ReloadCommand:
		label = "/reload"
	case InitCommand:
		label = "/init"
	}
	m.startLoading(label)

	runtime := m.Runtime
	worker := func() tea.Msg {
		return executeInternal(runtime, command)
	}
	return tea.Batch(worker, m.Spinner.Tick)
}

// executeInternal performs the internal command off the UI goroutine.
func executeInternal(runtime Runtime, command InternalCommand) internalDoneMsg {
	switch cmd := command.(type) {
	case ReloadCommand:
		payload, err := LoadCatalog(runtime)
		if err != nil {
			return internalDoneMsg{err: fmt.Errorf("reload failed: %w", err)}
		}
		return internalDoneMsg{reloaded: &payload}

	case InitCommand:
		path, err := config.GlobalConfigPath()
		if err != nil {
			return internalDoneMsg{err: fmt.Errorf("init failed: %w", err)}
		}
		if err := config.WriteExampleConfig(path, cmd.Force); err != nil {
			return internalDoneMsg{err: fmt.Errorf("init failed: %w", err)}
		}
		payload, err := LoadCatalog(runtime)
		if err != nil {
			return internalDoneMsg{err: fmt.Errorf("reload failed: %w", err)}
		}
		return internalDoneMsg{reloaded: &payload, initPath: path}

	case UnknownCommand:
		return internalDoneMsg{err: fmt.Errorf(
			"Unknown internal command '/%s'. Available: /reload, /init", cmd.Name)}
	}
	return internalDoneMsg{}
}

func (m *Model) handleInternalDone(msg internalDoneMsg) {
	defer m.stopLoading()

	if msg.err != nil {
		m.pushError(msg.err.Error())
		logging.Warn("internal command failed", "error", msg.err)
		return
	}
	if msg.reloaded == nil {
		return
	}

	count := len(msg.reloaded.Entries)
	m.applyPayload(*msg.reloaded)
	if msg.initPath != "" {
		m.pushInfo("Wrote example config: " + msg.initPath)
	}
	m.pushInfo(fmt.Sprintf("Reloaded %d commands", count))
}
