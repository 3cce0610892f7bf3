package state

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cristianoliveira/quickfire/internal/shell"
)

// runLineMsg carries one captured output line from the running command.
type runLineMsg struct {
	line shell.Line
}

// runDoneMsg reports the final result of a streamed command.
type runDoneMsg struct {
	result shell.Result
}

// internalDoneMsg reports the outcome of an internal command worker.
type internalDoneMsg struct {
	reloaded *CatalogPayload
	initPath string
	err      error
}

// listenRunner waits for the next event of the streamed command: a line while
// output flows, the run result once the runner is finished. Pending lines are
// preferred so an interrupt result never jumps ahead of captured output, and
// the result is taken from its own channel because an abandoned reader leaves
// the lines channel open.
func listenRunner(r *shell.Runner) tea.Cmd {
	return func() tea.Msg {
		select {
		case line, ok := <-r.Lines():
			if ok {
				return runLineMsg{line: line}
			}
			return runDoneMsg{result: <-r.Result()}
		default:
		}

		select {
		case line, ok := <-r.Lines():
			if ok {
				return runLineMsg{line: line}
			}
			return runDoneMsg{result: <-r.Result()}
		case result := <-r.Result():
			return runDoneMsg{result: result}
		}
	}
}
