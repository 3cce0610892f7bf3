package state

// Mode is the interaction mode of the UI. The concrete types form a closed
// set handled exhaustively in Update.
type Mode interface {
	isMode()
}

// SearchMode is the default mode: typing edits the query.
type SearchMode struct{}

// ParamPromptMode collects parameter values for a selected command, one
// pending parameter at a time.
type ParamPromptMode struct {
	CommandIndex int
	Pending      []int
	Current      int
	Input        string
	Values       map[string]string
	ReturnToUI   bool
}

// InternalPromptMode asks a yes/no question for an internal command, such as
// overwrite confirmation for /init.
type InternalPromptMode struct {
	CommandIndex int
	Input        string
}

func (SearchMode) isMode()         {}
func (ParamPromptMode) isMode()    {}
func (InternalPromptMode) isMode() {}

// Pane identifies which panel receives navigation keys.
type Pane int

const (
	PaneCommands Pane = iota
	PaneSession
)

// LineKind classifies session log lines for rendering.
type LineKind int

const (
	LineInfo LineKind = iota
	LineCommand
	LineStdout
	LineStderr
)

// SessionLine is one entry of the session log.
type SessionLine struct {
	Kind LineKind
	Text string
}

// SearchItem points either at a catalog entry or an internal command,
// depending on whether the query starts with "/".
type SearchItem struct {
	Internal bool
	Index    int
}
