// Package state holds the interactive launcher's model: the searchable
// catalog, the session log, and the mode machine driving prompts and command
// execution. All mutation happens inside the bubbletea update loop.
package state

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cristianoliveira/quickfire/internal/catalog"
	"github.com/cristianoliveira/quickfire/internal/config"
	"github.com/cristianoliveira/quickfire/internal/history"
	"github.com/cristianoliveira/quickfire/internal/match"
	"github.com/cristianoliveira/quickfire/internal/shell"
)

// MaxSessionLines bounds the session log; the oldest lines fall off first.
const MaxSessionLines = 600

// ExecRequest describes a command to run with inherited stdio after the UI
// exits.
type ExecRequest struct {
	DisplayName string
	CommandLine string
	WorkingDir  string
	UsageKey    string
}

// Model is the launcher state. It owns every mutable field; background
// goroutines communicate exclusively through messages.
type Model struct {
	Entries          []catalog.Entry
	InternalCommands []InternalDef
	Filtered         []SearchItem
	Selected         int

	Input      textinput.Model
	Mode       Mode
	ShowHelp   bool
	ActivePane Pane

	Session       []SessionLine
	SessionScroll int

	Spinner      spinner.Model
	Loading      bool
	LoadingLabel string

	ConfigPath      string
	Aliases         map[string]string
	AliasByProvider map[string]string
	Ranking         config.RankingConfig
	Engine          *match.Engine
	Usage           *history.Tracker
	Runtime         Runtime

	// PendingExec is set when the model quits to run a command with
	// inherited stdio; the caller executes it after the program exits.
	PendingExec *ExecRequest

	Width  int
	Height int

	runner          *shell.Runner
	pendingUsageKey string
}

// New builds the model from a loaded catalog.
func New(payload CatalogPayload, runtime Runtime, usage *history.Tracker) *Model {
	input := textinput.New()
	input.Prompt = ""
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := &Model{
		InternalCommands: internalCommandDefs(),
		Input:            input,
		Mode:             SearchMode{},
		Spinner:          spin,
		Usage:            usage,
		Runtime:          runtime,
		ActivePane:       PaneCommands,
	}
	m.applyPayload(payload)

	m.pushInfo(fmt.Sprintf("Loaded %d commands", len(m.Entries)))
	if m.ConfigPath != "" {
		m.pushInfo("Config: " + m.ConfigPath)
	} else {
		m.pushInfo("Config: none (providers only or defaults)")
	}
	return m
}

// Init starts cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Running reports whether a streamed command is currently executing.
func (m *Model) Running() bool {
	return m.runner != nil
}

// applyPayload swaps in a freshly loaded catalog.
func (m *Model) applyPayload(payload CatalogPayload) {
	m.Entries = payload.Entries
	m.ConfigPath = payload.ConfigPath
	m.Aliases = payload.Aliases
	m.Ranking = payload.Ranking

	m.AliasByProvider = make(map[string]string, len(payload.Aliases))
	for alias, provider := range payload.Aliases {
		m.AliasByProvider[provider] = alias
	}

	m.Engine = match.NewEngine(payload.Aliases, payload.Entries)
	m.refreshFiltered()
}

func (m *Model) isInternalQuery() bool {
	return strings.HasPrefix(strings.TrimLeft(m.Input.Value(), " \t"), "/")
}

func (m *Model) refreshFiltered() {
	if m.isInternalQuery() {
		query := strings.TrimPrefix(strings.TrimLeft(m.Input.Value(), " \t"), "/")
		items := make([]match.InternalItem, len(m.InternalCommands))
		for i, def := range m.InternalCommands {
			items[i] = match.InternalItem{Name: def.Name, Description: def.Description}
		}
		m.Filtered = m.Filtered[:0]
		for _, index := range match.RankInternal(items, query) {
			m.Filtered = append(m.Filtered, SearchItem{Internal: true, Index: index})
		}
		m.Selected = 0
		return
	}

	indices := m.Engine.Rank(m.Entries, m.Input.Value(), func(entry catalog.Entry) int64 {
		return m.Usage.Boost(entry, m.Ranking)
	})
	m.Filtered = m.Filtered[:0]
	for _, index := range indices {
		m.Filtered = append(m.Filtered, SearchItem{Index: index})
	}
	m.Selected = 0
}

func (m *Model) currentCommandIndex() (int, bool) {
	if m.Selected >= len(m.Filtered) {
		return 0, false
	}
	item := m.Filtered[m.Selected]
	if item.Internal {
		return 0, false
	}
	return item.Index, true
}

func (m *Model) currentInternalIndex() (int, bool) {
	if m.Selected >= len(m.Filtered) {
		return 0, false
	}
	item := m.Filtered[m.Selected]
	if !item.Internal {
		return 0, false
	}
	return item.Index, true
}

func (m *Model) moveSelection(step int) {
	if len(m.Filtered) == 0 {
		m.Selected = 0
		return
	}
	next := (m.Selected + step) % len(m.Filtered)
	if next < 0 {
		next += len(m.Filtered)
	}
	m.Selected = next
}

func (m *Model) scrollSession(delta int) {
	limit := len(m.Session) - 1
	if limit < 0 {
		limit = 0
	}
	m.SessionScroll += delta
	if m.SessionScroll > limit {
		m.SessionScroll = limit
	}
	if m.SessionScroll < 0 {
		m.SessionScroll = 0
	}
}

func (m *Model) pushInfo(text string) {
	m.pushLine(LineInfo, text)
}

func (m *Model) pushCommand(text string) {
	m.pushLine(LineCommand, text)
}

func (m *Model) pushError(text string) {
	m.pushLine(LineStderr, text)
}

func (m *Model) pushLine(kind LineKind, text string) {
	m.Session = append(m.Session, SessionLine{Kind: kind, Text: text})
	if m.ActivePane == PaneCommands {
		m.SessionScroll = 0
	}
	if len(m.Session) > MaxSessionLines {
		overflow := len(m.Session) - MaxSessionLines
		m.Session = append(m.Session[:0], m.Session[overflow:]...)
		m.SessionScroll -= overflow
		if m.SessionScroll < 0 {
			m.SessionScroll = 0
		}
	}
}

func (m *Model) startLoading(label string) {
	m.Loading = true
	m.LoadingLabel = label
}

func (m *Model) stopLoading() {
	m.Loading = false
	m.LoadingLabel = ""
}

func (m *Model) clearQuery() {
	m.Input.SetValue("")
	m.Input.CursorEnd()
	m.refreshFiltered()
}

// DisplayName returns the list label for an entry: the provider prefix is
// dropped because the provider badge already shows it.
func DisplayName(entry catalog.Entry) string {
	prefix := entry.Provider + " "
	if strings.HasPrefix(strings.ToLower(entry.Name), strings.ToLower(prefix)) {
		return entry.Name[len(prefix):]
	}
	return entry.Name
}

// ProviderBadge returns the short label shown next to an entry: the
// configured alias when one exists, the provider name otherwise.
func (m *Model) ProviderBadge(entry catalog.Entry) string {
	if alias, ok := m.AliasByProvider[entry.Provider]; ok {
		return alias
	}
	return entry.Provider
}
