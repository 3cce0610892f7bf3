// Package render turns the launcher model into terminal frames.
package render

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cristianoliveira/quickfire/internal/ansi"
	"github.com/cristianoliveira/quickfire/internal/catalog"
	"github.com/cristianoliveira/quickfire/internal/tui/state"
)

// App adapts the state model to bubbletea by attaching the view.
type App struct {
	Model *state.Model
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.Model.Init()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.Model.Update(msg)
	return App{Model: model}, cmd
}

// View implements tea.Model.
func (a App) View() string {
	return View(a.Model)
}

var (
	activeBorder   = lipgloss.Color("#5896c9")
	inactiveBorder = lipgloss.Color("#465460")
	selectionBg    = lipgloss.Color("#2a5874")

	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	prefixStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	badgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	internalTag  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	descStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedLine = lipgloss.NewStyle().Background(selectionBg).
			Foreground(lipgloss.Color("15")).Bold(true)
)

const commandsPaneHeight = 8

// pane draws a bordered box with the title embedded in the top edge.
// Built by hand because lipgloss borders cannot carry a title.
func pane(width, height int, borderColor lipgloss.Color, title, content string) string {
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}
	inner := width - 2
	border := lipgloss.NewStyle().Foreground(borderColor)

	label := ""
	if title != "" {
		label = " " + title + " "
	}
	fill := inner - 1 - lipgloss.Width(label)
	if fill < 0 {
		label = ""
		fill = inner - 1
	}
	top := "╭─" + label + strings.Repeat("─", fill) + "╮"
	bottom := "╰" + strings.Repeat("─", inner) + "╯"

	body := lipgloss.NewStyle().
		Width(inner).
		MaxWidth(inner).
		Height(height - 2).
		Render(content)
	rows := strings.Split(body, "\n")
	if len(rows) > height-2 {
		rows = rows[:height-2]
	}

	var b strings.Builder
	b.WriteString(border.Render(top))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(border.Render("│"))
		b.WriteString(row)
		b.WriteString(border.Render("│"))
	}
	b.WriteString("\n")
	b.WriteString(border.Render(bottom))
	return b.String()
}

// View renders the full frame: session log, command list, search bar, and
// hint bar or help panel.
func View(m *state.Model) string {
	width, height := m.Width, m.Height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	var popupView string
	switch prompt := m.Mode.(type) {
	case state.ParamPromptMode:
		popupView = paramPromptPopup(m, prompt)
	case state.InternalPromptMode:
		popupView = internalPromptPopup(m, prompt)
	}

	bottomHeight := 1
	if m.ShowHelp {
		bottomHeight = 14
	}
	popupHeight := 0
	if popupView != "" {
		popupHeight = lipgloss.Height(popupView)
	}
	sessionHeight := height - commandsPaneHeight - 1 - bottomHeight - popupHeight
	if sessionHeight < 3 {
		sessionHeight = 3
	}

	sections := []string{
		sessionPane(m, width, sessionHeight),
		commandsPane(m, width),
		searchBar(m, width),
	}
	if m.ShowHelp {
		sections = append(sections, helpPanel())
	} else {
		sections = append(sections, hintBar(m))
	}
	if popupView != "" {
		sections = append(sections, lipgloss.Place(
			width, popupHeight, lipgloss.Center, lipgloss.Top, popupView))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func sessionPane(m *state.Model, width, height int) string {
	visible := height - 2
	if visible < 1 {
		visible = 1
	}

	maxOffset := len(m.Session) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := m.SessionScroll
	if offset > maxOffset {
		offset = maxOffset
	}
	start := len(m.Session) - visible - offset
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(m.Session) {
		end = len(m.Session)
	}

	var lines []string
	for _, entry := range m.Session[start:end] {
		lines = append(lines, sessionLine(entry))
	}

	title := "Session"
	border := inactiveBorder
	if m.ActivePane == state.PaneSession {
		title = "Session [active]"
		border = activeBorder
	}

	return pane(width, height, border, title, strings.Join(lines, "\n"))
}

func sessionLine(entry state.SessionLine) string {
	switch entry.Kind {
	case state.LineCommand:
		return commandStyle.Render("$ " + entry.Text)
	case state.LineStdout:
		return prefixStyle.Render("  ") + renderOutput(entry.Text, ansi.Style{Foreground: "15"})
	case state.LineStderr:
		return prefixStyle.Render("! ") + renderOutput(entry.Text, ansi.Style{Foreground: "9"})
	default:
		return infoStyle.Render("• " + entry.Text)
	}
}

// renderOutput re-renders a captured line, honoring the escape sequences the
// child process emitted.
func renderOutput(text string, base ansi.Style) string {
	var b strings.Builder
	for _, segment := range ansi.ParseLine(text, base) {
		b.WriteString(segment.Style.Lipgloss().Render(segment.Text))
	}
	return b.String()
}

func commandsPane(m *state.Model, width int) string {
	total := len(m.Entries)
	if m.Filtered != nil && len(m.Filtered) > 0 && m.Filtered[0].Internal {
		total = len(m.InternalCommands)
	}

	title := fmt.Sprintf("Commands (%d/%d)", len(m.Filtered), total)
	border := inactiveBorder
	if m.ActivePane == state.PaneCommands {
		title += " [active]"
		border = activeBorder
	}

	if len(m.Filtered) == 0 {
		empty := lipgloss.NewStyle().Width(width - 2).Align(lipgloss.Center).
			Render("No matching commands")
		return pane(width, commandsPaneHeight, inactiveBorder, title, empty)
	}

	visible := commandsPaneHeight - 2
	start := 0
	if m.Selected >= visible {
		start = m.Selected - visible + 1
	}
	end := start + visible
	if end > len(m.Filtered) {
		end = len(m.Filtered)
	}

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, commandLine(m, m.Filtered[i], i == m.Selected))
	}

	return pane(width, commandsPaneHeight, border, title, strings.Join(lines, "\n"))
}

func commandLine(m *state.Model, item state.SearchItem, selected bool) string {
	marker := "  "
	if selected {
		marker = "▸ "
	}

	var line string
	if item.Internal {
		def := m.InternalCommands[item.Index]
		line = internalTag.Render("[internal] ") +
			nameStyle.Render(def.Name) +
			descStyle.Render(" | "+def.Description)
	} else {
		entry := m.Entries[item.Index]
		line = badgeStyle.Render("["+m.ProviderBadge(entry)+"] ") +
			nameStyle.Render(state.DisplayName(entry))
		if entry.Description != "" {
			line += descStyle.Render(" | " + entry.Description)
		}
	}

	if selected {
		return selectedLine.Render(marker + stripForSelection(m, item))
	}
	return marker + line
}

// stripForSelection renders the selected row without per-span colors so the
// highlight background stays uniform.
func stripForSelection(m *state.Model, item state.SearchItem) string {
	if item.Internal {
		def := m.InternalCommands[item.Index]
		return "[internal] " + def.Name + " | " + def.Description
	}
	entry := m.Entries[item.Index]
	line := "[" + m.ProviderBadge(entry) + "] " + state.DisplayName(entry)
	if entry.Description != "" {
		line += " | " + entry.Description
	}
	return line
}

func searchBar(m *state.Model, width int) string {
	var text string
	switch {
	case m.Loading:
		label := m.LoadingLabel
		if label == "" {
			label = "command"
		}
		text = fmt.Sprintf("Search: %s Running %s (Esc to interrupt)",
			m.Spinner.View(), label)
	case m.ActivePane == state.PaneSession:
		text = "Search: " + m.Input.Value() + "  [session active]"
	default:
		text = "Search: " + m.Input.View()
	}
	return lipgloss.NewStyle().Width(width).MaxHeight(1).Render(text)
}

func hintBar(m *state.Model) string {
	text := "  ? for help"
	if m.Loading {
		text = "  Esc to interrupt"
	}
	return dimStyle.Render(text)
}

func helpPanel() string {
	rows := []string{
		"  Enter          Run selected command",
		"  Alt+Enter      Run selected command and exit",
		"  Tab            Toggle command/session focus",
		"  Up/Down        Scroll active pane",
		"  PgUp/PgDn      Scroll active pane faster",
		"  Left/Right     Move cursor in search input",
		"  Home/End       Jump cursor in search input",
		"  Backspace/Del  Edit search input",
		"  :provider text Filter by provider",
		"  /              Internal commands",
		"  ?              Toggle this help",
		"  Esc            Clear search / quit / interrupt running command",
	}
	return dimStyle.Render(strings.Join(rows, "\n"))
}

func paramPromptPopup(m *state.Model, prompt state.ParamPromptMode) string {
	entry := m.Entries[prompt.CommandIndex]
	param := entry.Params[prompt.Pending[prompt.Current]]

	heading := fmt.Sprintf("%s (%d/%d)", param.Prompt, prompt.Current+1, len(prompt.Pending))

	var helper string
	if param.Kind == catalog.ParamFlag {
		answer := "no"
		if param.HasDefaultFlag && param.DefaultFlag {
			answer = "yes"
		}
		helper = "answer: y/n (Enter = " + answer + ")"
	} else {
		switch {
		case param.Placeholder != "":
			helper = "placeholder: " + param.Placeholder
		case param.HasDefaultValue:
			helper = "placeholder: " + param.DefaultValue
		}
	}

	return popup("Parameter", []string{
		heading,
		helper,
		"command: " + entry.Name,
		"> " + prompt.Input,
	})
}

func internalPromptPopup(m *state.Model, prompt state.InternalPromptMode) string {
	def := m.InternalCommands[prompt.CommandIndex]
	answer := "no"
	if def.DefaultForce {
		answer = "yes"
	}

	return popup("Internal Parameter", []string{
		"Use --force?",
		"answer: y/n (Enter = " + answer + ")",
		"command: " + def.Name,
		"> " + prompt.Input,
	})
}

func popup(title string, lines []string) string {
	kept := lines[:0]
	for _, line := range lines {
		if line != "" {
			kept = append(kept, line)
		}
	}
	body := strings.Join(kept, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(activeBorder).
		Padding(0, 1).
		Render(title + "\n" + body)
}
