// Package ansi interprets SGR escape sequences in captured process output so
// child-process colors survive re-rendering inside the UI.
package ansi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Style is the cumulative text attribute state while scanning a line.
// Foreground and Background are lipgloss color tokens: an ANSI palette index
// ("0".."255"), a hex value ("#rrggbb"), or "" for the terminal default.
type Style struct {
	Foreground string
	Background string
	Bold       bool
	Italic     bool
	Underline  bool
}

// Segment is a run of text rendered with a single style.
type Segment struct {
	Text  string
	Style Style
}

// Lipgloss converts the accumulated attributes to a renderable style.
func (s Style) Lipgloss() lipgloss.Style {
	style := lipgloss.NewStyle()
	if s.Foreground != "" {
		style = style.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		style = style.Background(lipgloss.Color(s.Background))
	}
	if s.Bold {
		style = style.Bold(true)
	}
	if s.Italic {
		style = style.Italic(true)
	}
	if s.Underline {
		style = style.Underline(true)
	}
	return style
}

// ParseLine splits one line of process output into styled segments. Escape
// state starts from base and does not carry across lines. Non-SGR control
// sequences (cursor movement, screen clears) are consumed and dropped. A line
// with no visible text yields a single empty segment so blank lines keep
// their height.
func ParseLine(text string, base Style) []Segment {
	var segments []Segment
	style := base
	var buffer strings.Builder

	runes := []rune(text)
	i := 0
	for i < len(runes) {
		if runes[i] == 0x1b && i+1 < len(runes) && runes[i+1] == '[' {
			if buffer.Len() > 0 {
				segments = append(segments, Segment{Text: buffer.String(), Style: style})
				buffer.Reset()
			}

			params, terminator, next := scanCSI(runes, i+2)
			i = next
			if terminator == 'm' {
				style = applySGR(params, style, base)
			}
			continue
		}

		buffer.WriteRune(runes[i])
		i++
	}

	if buffer.Len() > 0 {
		segments = append(segments, Segment{Text: buffer.String(), Style: style})
	}
	if len(segments) == 0 {
		segments = append(segments, Segment{Style: base})
	}
	return segments
}

// scanCSI consumes a control sequence starting after "ESC[". It returns the
// parameter bytes, the final byte (0 when the sequence is unterminated), and
// the index of the first rune after the sequence.
func scanCSI(runes []rune, start int) (params string, terminator rune, next int) {
	var buf strings.Builder
	i := start
	for i < len(runes) {
		ch := runes[i]
		if ch >= 0x40 && ch <= 0x7e {
			return buf.String(), ch, i + 1
		}
		buf.WriteRune(ch)
		i++
	}
	return buf.String(), 0, i
}

// applySGR folds one SGR parameter list into the running style.
func applySGR(seq string, style, base Style) Style {
	if seq == "" {
		return base
	}

	var params []int
	for _, part := range strings.Split(seq, ";") {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		params = append(params, n)
	}
	if len(params) == 0 {
		return base
	}

	for i := 0; i < len(params); i++ {
		code := params[i]
		switch {
		case code == 0:
			style = base
		case code == 1:
			style.Bold = true
		case code == 3:
			style.Italic = true
		case code == 4:
			style.Underline = true
		case code == 22:
			style.Bold = false
		case code == 23:
			style.Italic = false
		case code == 24:
			style.Underline = false
		case code >= 30 && code <= 37:
			style.Foreground = paletteColor(code - 30)
		case code == 39:
			style.Foreground = base.Foreground
		case code >= 40 && code <= 47:
			style.Background = paletteColor(code - 40)
		case code == 49:
			style.Background = base.Background
		case code >= 90 && code <= 97:
			style.Foreground = paletteColor(code - 90 + 8)
		case code >= 100 && code <= 107:
			style.Background = paletteColor(code - 100 + 8)
		case code == 38 || code == 48:
			color, consumed := extendedColor(params[i+1:])
			if color == "" {
				i += consumed
				continue
			}
			if code == 38 {
				style.Foreground = color
			} else {
				style.Background = color
			}
			i += consumed
		}
	}
	return style
}

// extendedColor reads the argument tail of a 38/48 sequence: "5;N" selects a
// palette index, "2;R;G;B" a truecolor value. Returns the number of params
// consumed.
func extendedColor(args []int) (string, int) {
	if len(args) >= 2 && args[0] == 5 {
		return strconv.Itoa(clampByte(args[1])), 2
	}
	if len(args) >= 4 && args[0] == 2 {
		return fmt.Sprintf("#%02x%02x%02x", clampByte(args[1]), clampByte(args[2]), clampByte(args[3])), 4
	}
	return "", 0
}

func paletteColor(index int) string {
	return strconv.Itoa(index)
}

func clampByte(n int) int {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}
