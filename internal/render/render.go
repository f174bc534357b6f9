// Package render formats pipeline artifacts for terminal display.
package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/danmuck/hamming/internal/pipeline"
)

const DecodeFailureText = "Unable to decode message."

var ErrInvalidBits = errors.New("render: invalid bit line")

// Bits renders one %08b line per byte.
func Bits(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 9)
	for _, v := range b {
		fmt.Fprintf(&sb, "%08b\n", v)
	}
	return sb.String()
}

// ParseBits reverses Bits. Blank lines and surrounding spaces are ignored.
func ParseBits(s string) ([]byte, error) {
	out := make([]byte, 0)
	for i, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) != 8 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrInvalidBits, i+1, line)
		}
		v, err := strconv.ParseUint(line, 2, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q", ErrInvalidBits, i+1, line)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MarginRight(1)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Panel is one titled column of the display.
type Panel struct {
	Title string
	Body  string
}

// Panels lays out the five display columns for a snapshot side by side.
func Panels(snap pipeline.Snapshot) string {
	decoded := snap.Decoded.Text
	if !snap.Decoded.OK {
		decoded = failureStyle.Render(DecodeFailureText)
	}
	return Columns([]Panel{
		{Title: "Original", Body: snap.Message},
		{Title: "Encoded", Body: Bits(snap.Encoded)},
		{Title: "Error", Body: Bits(snap.Mask)},
		{Title: "Encoded with Error", Body: Bits(snap.Corrupted)},
		{Title: "Decoded", Body: decoded},
	})
}

func Columns(panels []Panel) string {
	cols := make([]string, 0, len(panels))
	for _, p := range panels {
		body := strings.TrimRight(p.Body, "\n")
		cols = append(cols, panelStyle.Render(titleStyle.Render(p.Title)+"\n"+body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
