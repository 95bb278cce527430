package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Colors used for console output.
var (
	ColorRed    = lipgloss.Color("#FF5F5F")
	ColorGreen  = lipgloss.Color("#5FD75F")
	ColorYellow = lipgloss.Color("#FFD75F")
	ColorCyan   = lipgloss.Color("#5FD7FF")
	ColorGray   = lipgloss.Color("#808080")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	DetectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRed)

	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	DeviceStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)
)

// Title prints a bold heading line.
func Title(w io.Writer, text string) {
	fmt.Fprintln(w, TitleStyle.Render(text))
}

// Errorf prints a highlighted error message.
func Errorf(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints a highlighted warning.
func Warnf(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, WarnStyle.Render(fmt.Sprintf(format, args...)))
}

// Hintf prints a de-emphasized usage hint.
func Hintf(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf(format, args...)))
}

// DeviceLine echoes one line received from the device.
func DeviceLine(w io.Writer, line string) {
	fmt.Fprintf(w, "%s %s\n", DeviceStyle.Render("device →"), line)
}
