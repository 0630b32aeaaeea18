package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette
// =============================================================================

// ANSI 256 colors. Snap feedback reuses the status colors so a snapped edge
// reads the same as a successful command.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Status Lines
// =============================================================================

type statusKind int

const (
	statusOK statusKind = iota
	statusFailed
	statusWarning
	statusNote
)

type statusMark struct {
	icon  string
	color lipgloss.Color
}

var statusMarks = map[statusKind]statusMark{
	statusOK:      {"✓", colorGreen},
	statusFailed:  {"✗", colorRed},
	statusWarning: {"!", colorYellow},
	statusNote:    {"›", colorGray},
}

// Snap state labels shown after a drag.
var (
	snapLabels = map[bool]string{true: "snapped", false: "raw"}
	snapColors = map[bool]lipgloss.Color{true: colorGreen, false: colorGray}
)

func renderMark(k statusKind) string {
	m := statusMarks[k]
	return lipgloss.NewStyle().Foreground(m.color).Render(m.icon)
}

func (c *CLI) printStatus(k statusKind, msg string) {
	if k == statusWarning {
		msg = StyleWarning.Render(msg)
	}
	fmt.Fprintln(c.out(), renderMark(k)+" "+msg)
}

func (c *CLI) printSuccess(format string, args ...any) {
	c.printStatus(statusOK, fmt.Sprintf(format, args...))
}

func (c *CLI) printError(format string, args ...any) {
	c.printStatus(statusFailed, fmt.Sprintf(format, args...))
}

func (c *CLI) printWarning(format string, args ...any) {
	c.printStatus(statusWarning, fmt.Sprintf(format, args...))
}

func (c *CLI) printInfo(format string, args ...any) {
	c.printStatus(statusNote, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func (c *CLI) printDetail(format string, args ...any) {
	fmt.Fprintln(c.out(), "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (c *CLI) printItem(s string) {
	fmt.Fprintln(c.out(), "  "+StyleDim.Render("→")+" "+styleValue.Render(s))
}

func (c *CLI) printKeyValue(key, value string) {
	fmt.Fprintln(c.out(), styleKey.Render(key)+" "+styleValue.Render(value))
}

// printStats prints counts and the snap state on one dimmed line, e.g.
// "  2 matches · 1 source · snapped".
func (c *CLI) printStats(parts []string, snapped bool) {
	rendered := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		rendered = append(rendered, StyleDim.Render(p))
	}
	state := lipgloss.NewStyle().Foreground(snapColors[snapped]).Render(snapLabels[snapped])
	rendered = append(rendered, state)
	fmt.Fprintln(c.out(), "  "+strings.Join(rendered, StyleDim.Render(" · ")))
}

func (c *CLI) printNextStep(description, cmd string) {
	fmt.Fprintln(c.out(), StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Formatting
// =============================================================================

// plural returns "1 page" or "3 pages".
func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// formatFloat prints v with at most two decimals and no trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
