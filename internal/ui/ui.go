// internal/ui/ui.go
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tamzrod/appliance-monitor/internal/lifecycle"
	"github.com/tamzrod/appliance-monitor/internal/probe"
)

var (
	purple = lipgloss.Color("99")
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	yellow = lipgloss.Color("214")
	dim    = lipgloss.Color("243")
	faint  = lipgloss.Color("238")
)

var (
	AccentStyle  = lipgloss.NewStyle().Foreground(purple)
	SuccessStyle = lipgloss.NewStyle().Foreground(green)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red)
	WarnStyle    = lipgloss.NewStyle().Foreground(yellow)
	MutedStyle   = lipgloss.NewStyle().Foreground(dim)
	LabelStyle   = lipgloss.NewStyle().Foreground(dim)
)

func Muted(s string) string { return MutedStyle.Render(s) }

func Bool(v bool) string {
	if v {
		return SuccessStyle.Render("true")
	}
	return ErrorStyle.Render("false")
}

func SuccessMsg(format string, a ...any) string {
	return SuccessStyle.Render("✓") + " " + fmt.Sprintf(format, a...)
}

func WarnMsg(format string, a ...any) string {
	return WarnStyle.Render("!") + " " + fmt.Sprintf(format, a...)
}

func ErrorMsg(format string, a ...any) string {
	return ErrorStyle.Render("✗") + " " + fmt.Sprintf(format, a...)
}

func InfoMsg(format string, a ...any) string {
	return AccentStyle.Render("●") + " " + fmt.Sprintf(format, a...)
}

// Pair holds a key-value pair for KeyValues output.
type Pair struct {
	key   string
	value string
}

func KV(key, value string) Pair {
	return Pair{key: key, value: value}
}

// KeyValues renders aligned "key:  value" lines with a trailing newline.
func KeyValues(indent string, pairs ...Pair) string {
	maxLen := 0
	for _, p := range pairs {
		if len(p.key) > maxLen {
			maxLen = len(p.key)
		}
	}

	var sb strings.Builder
	for _, p := range pairs {
		label := fmt.Sprintf("%-*s", maxLen+1, p.key+":")
		sb.WriteString(indent + LabelStyle.Render(label) + " " + p.value + "\n")
	}
	return sb.String()
}

// Table renders a styled table with rounded borders.
func Table(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(purple).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}

// stateStyle picks the visual for a lifecycle state.
func stateStyle(s lifecycle.State) lipgloss.Style {
	switch s {
	case lifecycle.Ready, lifecycle.ShutdownComplete:
		return SuccessStyle
	case lifecycle.Error:
		return ErrorStyle
	case lifecycle.ShuttingDown, lifecycle.Restarting:
		return WarnStyle
	default:
		return AccentStyle
	}
}

// Headline is the one-line text a renderer shows for a view.
func Headline(v lifecycle.View) string {
	switch v.Status {
	case lifecycle.Starting:
		return "The appliance is starting"
	case lifecycle.Ready:
		return "The appliance is ready"
	case lifecycle.Error:
		return "The appliance failed to start (" + v.Error + ")"
	case lifecycle.ShuttingDown:
		return "The appliance is shutting down"
	case lifecycle.ShutdownComplete:
		return "It is now safe to power off the appliance"
	case lifecycle.Restarting:
		return "The appliance is restarting"
	default:
		return "Unknown state " + string(v.Status)
	}
}

// View renders a lifecycle view as styled key/value lines.
func View(v lifecycle.View) string {
	pairs := []Pair{KV(lifecycle.AttrStatus, stateStyle(v.Status).Render(string(v.Status)))}
	if v.Error != "" {
		pairs = append(pairs, KV(lifecycle.AttrError, ErrorStyle.Render(v.Error)))
	}
	return stateStyle(v.Status).Render("●") + " " + Headline(v) + "\n" + KeyValues("  ", pairs...)
}

// Services renders the status feed as a table.
func Services(services []probe.ServiceStatus) string {
	if len(services) == 0 {
		return Muted("no services reported") + "\n"
	}
	rows := make([][]string, 0, len(services))
	for _, s := range services {
		rows = append(rows, []string{s.Name, s.Status, s.Error})
	}
	return Table([]string{"SERVICE", "STATUS", "ERROR"}, rows) + "\n"
}
