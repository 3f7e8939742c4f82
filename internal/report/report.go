// Package report renders load results and contract violations for the CLI.
// Pure formatting; IO and exit policy stay with the commands.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"keel/internal/loader"
	"keel/internal/loadlevel"
)

// Styles holds the lipgloss styles used by the renderer.
type Styles struct {
	Fail   lipgloss.Style
	Ok     lipgloss.Style
	Module lipgloss.Style
	Site   lipgloss.Style
	Dim    lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Module: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		Site:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Dim:    lipgloss.NewStyle().Faint(true),
	}
}

// PlainStyles returns styles with no escape sequences, for non-terminal
// output.
func PlainStyles() Styles {
	return Styles{}
}

// Violation renders one collected violation with its guard chain.
func (s Styles) Violation(v loader.Violation) string {
	var sb strings.Builder
	sb.WriteString(s.Fail.Render("violation"))
	sb.WriteString(" ")
	sb.WriteString(s.Module.Render(v.Module))
	sb.WriteString(": ")
	sb.WriteString(v.Msg)
	sb.WriteString("\n")
	sb.WriteString("  at ")
	sb.WriteString(s.Site.Render(v.Site.String()))
	sb.WriteString("\n")
	sb.WriteString(s.Dim.Render("  guards live at the check, innermost first:"))
	sb.WriteString("\n")
	sb.WriteString(loadlevel.FormatChain(v.Chain))
	return sb.String()
}

// Summary renders the per-module outcome table and the violation total.
func (s Styles) Summary(results []loader.ModuleResult, violations int) string {
	var sb strings.Builder
	for _, r := range results {
		name := r.Module
		if name == "" {
			name = r.Path
		}
		if r.Err != nil {
			sb.WriteString(fmt.Sprintf("%s %s: %v\n", s.Fail.Render("fail"), s.Module.Render(name), r.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("%s %s: %d types loaded\n", s.Ok.Render("ok  "), s.Module.Render(name), r.Loaded))
	}
	switch violations {
	case 0:
		sb.WriteString(s.Ok.Render("no ordering violations"))
	case 1:
		sb.WriteString(s.Fail.Render("1 ordering violation"))
	default:
		sb.WriteString(s.Fail.Render(fmt.Sprintf("%d ordering violations", violations)))
	}
	sb.WriteString("\n")
	return sb.String()
}
