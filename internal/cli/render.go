package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
	"github.com/Kavirubc/gh-scout/internal/scoring"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	labelStyle   = lipgloss.NewStyle().Width(28)
)

// renderResult summarizes a pipeline run for the terminal
func renderResult(r *core.Result) string {
	if r == nil {
		return errorStyle.Render("no result") + "\n"
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s#%d", r.Repo, r.IssueNumber)))
	if r.Commenter != "" {
		sb.WriteString(mutedStyle.Render(" comment by @" + r.Commenter))
	}
	sb.WriteString("\n")

	switch {
	case r.Skipped:
		sb.WriteString(warnStyle.Render("Skipped: " + r.SkipReason))
		sb.WriteString("\n")
		return sb.String()
	case r.Error != "":
		sb.WriteString(errorStyle.Render("Error: " + r.Error))
		sb.WriteString("\n")
		if r.ErrorReported {
			sb.WriteString(mutedStyle.Render("Error comment posted"))
			sb.WriteString("\n")
		}
		return sb.String()
	}

	if r.Report != nil {
		sb.WriteString(renderReport(r.Report))
	}

	switch {
	case r.DryRun:
		sb.WriteString(warnStyle.Render("Dry run: comment not posted"))
	case r.CommentPosted:
		sb.WriteString(successStyle.Render("Comment posted"))
	}
	sb.WriteString("\n")
	if r.CacheHit {
		sb.WriteString(mutedStyle.Render("Profile served from cache"))
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderReport prints the score breakdown as an aligned table
func renderReport(r *scoring.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s\n", r.Tier.Emoji(), tierStyle(r.Tier).Render(string(r.Tier))))
	for _, c := range r.Categories() {
		sb.WriteString(labelStyle.Render(c.Name))
		sb.WriteString(fmt.Sprintf("%4.1f / %.0f  ", c.Score, c.Max))
		sb.WriteString(mutedStyle.Render(c.Details))
		sb.WriteString("\n")
	}
	sb.WriteString(labelStyle.Render(titleStyle.Render("Total")))
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%4.1f / %.0f", r.Total, scoring.MaxTotal)))
	sb.WriteString("\n")

	return sb.String()
}

func tierStyle(t scoring.Tier) lipgloss.Style {
	switch t {
	case scoring.TierExcellentMatch, scoring.TierGoodFit:
		return successStyle.Bold(true)
	case scoring.TierLowEffort, scoring.TierNotStrongMatch:
		return errorStyle.Bold(true)
	default:
		return warnStyle.Bold(true)
	}
}
