package scoring

import (
	"fmt"
	"strings"
)

const disclaimer = "*Disclaimer: This is an automated assessment. Maintainers should use this as a guide, not a final decision.*"

// Render formats the report as the markdown comment posted on the issue
func Render(r *Report) string {
	var sb strings.Builder

	sb.WriteString(feedbackSummary(r))
	sb.WriteString("\n\n---\n\n")

	sb.WriteString(fmt.Sprintf("### 🤖 Detailed Analysis for @%s\n\n", r.Username))
	sb.WriteString(fmt.Sprintf("**Final Score: %.1f / %.0f**\n\n", r.Total, MaxTotal))

	sb.WriteString("| Category | Score | Max | Details |\n")
	sb.WriteString("| :--- | :---: | :---: | :--- |\n")
	for _, c := range r.Categories() {
		sb.WriteString(fmt.Sprintf("| **%s** | %.1f | %.0f | %s |\n", c.Name, c.Score, c.Max, escapeCell(c.Details)))
	}

	sb.WriteString("\n---\n")
	sb.WriteString(disclaimer)
	sb.WriteString("\n")

	return sb.String()
}

func feedbackSummary(r *Report) string {
	heading := fmt.Sprintf("### %s Assessment: %s\n", r.Tier.Emoji(), r.Tier)
	required := joinOrNA(r.RequiredStack)

	var body string
	switch r.Tier {
	case TierExcellentMatch:
		body = fmt.Sprintf("Hi @maintainer! This user looks like a **perfect fit** (%.1f/10).\n"+
			"Their profile shows a strong skill match and high-quality past contributions relevant to this repo.", r.Total)
	case TierPotentialMismatch:
		body = fmt.Sprintf("Hi @%s (%.1f/10). Thanks for your interest! This issue seems to require skills in **%s**, "+
			"which don't appear in your recent public profile.\n"+
			"Could you clarify your experience with these technologies?", r.Username, r.Total, required)
	case TierNeedsPlan:
		body = fmt.Sprintf("Hi @%s (%.1f/10). You have a relevant profile! However, your comment didn't include a plan.\n"+
			"Could you briefly explain *how* you'd approach solving this issue?", r.Username, r.Total)
	case TierGoodFit:
		body = fmt.Sprintf("Hi @%s. You look like a good fit for this issue (%.1f/10).\n"+
			"@maintainer this user seems well-qualified.", r.Username, r.Total)
	case TierLowEffort:
		body = fmt.Sprintf("Hi @maintainer. **Warning:** This user's request (%.1f/10) appears to be a low-effort comment.\n"+
			"There is no plan, no matching skills, and no past contribution history in this repo.", r.Total)
	default:
		body = fmt.Sprintf("Hi @%s (%.1f/10). Thanks for your interest, but based on your public profile, this issue may not be the best fit.\n"+
			"It requires skills in **%s**, and your profile doesn't show a strong match.", r.Username, r.Total, required)
	}

	return heading + body
}

// escapeCell keeps classifier-provided text from breaking the markdown table
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
