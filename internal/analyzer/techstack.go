package analyzer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/pkg/models"
)

const techStackSystem = `You are an expert code analyst. Your task is to analyze an issue description,
its labels, and a repository's README/language to determine the skills and
technologies required to solve the issue.

Pay close attention to file paths in the issue body and the labels
(e.g., 'frontend', 'database', 'bug') as they are strong clues.

Respond only with a JSON object containing one key: "tech_stack",
which is an array of lowercase strings.

Example:
{"tech_stack": ["python", "flask", "api", "react", "css"]}`

// ExtractTechStack infers the technologies the issue requires. On failure the
// stack is empty, which scores zero tech match.
func (a *Analyzer) ExtractTechStack(ctx context.Context, issue *models.Issue, repo *models.Repository) models.TechStackSignal {
	prompt := fmt.Sprintf(`Repository Language: %s

Repository README (snippet):
---
%s
---

Issue Title: %s

Issue Labels: %s

Issue Body:
---
%s
---`,
		repo.Language,
		truncateText(repo.Readme, a.maxReadme),
		issue.Title,
		strings.Join(issue.Labels, ", "),
		issue.Body)

	var signal models.TechStackSignal
	if err := a.ask(ctx, "tech_stack", techStackSystem, prompt, &signal); err != nil {
		a.logger.Warn("tech stack analysis failed, using empty stack", zap.Error(err))
		return models.TechStackSignal{TechStack: []string{}}
	}

	signal.TechStack = cleanTokens(signal.TechStack)
	return signal
}
