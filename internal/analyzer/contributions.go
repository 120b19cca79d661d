package analyzer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/pkg/models"
)

const (
	maxAnalyzedDiffs = 3

	noDiffsSummary      = "No past PRs in this repo to analyze."
	contributionsFailed = "Error analyzing PR diffs."
)

const contributionsSystem = `You are a senior software engineer. Analyze the provided code diffs from a
user's past pull requests. Your task is to determine the average complexity
of their work. A "1" is a simple typo or doc update. A "10" is a
complex new feature, major refactor, or difficult bug fix.

Respond only with a JSON object with two keys:
1. "average_complexity": A single number from 1 to 10.
2. "summary": A one-sentence summary of their past work quality.

Example:
{"average_complexity": 7.5, "summary": "User has experience with significant feature work and bug fixes."}`

// AnalyzeContributions rates the complexity of up to three merged PR diffs.
// With no diffs the provider is not called.
func (a *Analyzer) AnalyzeContributions(ctx context.Context, diffs []string) models.ContributionQuality {
	if len(diffs) == 0 {
		return models.ContributionQuality{AverageComplexity: 0, Summary: noDiffsSummary}
	}

	var sb strings.Builder
	sb.WriteString("Please analyze the following code diffs (up to 3):\n")
	for i := 0; i < maxAnalyzedDiffs; i++ {
		diff := "N/A"
		if i < len(diffs) {
			diff = diffs[i]
		}
		sb.WriteString(fmt.Sprintf("\n--- DIFF %d ---\n%s\n", i+1, diff))
	}

	var quality models.ContributionQuality
	if err := a.ask(ctx, "contribution_quality", contributionsSystem, sb.String(), &quality); err != nil {
		a.logger.Warn("contribution analysis failed, using default signal", zap.Error(err))
		return models.ContributionQuality{AverageComplexity: 0, Summary: contributionsFailed}
	}

	quality.AverageComplexity = clampSignal(quality.AverageComplexity)
	return quality
}
