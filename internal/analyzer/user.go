package analyzer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/pkg/models"
)

const userAnalysisFailed = "Error during analysis."

const userSystem = `You are a hiring manager for a software company. Your task is to evaluate
a candidate based on their GitHub profile and their comment on an issue.

Infer their skills from their bio, their recent PR titles, and
especially the languages of their public repositories.

Respond only with a JSON object with three keys:
1. "user_skills": An array of lowercase strings representing their stated or implied skills.
2. "explanation_quality": A score from 0 to 10 assessing the quality of their
   comment (Did they explain how they would solve it, or just ask to be assigned?).
   0 = just asking, 10 = detailed plan.
3. "explanation_summary": A brief one-sentence summary of their comment quality.

Example:
{"user_skills": ["javascript", "react", "python"], "explanation_quality": 1, "explanation_summary": "User only asked to be assigned, providing no plan."}`

// AnalyzeUser infers the commenter's skills and rates how well the comment
// explains an approach.
func (a *Analyzer) AnalyzeUser(ctx context.Context, profile *models.ProfileData, comment string) models.UserSkillSignal {
	prompt := fmt.Sprintf(`User's GitHub Bio:
---
%s
---

User's Recent PRs (titles):
---
%s
---

User's Public Repo Languages (from last updated repos):
---
%s
---

User's Comment on Issue:
---
%s
---`,
		profile.Bio,
		profile.RecentPRs,
		strings.Join(profile.RepoLanguages, ", "),
		comment)

	var signal models.UserSkillSignal
	if err := a.ask(ctx, "user_analysis", userSystem, prompt, &signal); err != nil {
		a.logger.Warn("user analysis failed, using default signal", zap.Error(err))
		return models.UserSkillSignal{
			UserSkills:         []string{},
			ExplanationQuality: 0,
			ExplanationSummary: userAnalysisFailed,
		}
	}

	signal.UserSkills = cleanTokens(signal.UserSkills)
	signal.ExplanationQuality = clampSignal(signal.ExplanationQuality)
	return signal
}
