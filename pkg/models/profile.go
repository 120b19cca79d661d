package models

// ProfileData is what we know about a commenter from their public GitHub activity.
// Username is stamped after fetch and on every cache hit; it is not part of the cached payload.
type ProfileData struct {
	Username              string   `json:"username"`
	Bio                   string   `json:"bio"`
	RecentPRs             string   `json:"recent_prs"`
	RepoContributionCount int      `json:"repo_contribution_count"`
	RepoLanguages         []string `json:"repo_languages"`
	PRDiffs               []string `json:"pr_diffs,omitempty"`
}

// ContributionQuality summarizes the complexity of a commenter's merged PRs in the target repository
type ContributionQuality struct {
	AverageComplexity float64 `json:"average_complexity" mapstructure:"average_complexity"`
	Summary           string  `json:"summary" mapstructure:"summary"`
}

// TechStackSignal lists the technologies an issue is believed to require
type TechStackSignal struct {
	TechStack []string `json:"tech_stack" mapstructure:"tech_stack"`
}

// UserSkillSignal is the per-comment analysis of a commenter
type UserSkillSignal struct {
	UserSkills         []string `json:"user_skills" mapstructure:"user_skills"`
	ExplanationQuality float64  `json:"explanation_quality" mapstructure:"explanation_quality"`
	ExplanationSummary string   `json:"explanation_summary" mapstructure:"explanation_summary"`
}
