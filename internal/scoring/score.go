// Package scoring turns classifier signals and profile metadata into a bounded,
// reproducible fitness score for an issue commenter.
//
// Everything here is pure: no I/O, no clocks, no mutation of inputs. The same
// Input always yields the same Report.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/Kavirubc/gh-scout/pkg/models"
)

// Category maxima. They sum to MaxTotal.
const (
	MaxTechMatch          = 4.0
	MaxExplanation        = 3.0
	MaxRepoContributions  = 2.0
	MaxOtherContributions = 1.0
	MaxTotal              = 10.0

	maxSignal = 10.0
)

const (
	noMatchingSkills = "No matching skills found."
	noRepoPRs        = "No merged PRs found in this repository."
	analyzedPRs      = "Analyzed past contributions."
	hasRecentPRs     = "User has recent public PRs."
	noRecentPRs      = "No recent public PRs found in profile."
	notAvailable     = "N/A"
	defaultUsername  = "user"
)

// Input bundles the four signals the engine consumes
type Input struct {
	TechStack     models.TechStackSignal
	User          models.UserSkillSignal
	Profile       models.ProfileData
	Contributions models.ContributionQuality
}

// Category is one row of the score table
type Category struct {
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Max     float64 `json:"max"`
	Details string  `json:"details"`
}

// Report is the engine output for a single comment
type Report struct {
	Username           string   `json:"username"`
	RequiredStack      []string `json:"required_stack"`
	TechMatch          Category `json:"tech_match"`
	Explanation        Category `json:"explanation"`
	RepoContributions  Category `json:"repo_contributions"`
	OtherContributions Category `json:"other_contributions"`
	Total              float64  `json:"total_score"`
	Tier               Tier     `json:"tier"`
}

// Categories returns the four rows in display order
func (r *Report) Categories() []Category {
	return []Category{r.TechMatch, r.Explanation, r.RepoContributions, r.OtherContributions}
}

// Calculate scores a commenter. It never fails: degraded signals simply score lower.
func Calculate(in Input) *Report {
	username := strings.TrimSpace(in.Profile.Username)
	if username == "" {
		username = defaultUsername
	}

	r := &Report{
		Username:           username,
		RequiredStack:      append([]string(nil), in.TechStack.TechStack...),
		TechMatch:          scoreTechMatch(in.TechStack.TechStack, in.User.UserSkills),
		Explanation:        scoreExplanation(in.User),
		RepoContributions:  scoreRepoContributions(in.Profile.RepoContributionCount, in.Contributions),
		OtherContributions: scoreOtherContributions(in.Profile.RecentPRs),
	}

	var total float64
	for _, c := range r.Categories() {
		total += c.Score
	}
	r.Total = clamp(round1(total), 0, MaxTotal)
	r.Tier = SelectTier(r.Total, r.TechMatch.Score, r.Explanation.Score, r.RepoContributions.Score)

	return r
}

func scoreTechMatch(stack, skills []string) Category {
	c := Category{Name: "Tech Stack Match", Max: MaxTechMatch, Details: noMatchingSkills}

	required := lowerTokens(stack)
	have := lowerTokens(skills)
	if len(required) == 0 || len(have) == 0 {
		return c
	}

	haveSet := make(map[string]struct{}, len(have))
	for _, s := range have {
		haveSet[s] = struct{}{}
	}

	// Matches are distinct; the denominator counts every required token.
	var matches []string
	seen := make(map[string]struct{}, len(required))
	for _, s := range required {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := haveSet[s]; ok {
			matches = append(matches, s)
		}
	}

	if len(matches) == 0 {
		c.Details = fmt.Sprintf("No skills match required stack: %s", joinOrNA(required))
		return c
	}

	ratio := float64(len(matches)) / float64(len(required))
	c.Score = clamp(round1(ratio*MaxTechMatch), 0, MaxTechMatch)
	c.Details = fmt.Sprintf("Found %d matching skills: %s", len(matches), strings.Join(matches, ", "))
	return c
}

func scoreExplanation(user models.UserSkillSignal) Category {
	c := Category{Name: "Explanation Quality", Max: MaxExplanation, Details: notAvailable}

	q := sanitize(user.ExplanationQuality)
	c.Score = clamp(round1(q/maxSignal*MaxExplanation), 0, MaxExplanation)

	if summary := strings.TrimSpace(user.ExplanationSummary); summary != "" {
		c.Details = summary
	}
	return c
}

func scoreRepoContributions(count int, quality models.ContributionQuality) Category {
	c := Category{Name: "Repo Contribution Quality", Max: MaxRepoContributions, Details: noRepoPRs}

	// Complexity is meaningless without contributions.
	if count <= 0 {
		return c
	}

	c.Score = complexityBand(sanitize(quality.AverageComplexity))
	c.Details = analyzedPRs
	if summary := strings.TrimSpace(quality.Summary); summary != "" {
		c.Details = summary
	}
	return c
}

// complexityBand maps an average complexity to repo-contribution points.
// Lower bounds are inclusive.
func complexityBand(complexity float64) float64 {
	switch {
	case complexity >= 9:
		return 2
	case complexity >= 7:
		return 1.5
	case complexity >= 4:
		return 1
	case complexity > 0:
		return 0.5
	default:
		return 0
	}
}

func scoreOtherContributions(recentPRs string) Category {
	c := Category{Name: "Other Contributions", Max: MaxOtherContributions, Details: noRecentPRs}
	if recentPRs != "" {
		c.Score = MaxOtherContributions
		c.Details = hasRecentPRs
	}
	return c
}

// lowerTokens lower-cases tokens, keeping duplicates and order
func lowerTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}

func joinOrNA(items []string) string {
	if len(items) == 0 {
		return notAvailable
	}
	return strings.Join(items, ", ")
}

// sanitize bounds a 0-10 classifier signal; NaN counts as no signal.
func sanitize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, 0, maxSignal)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
