package scoring

// Tier is the recommendation bucket a report falls into
type Tier string

const (
	TierExcellentMatch    Tier = "Excellent Match"
	TierPotentialMismatch Tier = "Potential Mismatch"
	TierNeedsPlan         Tier = "Good Profile, Needs Plan"
	TierGoodFit           Tier = "Good Fit"
	TierLowEffort         Tier = "Low-Effort Request"
	TierNotStrongMatch    Tier = "Not a Strong Match"
)

// Band thresholds on the total score.
const (
	excellentThreshold = 8.0
	goodThreshold      = 4.0
	lowEffortThreshold = 2.0
	subScoreFloor      = 1.0
)

// SelectTier picks the recommendation for a score breakdown. The first matching rule wins,
// so a total of 8 or more is Excellent regardless of the sub-scores.
func SelectTier(total, techMatch, explanation, repoContributions float64) Tier {
	switch {
	case total >= excellentThreshold:
		return TierExcellentMatch
	case total >= goodThreshold:
		switch {
		case techMatch < subScoreFloor:
			return TierPotentialMismatch
		case explanation < subScoreFloor:
			return TierNeedsPlan
		default:
			return TierGoodFit
		}
	case total < lowEffortThreshold && explanation == 0 && repoContributions == 0:
		return TierLowEffort
	default:
		return TierNotStrongMatch
	}
}

// AddressesMaintainer reports whether the tier's message is written to the maintainer
// rather than to the commenter.
func (t Tier) AddressesMaintainer() bool {
	return t == TierExcellentMatch || t == TierLowEffort
}

// Emoji is the heading marker used in the rendered report
func (t Tier) Emoji() string {
	switch t {
	case TierExcellentMatch:
		return "🚀"
	case TierPotentialMismatch:
		return "⚠️"
	case TierNeedsPlan:
		return "💡"
	case TierGoodFit:
		return "🤔"
	case TierLowEffort:
		return "🚩"
	default:
		return "📉"
	}
}
