package analysis

import (
	"strings"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/entity"
)

// Aggregate fills Verdict and, for the scoring variant, OverallRating.
func Aggregate(r entity.AnalysisResult, v Variant) entity.AnalysisResult {
	r.Verdict = MakeVerdict(r)
	if v.Scored() {
		r.OverallRating = MakeRating(r.StrengthsScore, r.AchievementsScore, r.PersonalityScore)
	} else {
		r.OverallRating = ""
	}
	return r
}

// MakeVerdict passes a candidate when both strengths and achievements were reported.
// Only presence counts.
func MakeVerdict(r entity.AnalysisResult) constants.Verdict {
	if strings.TrimSpace(r.Strengths) != "" && strings.TrimSpace(r.Achievements) != "" {
		return constants.VerdictPass
	}
	return constants.VerdictFail
}

// MeanScore is the floating-point mean of the three section scores.
func MeanScore(strengths, achievements, personality int) float64 {
	return float64(strengths+achievements+personality) / 3.0
}

// MakeRating grades the mean: >= 7 is A, >= 5 is B, anything lower is C.
func MakeRating(strengths, achievements, personality int) constants.Rating {
	mean := MeanScore(strengths, achievements, personality)
	switch {
	case mean >= constants.RatingAMin:
		return constants.RatingA
	case mean >= constants.RatingBMin:
		return constants.RatingB
	default:
		return constants.RatingC
	}
}
