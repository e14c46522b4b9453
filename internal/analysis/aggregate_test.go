package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/entity"
)

func TestMakeRating(t *testing.T) {
	tests := []struct {
		s, a, p int
		want    constants.Rating
	}{
		{8, 6, 9, constants.RatingA},
		{7, 7, 7, constants.RatingA},
		{5, 5, 5, constants.RatingB},
		{7, 7, 6, constants.RatingB}, // 6.67
		{5, 5, 4, constants.RatingC}, // 4.67
		{2, 3, 1, constants.RatingC},
		{0, 0, 0, constants.RatingC},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MakeRating(tt.s, tt.a, tt.p), "scores %d/%d/%d", tt.s, tt.a, tt.p)
	}
}

func TestMeanScore(t *testing.T) {
	assert.InDelta(t, 7.6667, MeanScore(8, 6, 9), 0.001)
	assert.Equal(t, 0.0, MeanScore(0, 0, 0))
}

func TestMakeVerdict(t *testing.T) {
	pass := entity.AnalysisResult{Strengths: "設計", Achievements: "刷新"}
	assert.Equal(t, constants.VerdictPass, MakeVerdict(pass))

	noAchievements := entity.AnalysisResult{Strengths: "設計", Achievements: ""}
	assert.Equal(t, constants.VerdictFail, MakeVerdict(noAchievements))

	blank := entity.AnalysisResult{Strengths: "  ", Achievements: "刷新"}
	assert.Equal(t, constants.VerdictFail, MakeVerdict(blank))
}

func TestAggregate(t *testing.T) {
	r := ParseResponse(numberedReply, VariantScoring)
	got := Aggregate(r, VariantScoring)
	assert.Equal(t, constants.RatingA, got.OverallRating)
	assert.Equal(t, constants.VerdictPass, got.Verdict)

	plain := Aggregate(ParseResponse(numberedReply, VariantPlain), VariantPlain)
	assert.Equal(t, constants.Rating(""), plain.OverallRating)
	assert.Equal(t, constants.VerdictPass, plain.Verdict)

	empty := Aggregate(entity.AnalysisResult{}, VariantScoring)
	assert.Equal(t, constants.RatingC, empty.OverallRating)
	assert.Equal(t, constants.VerdictFail, empty.Verdict)
}
