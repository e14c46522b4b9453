package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/entity"
)

func TestValidateResult_Scoring(t *testing.T) {
	r := Aggregate(ParseResponse(numberedReply, VariantScoring), VariantScoring)
	assert.NoError(t, ValidateResult(r, VariantScoring))
}

func TestValidateResult_EmptyPlain(t *testing.T) {
	r := Aggregate(entity.AnalysisResult{}, VariantPlain)
	assert.NoError(t, ValidateResult(r, VariantPlain))
}

func TestValidateResult_RejectsBadRating(t *testing.T) {
	r := Aggregate(entity.AnalysisResult{}, VariantScoring)
	r.OverallRating = "Z"

	err := ValidateResult(r, VariantScoring)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RESULT_INVALID", appErr.Code)
}

func TestValidateResult_PlainMustNotCarryRating(t *testing.T) {
	r := Aggregate(entity.AnalysisResult{}, VariantPlain)
	r.OverallRating = constants.RatingA
	assert.Error(t, ValidateResult(r, VariantPlain))
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildResultJSONSchema(VariantScoring)

	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"name":"x"}`)), "missing keys")
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`not json`)))

	full := `{"name":"","background":"","strengths":"","achievements":"","weaknesses":"","personality":"",
"strengths_score":8,"achievements_score":6,"personality_score":9,"overall_rating":"A","verdict":"一次面接に通過"}`
	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(full)))

	negative := `{"name":"","background":"","strengths":"","achievements":"","weaknesses":"","personality":"",
"strengths_score":-1,"achievements_score":6,"personality_score":9,"overall_rating":"A","verdict":"一次面接に通過"}`
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(negative)))
}
