package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/entity"
)

func TestExportReportsXLSX(t *testing.T) {
	reports := []entity.Report{
		{Document: "b.docx", Error: "complete: openai upstream status 503: overloaded"},
		{
			Document: "a.pdf",
			Result: &entity.AnalysisResult{
				Name:              "山田 太郎",
				Strengths:         "設計",
				Achievements:      "刷新",
				StrengthsScore:    8,
				AchievementsScore: 6,
				PersonalityScore:  9,
				OverallRating:     constants.RatingA,
				Verdict:           constants.VerdictPass,
			},
			Faces: []entity.FaceCandidate{{Name: "face_output-0.png"}},
		},
	}

	b, err := NewService(nil).ExportReportsXLSX(context.Background(), reports)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])

	assert.Equal(t, []string{"a.pdf", "山田 太郎", "一次面接に通過", "A", "8", "6", "9", "設計", "刷新", "1"}, rows[1])
	assert.Equal(t, "b.docx", rows[2][0])
	assert.Equal(t, "0", rows[2][9])
	assert.Equal(t, "complete: openai upstream status 503: overloaded", rows[2][10])
}

func TestExportReportsXLSX_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewService(nil).ExportReportsXLSX(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "設計…", truncate("設計力がある", 3))
	assert.Equal(t, 140, len([]rune(truncate(strings.Repeat("あ", 200), 140))))
}
