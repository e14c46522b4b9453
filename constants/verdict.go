package constants

// Verdict is the first-round screening outcome.
type Verdict string

const (
	VerdictPass Verdict = "一次面接に通過"   // advances to first interview
	VerdictFail Verdict = "一次面接に不合格" // does not advance
)

// Rating is the overall grade derived from the mean section score.
type Rating string

const (
	RatingA Rating = "A"
	RatingB Rating = "B"
	RatingC Rating = "C"
)

// Rating band lower bounds (inclusive).
const (
	RatingAMin = 7.0
	RatingBMin = 5.0
)

// DefaultMaxTokens is the token budget for the analysis call.
const DefaultMaxTokens = 500
