package entity

import "github.com/kochan17/recruitment-app/constants"

// AnalysisResult is the structured evaluation of a document. Every field is always
// serialized; missing sections are "" and missing scores are 0.
type AnalysisResult struct {
	Name         string `json:"name"`
	Background   string `json:"background"`
	Strengths    string `json:"strengths"`
	Achievements string `json:"achievements"`
	Weaknesses   string `json:"weaknesses"`
	Personality  string `json:"personality"`

	StrengthsScore    int `json:"strengths_score"`
	AchievementsScore int `json:"achievements_score"`
	PersonalityScore  int `json:"personality_score"`

	OverallRating constants.Rating  `json:"overall_rating"`
	Verdict       constants.Verdict `json:"verdict"`
}

// Section returns the extracted value for s.
func (r AnalysisResult) Section(s constants.Section) string {
	switch s {
	case constants.SectionName:
		return r.Name
	case constants.SectionBackground:
		return r.Background
	case constants.SectionStrengths:
		return r.Strengths
	case constants.SectionAchievements:
		return r.Achievements
	case constants.SectionWeaknesses:
		return r.Weaknesses
	case constants.SectionPersonality:
		return r.Personality
	}
	return ""
}

// SetSection stores v under s.
func (r *AnalysisResult) SetSection(s constants.Section, v string) {
	switch s {
	case constants.SectionName:
		r.Name = v
	case constants.SectionBackground:
		r.Background = v
	case constants.SectionStrengths:
		r.Strengths = v
	case constants.SectionAchievements:
		r.Achievements = v
	case constants.SectionWeaknesses:
		r.Weaknesses = v
	case constants.SectionPersonality:
		r.Personality = v
	}
}

// SetScore stores a score for one of the scored sections; other sections are ignored.
func (r *AnalysisResult) SetScore(s constants.Section, v int) {
	switch s {
	case constants.SectionStrengths:
		r.StrengthsScore = v
	case constants.SectionAchievements:
		r.AchievementsScore = v
	case constants.SectionPersonality:
		r.PersonalityScore = v
	}
}

// Report bundles the text and image outputs for one document.
type Report struct {
	Document string          `json:"document"`
	Result   *AnalysisResult `json:"result,omitempty"`
	Faces    []FaceCandidate `json:"faces"`
	Warnings []string        `json:"warnings,omitempty"`
	Error    string          `json:"error,omitempty"`
	Code     string          `json:"code,omitempty"` // gRPC code name of Error
}
