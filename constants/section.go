package constants

// Section is one of the labeled fields extracted from a model reply.
type Section string

const (
	SectionName         Section = "name"
	SectionBackground   Section = "background"
	SectionStrengths    Section = "strengths"
	SectionAchievements Section = "achievements"
	SectionWeaknesses   Section = "weaknesses"
	SectionPersonality  Section = "personality"
)

// sectionLabels are the labels the prompt asks for, in prompt order.
var sectionLabels = []struct {
	Section Section
	Label   string
}{
	{SectionName, "名前"},
	{SectionBackground, "経歴"},
	{SectionStrengths, "強み"},
	{SectionAchievements, "実績"},
	{SectionWeaknesses, "弱み"},
	{SectionPersonality, "性格"},
}

// ScoredSections are the sections that carry a 1-10 evaluation.
var ScoredSections = []Section{SectionStrengths, SectionAchievements, SectionPersonality}

// AllSections returns every section in prompt order.
func AllSections() []Section {
	out := make([]Section, len(sectionLabels))
	for i, s := range sectionLabels {
		out[i] = s.Section
	}
	return out
}

// Label returns the Japanese label for s, or "" for an unknown section.
func (s Section) Label() string {
	for _, l := range sectionLabels {
		if l.Section == s {
			return l.Label
		}
	}
	return ""
}

// ScoreMarker is appended to a label to form the score key, e.g. 強み評価.
const ScoreMarker = "評価"
