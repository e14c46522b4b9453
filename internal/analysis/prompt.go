package analysis

import (
	"fmt"
	"strings"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/common"
)

// Variant selects the prompt template and whether scores are parsed.
type Variant string

const (
	VariantPlain   Variant = common.VariantPlain
	VariantScoring Variant = common.VariantScoring
)

// ParseVariant accepts "plain" or "scoring"; "" means scoring.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantScoring:
		return VariantScoring, nil
	case VariantPlain:
		return VariantPlain, nil
	}
	return "", common.NewAppError("INVALID_VARIANT", fmt.Sprintf("unknown prompt variant %q", s), common.ErrInvalidInput)
}

// Scored reports whether replies to this variant carry scores.
func (v Variant) Scored() bool { return v == VariantScoring }

const promptHeader = `あなたは大手企業で採用担当の経験がある、プロの人事マンです。現在は以下の課題を抱えています。
# 課題
自分が働く企業の応募人数が多すぎて書類選考を捌けていない

ソリューションは以下のとおりです。

# ソリューション
ファイルをアップロードし、自社の採用基準に合致する人か判断するアプリを使用する

上記のアプリは、このアプリのことです。
`

const (
	requestPlain   = "アップロードされたファイルから以下の情報を分析してください。"
	requestScoring = "アップロードされたファイルから以下の情報を分析し、各項目を10段階で評価してください。また、総合評価も行ってください。"
)

// BuildPrompt renders the recruiter template for text. The output depends only
// on v and text.
func BuildPrompt(v Variant, text string) string {
	var b strings.Builder
	b.WriteString(promptHeader)

	b.WriteString("\n# 依頼\n")
	if v.Scored() {
		b.WriteString(requestScoring)
	} else {
		b.WriteString(requestPlain)
	}
	b.WriteString("\n\n# 情報\n")

	sections := constants.AllSections()
	for i, s := range sections {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.Label())
	}
	if v.Scored() {
		fmt.Fprintf(&b, "%d. 各項目の10段階評価\n", len(sections)+1)
		fmt.Fprintf(&b, "%d. 総合評価\n", len(sections)+2)
	}

	b.WriteString("\n# 回答形式\n")
	for i, s := range sections {
		fmt.Fprintf(&b, "%d. %s: <内容>\n", i+1, s.Label())
	}
	if v.Scored() {
		fmt.Fprintf(&b, "%d. 各項目の10段階評価\n", len(sections)+1)
		for _, s := range constants.ScoredSections {
			fmt.Fprintf(&b, "%s%s: <1から10の整数>\n", s.Label(), constants.ScoreMarker)
		}
		fmt.Fprintf(&b, "%d. 総合評価: <1から10の整数>\n", len(sections)+2)
	}

	b.WriteString("\nテキスト:\n")
	b.WriteString(text)
	b.WriteString("\n")
	return b.String()
}
