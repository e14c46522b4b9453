package analysis

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/entity"
)

// Reply grammar, applied per label and always to the first match:
//
//	section := label [":" | "："] [ws incl. newlines] value
//	value   := text up to the next line that starts with "<digits>." or with a
//	           known section label plus colon, or to end of text; trimmed
//	score   := label "評価" [ws] ":" [ws] digits
//
// Boundaries are only recognized at column 0, so indented sub-lists stay in
// the value. A value whose first line is itself a section heading is empty.
// Anything else in the reply is ignored. Full-width digits and colons are
// accepted in scores.

var scorePatterns = func() map[constants.Section]*regexp.Regexp {
	out := make(map[constants.Section]*regexp.Regexp, len(constants.ScoredSections))
	for _, s := range constants.ScoredSections {
		out[s] = regexp.MustCompile(regexp.QuoteMeta(s.Label()+constants.ScoreMarker) + `\s*:\s*(\d+)`)
	}
	return out
}()

// ParseResponse extracts the six sections and, for the scoring variant, the
// three scores. It never fails; missing parts stay "" or 0.
func ParseResponse(reply string, v Variant) entity.AnalysisResult {
	var r entity.AnalysisResult
	for _, s := range constants.AllSections() {
		r.SetSection(s, ExtractSection(reply, s.Label()))
	}
	if v.Scored() {
		for _, s := range constants.ScoredSections {
			r.SetScore(s, ExtractScore(reply, s))
		}
	}
	return r
}

// ExtractSection returns the value following the first occurrence of label, or "".
func ExtractSection(reply, label string) string {
	i := strings.Index(reply, label)
	if i < 0 || label == "" {
		return ""
	}
	rest := reply[i+len(label):]
	if strings.HasPrefix(rest, ":") {
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "：") {
		rest = rest[len("："):]
	}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if isHeading(rest) {
		return ""
	}
	return strings.TrimSpace(rest[:sectionEnd(rest)])
}

// sectionEnd is the offset of the newline that opens the next numbered or
// labeled line, or len(s).
func sectionEnd(s string) int {
	for off := 0; off < len(s); {
		nl := strings.IndexByte(s[off:], '\n')
		if nl < 0 {
			break
		}
		at := off + nl
		if startsBoundary(s[at+1:]) {
			return at
		}
		off = at + 1
	}
	return len(s)
}

func startsBoundary(line string) bool {
	if digits := len(line) - len(strings.TrimLeft(line, "0123456789")); digits > 0 {
		return strings.HasPrefix(line[digits:], ".")
	}
	return startsLabel(line)
}

// isHeading reports whether line opens another section: an optional
// "<digits>." followed by a known label.
func isHeading(line string) bool {
	if digits := len(line) - len(strings.TrimLeft(line, "0123456789")); digits > 0 {
		if !strings.HasPrefix(line[digits:], ".") {
			return false
		}
		line = strings.TrimLeft(line[digits+1:], " \t　")
	}
	return startsLabel(line)
}

// startsLabel matches a known label followed by a colon or the end of the line,
// so prose such as "性格が明るい" is not taken for a heading.
func startsLabel(line string) bool {
	for _, s := range constants.AllSections() {
		rest, ok := strings.CutPrefix(line, s.Label())
		if !ok {
			continue
		}
		rest = strings.TrimLeft(rest, " \t　")
		if rest == "" || rest[0] == ':' || rest[0] == '\n' || rest[0] == '\r' || strings.HasPrefix(rest, "：") {
			return true
		}
	}
	return false
}

// ExtractScore returns the integer after "<label>評価:", or 0.
func ExtractScore(reply string, s constants.Section) int {
	re, ok := scorePatterns[s]
	if !ok {
		return 0
	}
	m := re.FindStringSubmatch(width.Fold.String(reply))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// MatchedSections counts the sections whose label occurs in reply.
func MatchedSections(reply string) int {
	n := 0
	for _, s := range constants.AllSections() {
		if strings.Contains(reply, s.Label()) {
			n++
		}
	}
	return n
}

// CheckWellFormed returns a *common.MalformedResponseError when no section label
// occurs in reply. ParseResponse does not call it; callers opt in.
func CheckWellFormed(reply string) error {
	if MatchedSections(reply) == 0 {
		return &common.MalformedResponseError{ReplyLen: len(reply)}
	}
	return nil
}
