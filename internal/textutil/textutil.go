// internal/textutil/textutil.go

// Package textutil provides the pure text-shaping functions used by the
// voice benchmark: transcript normalization, TTS cache-key normalization,
// response budget enforcement, first-sentence segmentation, and raw model
// output inspection. All functions are stateless.
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	nonAlphanumericRe  = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRunRe    = regexp.MustCompile(`\s+`)
	spaceBeforePunctRe = regexp.MustCompile(`\s+([.,!?;:])`)
	sentenceEndRe      = regexp.MustCompile(`[.!?]$`)
	firstSentenceRe    = regexp.MustCompile(`[.!?]["')\]]*\s`)
	thoughtTagRe       = regexp.MustCompile(`(?i)<\s*/?\s*(?:think|thinking|thought)\b[^>]*>`)
	thoughtBlockRe     = regexp.MustCompile(`(?is)<\s*(?:think|thinking|thought)\b[^>]*>.*?<\s*/\s*(?:think|thinking|thought)\s*>`)
	xmlTagRe           = regexp.MustCompile(`</?[^>\n]+>`)
)

// NormalizeForComparison folds case and strips punctuation so a transcription
// can be scored against a ground-truth transcript independent of formatting.
func NormalizeForComparison(text string) string {
	normalized := nonAlphanumericRe.ReplaceAllString(strings.ToLower(text), " ")
	return strings.TrimSpace(whitespaceRunRe.ReplaceAllString(normalized, " "))
}

// NormalizeForCacheKey folds case and collapses whitespace but keeps
// punctuation, only dropping a space that immediately precedes terminal
// punctuation. Cache keys must match on spoken content exactly enough that
// "Hello , world !" and "hello, world!" share an entry, while still
// distinguishing sentences that differ only in punctuation.
func NormalizeForCacheKey(text string) string {
	normalized := strings.TrimSpace(whitespaceRunRe.ReplaceAllString(strings.ToLower(text), " "))
	return spaceBeforePunctRe.ReplaceAllString(normalized, "$1")
}

// budgetBoundaryRatio is the minimum fraction of the budget a sentence or
// clause boundary must reach for a boundary cut to be preferred over a hard
// cut.
const budgetBoundaryRatio = 0.6

// EnforceResponseBudget caps text at maxChars characters, snapping backward
// to the rightmost sentence or clause boundary when one falls at or past 60%
// of the budget. The capped text always ends in terminal punctuation. The
// second return reports whether a cap was applied.
func EnforceResponseBudget(text string, maxChars int) (string, bool) {
	compact := strings.TrimSpace(whitespaceRunRe.ReplaceAllString(text, " "))
	runes := []rune(compact)
	if maxChars <= 0 || len(runes) <= maxChars {
		return compact, false
	}

	head := strings.TrimSpace(string(runes[:maxChars]))
	headRunes := []rune(head)

	// Boundary positions are compared against a rune-denominated threshold,
	// so the breakpoint must be a rune index too.
	breakpoint := -1
	for _, boundary := range []string{". ", "! ", "? ", ", ", "; ", ": ", " "} {
		if idx := strings.LastIndex(head, boundary); idx >= 0 {
			if runeIdx := utf8.RuneCountInString(head[:idx]); runeIdx > breakpoint {
				breakpoint = runeIdx
			}
		}
	}

	bounded := head
	if breakpoint >= int(float64(maxChars)*budgetBoundaryRatio) {
		bounded = string(headRunes[:breakpoint])
	}
	bounded = strings.TrimSpace(bounded)
	if !sentenceEndRe.MatchString(bounded) {
		bounded += "."
	}
	return bounded, true
}

// SplitFirstSentence splits text at the first sentence terminator that is
// followed by whitespace, carrying any closing quotes or brackets with the
// first sentence. Text without such a boundary is returned whole with an
// empty remainder.
func SplitFirstSentence(text string) (string, string) {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return "", ""
	}

	loc := firstSentenceRe.FindStringIndex(stripped)
	if loc == nil {
		return stripped, ""
	}

	first := strings.TrimSpace(stripped[:loc[1]])
	remainder := strings.TrimSpace(stripped[loc[1]:])
	if first == "" {
		return stripped, ""
	}
	return first, remainder
}

// ModelOutputInspection describes the structural diagnostics of a raw model
// response alongside a cleaned, tag-free excerpt.
type ModelOutputInspection struct {
	Cleaned         string `json:"cleaned"`
	HasThinkingTag  bool   `json:"hasThinkingTag"`
	HasXMLTag       bool   `json:"hasXmlTag"`
	ThoughtTagCount int    `json:"thoughtTagCount"`
	XMLTagCount     int    `json:"xmlTagCount"`
}

// InspectModelOutput counts think-style tags and generic XML-style tags in a
// raw model response, and produces a cleaned excerpt with whole thought
// blocks and every remaining tag span replaced by whitespace.
func InspectModelOutput(raw string) ModelOutputInspection {
	thoughtTags := thoughtTagRe.FindAllString(raw, -1)
	xmlTags := xmlTagRe.FindAllString(raw, -1)

	withoutThoughtBlocks := thoughtBlockRe.ReplaceAllString(raw, " ")
	withoutXML := xmlTagRe.ReplaceAllString(withoutThoughtBlocks, " ")
	cleaned := strings.TrimSpace(whitespaceRunRe.ReplaceAllString(withoutXML, " "))

	return ModelOutputInspection{
		Cleaned:         cleaned,
		HasThinkingTag:  len(thoughtTags) > 0,
		HasXMLTag:       len(xmlTags) > 0,
		ThoughtTagCount: len(thoughtTags),
		XMLTagCount:     len(xmlTags),
	}
}

// Truncate shortens text to maxLen runes, replacing the tail with an
// ellipsis. Used for the in/out context excerpts in the report.
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
