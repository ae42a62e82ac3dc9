// Package voice turns finished voice calls into goals: it validates the
// call webhook, extracts goal statements from the call text, stores them and
// relays a summary to the user's phone.
package voice

import (
	"strings"
	"unicode/utf8"

	"github.com/templui/goalvoice/internal/model"
)

// MaxTitleLength is the longest goal title, in characters, the extractor emits.
const MaxTitleLength = 200

// ExtractedGoal is a goal candidate found in call text.
type ExtractedGoal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Order matters: phrases are tried in this order within a sentence.
var leadPhrases = []string{
	"I want to",
	"My goal is",
	"I need to",
	"I plan to",
	"I will",
}

type categoryKeyword struct {
	keyword  string
	category string
}

// Order matters: the first keyword found in a sentence decides its category.
var categoryKeywords = []categoryKeyword{
	{"spanish", model.GoalCategoryEducation},
	{"learn", model.GoalCategoryEducation},
	{"study", model.GoalCategoryEducation},
	{"exercise", model.GoalCategoryHealth},
	{"gym", model.GoalCategoryHealth},
	{"fitness", model.GoalCategoryHealth},
	{"healthy", model.GoalCategoryHealth},
	{"project", model.GoalCategoryCareer},
	{"business", model.GoalCategoryCareer},
	{"work", model.GoalCategoryCareer},
	{"job", model.GoalCategoryCareer},
	{"save", model.GoalCategoryFinancial},
	{"money", model.GoalCategoryFinancial},
	{"invest", model.GoalCategoryFinancial},
}

// Extractor finds goal statements by lead phrase. It holds no mutable state
// and is safe for concurrent use.
type Extractor struct {
	firstMatchOnly bool
}

type ExtractorOption func(*Extractor)

// WithFirstMatchOnly limits every sentence to one goal, from the first lead
// phrase it contains. By default each matching phrase yields its own goal.
func WithFirstMatchOnly(enabled bool) ExtractorOption {
	return func(e *Extractor) {
		e.firstMatchOnly = enabled
	}
}

func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the goals stated in the summary, or in the transcript when
// the summary is blank. When nothing matches, a non-blank summary becomes a
// single personal goal. It never fails; an empty result is valid.
func (e *Extractor) Extract(transcript, summary string) []ExtractedGoal {
	summary = strings.TrimSpace(summary)

	text := summary
	if text == "" {
		text = transcript
	}

	var goals []ExtractedGoal
	for _, sentence := range splitSentences(text) {
		for _, phrase := range leadPhrases {
			title, ok := titleAfter(sentence, phrase)
			if !ok {
				continue
			}

			goals = append(goals, ExtractedGoal{
				Title:       title,
				Description: strings.TrimSpace(sentence),
				Category:    Categorize(sentence),
			})

			if e.firstMatchOnly {
				break
			}
		}
	}

	if len(goals) == 0 && summary != "" {
		goals = append(goals, ExtractedGoal{
			Title:       truncate(summary, MaxTitleLength),
			Description: summary,
			Category:    model.GoalCategoryPersonal,
		})
	}

	return goals
}

// Categorize returns the category of the first keyword contained in text,
// or personal. Keywords match as plain substrings, so "saved" counts as "save".
func Categorize(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range categoryKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.category
		}
	}
	return model.GoalCategoryPersonal
}

func splitSentences(text string) []string {
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := fragments[:0]
	for _, f := range fragments {
		if strings.TrimSpace(f) != "" {
			sentences = append(sentences, f)
		}
	}
	return sentences
}

// titleAfter returns the rest of the line following the first
// case-insensitive occurrence of phrase in sentence.
func titleAfter(sentence, phrase string) (string, bool) {
	idx := indexFold(sentence, phrase)
	if idx < 0 {
		return "", false
	}

	rest := sentence[idx+len(phrase):]
	if end := strings.IndexAny(rest, "\r\n"); end >= 0 {
		rest = rest[:end]
	}

	title := strings.TrimSpace(rest)
	if title == "" {
		return "", false
	}

	return truncate(title, MaxTitleLength), true
}

func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
