// Package classifier maps prompt text to a difficulty tier.
//
// Rules are checked in a fixed order and the first match wins:
// recency keywords, then complexity keywords, then prompt length.
package classifier

import (
	"strings"
	"unicode/utf8"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

// ShortPromptThreshold is the character count below which a keyword-free prompt is SIMPLE.
const ShortPromptThreshold = 50

// RecencyKeywords route to the live-search capable tier.
var RecencyKeywords = []string{"2025", "latest", "news", "price", "today"}

// ComplexityKeywords mark prompts that need the strongest model.
var ComplexityKeywords = []string{"code", "debug", "architecture", "analysis"}

// Rule names the check that produced a decision
type Rule string

const (
	RuleRecency    Rule = "recency"
	RuleComplexity Rule = "complexity"
	RuleShort      Rule = "short"
	RuleDefault    Rule = "default"
)

// Decision is a tier together with the reason it was chosen
type Decision struct {
	Tier    models.Tier
	Rule    Rule
	Keyword string
}

// Classify returns the difficulty tier for a prompt
func Classify(prompt string) models.Tier {
	return Explain(prompt).Tier
}

// Explain is Classify plus the matching rule and keyword.
// Matching is plain substring search on the lowercased prompt, so "encode" matches "code".
func Explain(prompt string) Decision {
	lower := strings.ToLower(prompt)

	if kw, ok := containsAny(lower, RecencyKeywords); ok {
		return Decision{Tier: models.TierHard, Rule: RuleRecency, Keyword: kw}
	}

	if kw, ok := containsAny(lower, ComplexityKeywords); ok {
		return Decision{Tier: models.TierHard, Rule: RuleComplexity, Keyword: kw}
	}

	if utf8.RuneCountInString(prompt) < ShortPromptThreshold {
		return Decision{Tier: models.TierSimple, Rule: RuleShort}
	}

	return Decision{Tier: models.TierMedium, Rule: RuleDefault}
}

func containsAny(s string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return kw, true
		}
	}
	return "", false
}
