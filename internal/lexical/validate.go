package lexical

import (
	"regexp"
	"strings"

	"github.com/sells-group/intel-engine/internal/model"
)

// minAssertionWords is the minimum sentence length, in words, for a strength
// or weakness claim to be trusted.
const minAssertionWords = 8

// definingPhraseRe matches defining sentences like "is a telecommunications
// company" or "is an industrial equipment manufacturer".
var definingPhraseRe = regexp.MustCompile(
	`(?i)\bis an? (?:[\w-]+ ){0,4}(?:company|corporation|firm|provider|manufacturer|startup|enterprise|organization)\b`,
)

// positiveOutcomeRe flags sentences describing wins or improvements; those
// are never weaknesses regardless of similarity score.
var positiveOutcomeRe = regexp.MustCompile(
	`(?i)\b(?:improved|improving|increased|grew|growing|record|strong|successful|success|exceeded|outperformed|profitable|expanded)\b`,
)

// opportunityPhraseRe flags forward-looking upside phrasing that belongs to
// the opportunity category, not weakness.
var opportunityPhraseRe = regexp.MustCompile(
	`(?i)\b(?:opportunit|potential to|could (?:expand|grow|capitalize)|room (?:to|for) grow)\b`,
)

// weaknessIndicators are the phrases at least one of which a weakness
// sentence must contain.
var weaknessIndicators = []string{
	"weak", "struggl", "declin", "churn", "loss", "losses", "risk",
	"problem", "fail", "shortage", "debt", "lawsuit", "outdated",
	"legacy", "depend", "pressure", "concern", "deficit", "drop",
	"behind", "lag", "costly", "expensive", "complaint",
}

// negationContrastWords disqualify a sentence as a strength claim.
var negationContrastWords = []string{
	" not ", " no ", " never ", " however", " but ", " despite",
	" although", " unfortunately", " fail", " declin", " weak",
	" lack", " without ",
}

// validate applies the category-specific heuristics that must hold before a
// scored sentence is trusted. Rejected sentences are silently dropped.
func (e *Extractor) validate(sentence string, cat model.Category) bool {
	switch cat {
	case model.CategoryDescription:
		return e.mentionsEntity(sentence)
	case model.CategoryWeakness:
		return validWeakness(sentence)
	case model.CategoryStrength:
		return validStrength(sentence)
	default:
		return true
	}
}

// mentionsEntity reports whether the sentence names the entity or one of its
// aliases. A description that never names the company is about something else.
func (e *Extractor) mentionsEntity(sentence string) bool {
	if len(e.aliases) == 0 {
		return true
	}
	lower := strings.ToLower(sentence)
	for _, alias := range e.aliases {
		if strings.Contains(lower, strings.ToLower(alias)) {
			return true
		}
	}
	return false
}

func validWeakness(sentence string) bool {
	if len(strings.Fields(sentence)) < minAssertionWords {
		return false
	}
	if positiveOutcomeRe.MatchString(sentence) || opportunityPhraseRe.MatchString(sentence) {
		return false
	}
	lower := strings.ToLower(sentence)
	for _, indicator := range weaknessIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func validStrength(sentence string) bool {
	if len(strings.Fields(sentence)) < minAssertionWords {
		return false
	}
	// Pad so word-boundary checks also hit at the sentence edges.
	lower := " " + strings.ToLower(sentence) + " "
	for _, w := range negationContrastWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}
