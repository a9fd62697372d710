package scorer

import (
	"regexp"
	"strings"
)

// Dimension names one axis of the letter quality rubric.
type Dimension string

// Rubric dimensions, in weight order.
const (
	DimensionFormat          Dimension = "format_compliance"
	DimensionPersonalization Dimension = "personalization"
	DimensionAchievement     Dimension = "achievement_integration"
	DimensionTone            Dimension = "professional_tone"
	DimensionRelevance       Dimension = "content_relevance"
	// DimensionPlaceholders is reported as a weakness only; it has no score.
	DimensionPlaceholders Dimension = "placeholders"
)

// Rule represents a scoring rule.
type Rule struct {
	Name        string
	Dimension   Dimension
	Description string
	Weight      float64 // Contribution to (or deduction from) the dimension score
}

//nolint:gochecknoglobals // Scoring configuration constants
var ScoringRules = map[string]Rule{
	// Format compliance
	"GREETING_PRESENT": {
		Name:        "GREETING_PRESENT",
		Dimension:   DimensionFormat,
		Description: "Letter opens with a recognized greeting",
		Weight:      0.25,
	},
	"CLOSING_PRESENT": {
		Name:        "CLOSING_PRESENT",
		Dimension:   DimensionFormat,
		Description: "Letter ends with a recognized sign-off",
		Weight:      0.25,
	},
	"SIGNED_BY_APPLICANT": {
		Name:        "SIGNED_BY_APPLICANT",
		Dimension:   DimensionFormat,
		Description: "Applicant's full name appears in the letter",
		Weight:      0.25,
	},
	"PARAGRAPH_COUNT": {
		Name:        "PARAGRAPH_COUNT",
		Dimension:   DimensionFormat,
		Description: "Between 3 and 5 substantial paragraphs",
		Weight:      0.25,
	},

	// Personalization
	"NAME_PRESENT": {
		Name:        "NAME_PRESENT",
		Dimension:   DimensionPersonalization,
		Description: "Applicant's full name appears in the letter",
		Weight:      0.3,
	},
	"COMPANY_PRESENT": {
		Name:        "COMPANY_PRESENT",
		Dimension:   DimensionPersonalization,
		Description: "Hiring company is named",
		Weight:      0.3,
	},
	"POSITION_PRESENT": {
		Name:        "POSITION_PRESENT",
		Dimension:   DimensionPersonalization,
		Description: "Job title is named",
		Weight:      0.2,
	},
	"LOCATION_PRESENT": {
		Name:        "LOCATION_PRESENT",
		Dimension:   DimensionPersonalization,
		Description: "Applicant's location is mentioned",
		Weight:      0.2,
	},

	// Achievement integration
	"QUANTIFIED_RESULTS": {
		Name:        "QUANTIFIED_RESULTS",
		Dimension:   DimensionAchievement,
		Description: "At least two quantified results (42%, $300k, 120+)",
		Weight:      0.4,
	},
	"ACTION_VERBS": {
		Name:        "ACTION_VERBS",
		Dimension:   DimensionAchievement,
		Description: "At least three professional action verbs",
		Weight:      0.3,
	},
	"RESUME_OVERLAP": {
		Name:        "RESUME_OVERLAP",
		Dimension:   DimensionAchievement,
		Description: "At least three substantive terms shared with the resume",
		Weight:      0.3,
	},

	// Professional tone
	"CLICHE": {
		Name:        "CLICHE",
		Dimension:   DimensionTone,
		Description: "Cliche phrase (deducted per phrase)",
		Weight:      -0.1,
	},
	"PROFESSIONAL_INDICATOR": {
		Name:        "PROFESSIONAL_INDICATOR",
		Dimension:   DimensionTone,
		Description: "Professional phrasing (added per phrase)",
		Weight:      0.05,
	},
	"LONG_SENTENCES": {
		Name:        "LONG_SENTENCES",
		Dimension:   DimensionTone,
		Description: "More than two sentences over 25 words",
		Weight:      -0.1,
	},
}

// Improvements maps each weak dimension to the suggestion fed back into
// logs and retry prompts.
//
//nolint:gochecknoglobals // Scoring configuration constants
var Improvements = map[Dimension]string{
	DimensionFormat:          "Use exactly one greeting, one sign-off with the applicant's full name, and 3-5 substantial paragraphs",
	DimensionPersonalization: "Name the company, the exact job title and the applicant's location",
	DimensionAchievement:     "Integrate at least two quantified achievements from the resume using strong action verbs",
	DimensionTone:            "Remove cliches and keep sentences under 25 words",
	DimensionRelevance:       "Address more of the job description's key requirements directly",
	DimensionPlaceholders:    "Replace every bracketed placeholder with real content",
}

const (
	minQuantified     = 2
	minActionVerbs    = 3
	minSharedTerms    = 3
	minParagraphs     = 3
	maxParagraphs     = 5
	minParagraphChars = 50
	longSentenceWords = 25
	maxLongSentences  = 2
	relevanceFraction = 0.3
	minKeywordLength  = 4
)

//nolint:gochecknoglobals // Immutable phrase tables
var (
	actionVerbs = []string{
		"achieved", "implemented", "contributed to", "led", "developed", "designed",
		"built", "delivered", "improved", "increased", "reduced", "launched",
		"managed", "created", "optimized", "streamlined", "spearheaded",
		"established", "drove", "mentored", "automated", "migrated", "grew",
	}

	cliches = []string{
		"team player", "hard worker", "hard-working", "think outside the box",
		"go-getter", "self-starter", "results-driven", "detail-oriented",
		"synergy", "rockstar", "ninja", "guru", "perfect fit", "passionate about",
		"to whom it may concern", "i am the best candidate", "dynamic individual",
		"wear many hats", "hit the ground running", "go above and beyond",
	}

	professionalIndicators = []string{
		"opportunity to discuss", "look forward", "thank you for your consideration",
		"contribute", "collaborate", "expertise", "experience in", "impact",
		"measurable", "responsible for",
	}

	stopWords = map[string]bool{
		"about": true, "above": true, "after": true, "also": true, "and": true, "are": true,
		"been": true, "being": true, "both": true, "but": true, "can": true, "could": true,
		"each": true, "from": true, "have": true, "having": true, "into": true, "more": true,
		"most": true, "must": true, "other": true, "ours": true, "over": true, "should": true,
		"some": true, "such": true, "than": true, "that": true, "their": true, "them": true,
		"then": true, "there": true, "these": true, "they": true, "this": true, "those": true,
		"through": true, "under": true, "very": true, "were": true, "what": true, "when": true,
		"where": true, "which": true, "while": true, "will": true, "with": true, "within": true,
		"would": true, "your": true, "you'll": true, "we're": true, "able": true, "plus": true,
		"work": true, "team": true, "role": true, "join": true, "looking": true, "strong": true,
		"including": true, "across": true, "using": true, "well": true, "just": true,
	}

	greetingRe = regexp.MustCompile(`(?im)^\s*(?:dear\s+[^\n,]{2,60},|to whom it may concern|hello\b|greetings\b)`)
	closingRe  = regexp.MustCompile(`(?im)^\s*(?:sincerely|best regards|kind regards|warm regards|warmest regards|regards|respectfully|yours truly|yours sincerely|yours faithfully|with gratitude)\s*,?\s*$`)

	quantifiedRe  = regexp.MustCompile(`\d+(?:\.\d+)?%|\$\d[\d,.]*[kKmMbB]?|\d+\+`)
	placeholderRe = regexp.MustCompile(`\[[A-Za-z][^\]\n]{0,60}\]|\{\{?[A-Za-z][^}\n]{0,60}\}?\}`)
	blankLineRe   = regexp.MustCompile(`\n\s*\n`)
	sentenceEndRe = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
	wordRe        = regexp.MustCompile(`[a-z][a-z0-9'+#-]*`)

	actionVerbMatchers = phraseMatchers(actionVerbs)
	clicheMatchers     = phraseMatchers(cliches)
	indicatorMatchers  = phraseMatchers(professionalIndicators)
)

// phraseMatchers compiles whole-word, case-insensitive matchers.
func phraseMatchers(phrases []string) (matchers []*regexp.Regexp) {
	matchers = make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		matchers = append(matchers, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(p)+`\b`))
	}
	return matchers
}

// countPhrases counts how many distinct phrases occur in text.
func countPhrases(text string, matchers []*regexp.Regexp) (count int) {
	for _, m := range matchers {
		if m.MatchString(text) {
			count++
		}
	}
	return count
}

// keywords returns the set of substantive lowercase words in text.
func keywords(text string) (set map[string]bool) {
	set = make(map[string]bool)
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		w = strings.Trim(w, "'-")
		if len(w) < minKeywordLength || stopWords[w] {
			continue
		}
		set[w] = true
	}
	return set
}
