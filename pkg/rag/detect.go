package rag

import (
	"regexp"
	"strconv"
	"strings"
)

// industryBucket pairs an industry with the keywords that vote for it.
type industryBucket struct {
	industry Industry
	keywords []string
}

// industryBuckets is in tie-break priority order.
//
//nolint:gochecknoglobals // Immutable keyword tables
var industryBuckets = []industryBucket{
	{
		industry: IndustryTech,
		keywords: []string{
			"software", "engineer", "engineering", "developer", "cloud", "saas", "api",
			"kubernetes", "backend", "frontend", "devops", "machine learning", "golang",
			"python", "javascript", "infrastructure", "microservices", "database",
		},
	},
	{
		industry: IndustryFinance,
		keywords: []string{
			"finance", "financial", "bank", "banking", "investment", "accounting",
			"fintech", "trading", "audit", "portfolio", "underwriting", "cpa",
			"treasury", "equity", "forecasting", "ledger",
		},
	},
	{
		industry: IndustryCreative,
		keywords: []string{
			"design", "designer", "creative", "brand", "branding", "copywriting",
			"copywriter", "illustration", "video", "campaign", "storytelling",
			"art director", "ux", "content", "editorial", "photography",
		},
	},
}

//nolint:gochecknoglobals // Immutable keyword tables
var (
	seniorKeywords = []string{
		"senior", "sr.", "principal", "staff engineer", "director", "head of", "vp",
		"vice president", "chief", "led a team", "managed a team", "team lead", "tech lead",
	}
	entryKeywords = []string{
		"intern", "internship", "entry level", "entry-level", "junior", "graduate",
		"new grad", "bootcamp", "student",
	}

	yearsRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:years?|yrs?)\b`)
)

const (
	seniorYears = 7
	entryYears  = 2
)

// DetectIndustry classifies a job description by keyword voting. The bucket
// with the most hits wins; ties go to the earlier bucket. No hits means
// IndustryGeneral.
func DetectIndustry(jobDescription string) (industry Industry) {
	text := " " + strings.ToLower(jobDescription) + " "

	industry = IndustryGeneral
	best := 0
	for _, bucket := range industryBuckets {
		hits := 0
		for _, kw := range bucket.keywords {
			hits += countWord(text, kw)
		}
		if hits > best {
			best = hits
			industry = bucket.industry
		}
	}

	return industry
}

// DetectLevel classifies a résumé as senior (7+ years or leadership wording),
// entry (2 or fewer years or entry wording) or mid.
func DetectLevel(resume string) (level Level) {
	text := " " + strings.ToLower(resume) + " "
	years, found := MaxYears(resume)

	if (found && years >= seniorYears) || containsAnyWord(text, seniorKeywords) {
		level = LevelSenior
		return level
	}

	if (found && years <= entryYears) || containsAnyWord(text, entryKeywords) {
		level = LevelEntry
		return level
	}

	level = LevelMid
	return level
}

// MaxYears returns the largest "N years" figure in text.
func MaxYears(text string) (years int, found bool) {
	for _, m := range yearsRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if !found || n > years {
			years = n
			found = true
		}
	}
	return years, found
}

func containsAnyWord(text string, words []string) (found bool) {
	for _, w := range words {
		if countWord(text, w) > 0 {
			found = true
			return found
		}
	}
	return found
}

// countWord counts occurrences of phrase in text bounded by non-letters.
// text must already be lowercased.
func countWord(text, phrase string) (count int) {
	offset := 0
	for {
		idx := strings.Index(text[offset:], phrase)
		if idx < 0 {
			return count
		}
		start := offset + idx
		end := start + len(phrase)
		if isBoundary(text, start-1) && isBoundary(text, end) {
			count++
		}
		offset = start + 1
	}
}

func isBoundary(text string, i int) (boundary bool) {
	if i < 0 || i >= len(text) {
		boundary = true
		return boundary
	}
	c := text[i]
	boundary = !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9')
	return boundary
}
