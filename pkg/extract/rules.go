package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// rule is a named heuristic evaluated against one line of text. Rules are
// kept in priority order; the first rule producing a sane candidate wins.
type rule struct {
	name  string
	match func(line string, index int) (candidate string, ok bool)
}

// fromRegexp builds a rule whose candidate is the first capture group of re.
func fromRegexp(name string, re *regexp.Regexp) (r rule) {
	r = rule{
		name: name,
		match: func(line string, _ int) (candidate string, ok bool) {
			m := re.FindStringSubmatch(line)
			if len(m) < 2 {
				return candidate, ok
			}
			candidate = m[1]
			ok = true
			return candidate, ok
		},
	}
	return r
}

const (
	companyWord = `[A-Z][A-Za-z0-9&'.\-]*`
	companyName = companyWord + `(?:\s+` + companyWord + `){0,3}`
	roleNoun    = `(?:engineer|developer|manager|designer|analyst|scientist|architect|specialist|consultant|director|coordinator|administrator|accountant|writer|marketer|recruiter|producer|associate|lead)`
)

//nolint:gochecknoglobals // Immutable rule tables
var companyRules = []rule{
	fromRegexp("label", regexp.MustCompile(`(?i)^\s*(?:company|employer|organi[sz]ation)(?:\s+name)?(?:\s*:|\s+[\-–])\s*(.+?)\s*$`)),
	fromRegexp("at", regexp.MustCompile(`\bat\s+(`+companyName+`)`)),
	fromRegexp("join", regexp.MustCompile(`\b[Jj]oin\s+(?:us\s+at\s+)?(`+companyName+`)`)),
	fromRegexp("legal-suffix", regexp.MustCompile(`\b(`+companyWord+`(?:\s+`+companyWord+`){0,2}\s+(?:Inc\.?|LLC|Ltd\.?|Corp\.?|Corporation|Technologies|Labs|Group|GmbH|Co\.))`)),
	fromRegexp("is-hiring", regexp.MustCompile(`\b(`+companyName+`)\s+is\s+(?:hiring|looking|seeking|searching)\b`)),
	fromRegexp("about", regexp.MustCompile(`^\s*About\s+(`+companyName+`)\s*:?\s*$`)),
}

//nolint:gochecknoglobals // Immutable rule tables
var positionRules = []rule{
	fromRegexp("label", regexp.MustCompile(`(?i)^\s*(?:position|position\s+title|job\s*title|title|role)(?:\s*:|\s+[\-–])\s*(.+?)\s*$`)),
	fromRegexp("hiring-a", regexp.MustCompile(`(?i)\b(?:hiring|seeking|looking\s+for)\s+(?:an?\s+)?((?:(?:senior|junior|lead|staff|principal|sr\.?|jr\.?)\s+)?(?:[a-z/&\-]+\s+){0,3}?`+roleNoun+`)\b`)),
	fromRegexp("role-line", regexp.MustCompile(`(?i)^\s*([a-z][a-z/&\- ]{0,50}?\b`+roleNoun+`s?)\b(?:\s*[(\-–|,].*)?$`)),
	{name: "title-case-first-line", match: titleCaseFirstLine},
}

// titleCaseFirstLine treats a short, fully title-cased first line as the
// posting's headline.
func titleCaseFirstLine(line string, index int) (candidate string, ok bool) {
	if index != 0 || strings.ContainsAny(line, ":.!?") {
		return candidate, ok
	}

	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 6 {
		return candidate, ok
	}

	for _, w := range words {
		if connectorWords[strings.ToLower(w)] || w == "&" || w == "-" {
			continue
		}
		first := []rune(w)[0]
		if !unicode.IsUpper(first) {
			return candidate, ok
		}
	}

	candidate = line
	ok = true
	return candidate, ok
}

//nolint:gochecknoglobals // Immutable lookup table
var connectorWords = map[string]bool{
	"of": true, "and": true, "for": true, "the": true, "in": true, "to": true,
}

//nolint:gochecknoglobals // Immutable lookup tables
var (
	companyBlacklist = map[string]bool{
		"position": true, "company": true, "role": true, "job": true, "team": true,
		"description": true, "opportunity": true, "candidate": true, "we": true,
		"our": true, "you": true, "your": true, "us": true, "requirements": true,
	}
	positionBlacklist = map[string]bool{
		"position": true, "company": true, "description": true, "about": true,
		"we": true, "our": true, "you": true, "your": true, "apply": true, "benefits": true,
	}
)

//nolint:gochecknoglobals // Immutable regexps
var (
	bulletRe = regexp.MustCompile(`^\s*(?:[-*•●▪◦‣–]|\d+[.)])\s+(.+)$`)

	// Sentence-like headers such as "you have" need a trailing colon unless
	// they stand alone on the line.
	requirementsHeaderRe = regexp.MustCompile(`(?i)^\s*(?:#+\s*)?(?:(?:minimum\s+|basic\s+|required\s+)?(?:requirements|qualifications|required skills|what you(?:'|’)?ll need|what we(?:'|’)?re looking for|must[- ]haves?|skills (?:and|&) experience)\b[^.]{0,30}?:?|(?:what you bring|you have)(?:\s+[^.:]{0,20})?:|what you bring|you have)\s*$`)
	achievementsHeaderRe = regexp.MustCompile(`(?i)^\s*(?:#+\s*)?(?:key\s+|selected\s+|notable\s+)?(?:achievements|accomplishments|highlights|impact)\b[^.]{0,20}?:?\s*$`)

	sectionHeaderRe = regexp.MustCompile(`(?i)^\s*(?:#+\s*)?(?:responsibilities|what you(?:'|’)?ll do|benefits|perks|about|what we offer|nice to have|preferred|bonus|how to apply|compensation|salary|location|experience|work experience|professional experience|education|skills|projects|certifications|summary|languages|interests|references)\b[^.]{0,25}$`)

	tokenRe = regexp.MustCompile(`[A-Za-z0-9$][A-Za-z0-9+#.%$\-]*`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// minLongLine is the length at which a non-bullet line inside a section is
// still treated as an item.
const minLongLine = 40

//nolint:gochecknoglobals // Immutable lookup table
var tokenStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "you": true, "our": true,
	"we": true, "are": true, "will": true, "this": true, "that": true, "a": true,
	"an": true, "in": true, "of": true, "to": true, "as": true, "is": true, "on": true,
	"at": true, "be": true, "or": true, "by": true, "from": true, "your": true, "i": true,
	"my": true, "it": true, "if": true, "all": true, "who": true, "have": true,
}
