// Package extract pulls company, position, requirement and achievement facts
// out of free-form job-description and résumé text.
//
// Extraction is heuristic and never fails: a miss yields "" or nil and the
// caller decides on a fallback.
package extract

import (
	"sort"
	"strings"
)

const (
	// DefaultScanLines is how many non-empty leading lines are searched for company and position.
	DefaultScanLines = 15
	// DefaultMaxItems caps requirement and achievement lists.
	DefaultMaxItems = 5

	minCandidateLen = 2
	maxCandidateLen = 60
)

// Options tunes an Extractor. Zero values select the defaults.
type Options struct {
	ScanLines int
	MaxItems  int
}

// Extractor applies the heuristics with a fixed set of options. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	scanLines int
	maxItems  int
}

// New creates an Extractor.
func New(opts Options) (e *Extractor) {
	e = &Extractor{
		scanLines: opts.ScanLines,
		maxItems:  opts.MaxItems,
	}
	if e.scanLines <= 0 {
		e.scanLines = DefaultScanLines
	}
	if e.maxItems <= 0 {
		e.maxItems = DefaultMaxItems
	}
	return e
}

//nolint:gochecknoglobals // Stateless default instance
var defaultExtractor = New(Options{})

// CompanyName extracts the hiring company using the default options.
func CompanyName(jd string) (company string) {
	company = defaultExtractor.CompanyName(jd)
	return company
}

// PositionTitle extracts the advertised position using the default options.
func PositionTitle(jd string) (position string) {
	position = defaultExtractor.PositionTitle(jd)
	return position
}

// Requirements extracts ranked requirement phrases using the default options.
func Requirements(jd string) (requirements []string) {
	requirements = defaultExtractor.Requirements(jd)
	return requirements
}

// Achievements extracts ranked achievement phrases using the default options.
func Achievements(resume string) (achievements []string) {
	achievements = defaultExtractor.Achievements(resume)
	return achievements
}

// CompanyName returns the first sane candidate produced by the company rules, or "".
func (e *Extractor) CompanyName(jd string) (company string) {
	company = e.firstMatch(jd, companyRules, companyBlacklist)
	return company
}

// PositionTitle returns the first sane candidate produced by the position rules, or "".
func (e *Extractor) PositionTitle(jd string) (position string) {
	position = e.firstMatch(jd, positionRules, positionBlacklist)
	return position
}

// Requirements returns up to MaxItems requirement phrases, most relevant first.
func (e *Extractor) Requirements(jd string) (requirements []string) {
	lines := splitLines(jd)

	items := sectionItems(lines, requirementsHeaderRe.MatchString)
	if len(items) == 0 {
		items = frequentTokens(jd)
	}

	requirements = Dedupe(items, e.maxItems)
	return requirements
}

// Achievements returns up to MaxItems achievement phrases. Quantified phrases rank first.
func (e *Extractor) Achievements(resume string) (achievements []string) {
	lines := splitLines(resume)

	items := sectionItems(lines, achievementsHeaderRe.MatchString)
	if len(items) == 0 {
		items = allBullets(lines)
	}

	if len(items) == 0 {
		items = frequentTokens(resume)
	} else {
		sort.SliceStable(items, func(i, j int) (less bool) {
			less = hasDigit(items[i]) && !hasDigit(items[j])
			return less
		})
	}

	achievements = Dedupe(items, e.maxItems)
	return achievements
}

// firstMatch evaluates rules in priority order over the scan window and
// stops at the first candidate that passes the sanity checks.
func (e *Extractor) firstMatch(text string, rules []rule, blacklist map[string]bool) (result string) {
	window := nonEmptyLines(text, e.scanLines)

	for _, r := range rules {
		for i, line := range window {
			candidate, ok := r.match(line, i)
			if !ok {
				continue
			}
			candidate = cleanCandidate(candidate)
			if sane(candidate, blacklist) {
				result = candidate
				return result
			}
		}
	}

	return result
}

// sane enforces the length bounds and rejects generic words.
func sane(candidate string, blacklist map[string]bool) (ok bool) {
	n := len([]rune(candidate))
	if n < minCandidateLen || n > maxCandidateLen {
		return ok
	}

	for _, word := range strings.Fields(strings.ToLower(candidate)) {
		if blacklist[strings.Trim(word, ".,;:!?()")] {
			return ok
		}
	}

	ok = true
	return ok
}

//nolint:gochecknoglobals // Immutable lookup table
var keepTrailingDot = []string{"Inc.", "Co.", "Ltd.", "Corp."}

// cleanCandidate collapses whitespace and trims surrounding punctuation.
func cleanCandidate(s string) (cleaned string) {
	cleaned = CollapseSpace(s)
	cleaned = strings.Trim(cleaned, " ,;:!|-–\"'")

	if strings.HasSuffix(cleaned, ".") {
		keep := false
		for _, suffix := range keepTrailingDot {
			if strings.HasSuffix(cleaned, suffix) {
				keep = true
				break
			}
		}
		if !keep {
			cleaned = strings.TrimRight(cleaned, ".")
		}
	}

	return cleaned
}

// sectionItems returns the bullet or long lines following the first line
// accepted by isHeader, up to the next section header.
func sectionItems(lines []string, isHeader func(string) bool) (items []string) {
	start := -1
	for i, line := range lines {
		if isHeader(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return items
	}

	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := bulletRe.FindStringSubmatch(trimmed); m != nil {
			items = append(items, cleanItem(m[1]))
			continue
		}

		if isSectionBoundary(trimmed) {
			break
		}

		if len(trimmed) >= minLongLine {
			items = append(items, cleanItem(trimmed))
		}
	}

	return items
}

// isSectionBoundary reports whether a non-bullet line starts a new section.
func isSectionBoundary(line string) (boundary bool) {
	if sectionHeaderRe.MatchString(line) {
		boundary = true
		return boundary
	}
	if len(line) <= 40 && strings.HasSuffix(line, ":") {
		boundary = true
		return boundary
	}
	return boundary
}

func allBullets(lines []string) (items []string) {
	for _, line := range lines {
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			items = append(items, cleanItem(m[1]))
		}
	}
	return items
}

// frequentTokens ranks capitalized or number-bearing tokens by frequency,
// breaking ties by first occurrence.
func frequentTokens(text string) (tokens []string) {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	display := make(map[string]string)

	for i, tok := range tokenRe.FindAllString(text, -1) {
		tok = strings.TrimRight(tok, ".-")
		if len(tok) < 2 || tokenStopWords[strings.ToLower(tok)] {
			continue
		}
		first := []rune(tok)[0]
		if !(first >= 'A' && first <= 'Z') && !hasDigit(tok) {
			continue
		}

		key := strings.ToLower(tok)
		if _, seen := counts[key]; !seen {
			firstSeen[key] = i
			display[key] = tok
		}
		counts[key]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) (less bool) {
		if counts[keys[i]] != counts[keys[j]] {
			less = counts[keys[i]] > counts[keys[j]]
			return less
		}
		less = firstSeen[keys[i]] < firstSeen[keys[j]]
		return less
	})

	for _, k := range keys {
		tokens = append(tokens, display[k])
	}
	return tokens
}

func cleanItem(s string) (cleaned string) {
	cleaned = CollapseSpace(s)
	cleaned = strings.TrimRight(cleaned, " ;,.")
	return cleaned
}

// Dedupe removes case-insensitive duplicates and empty entries, keeping the
// first spelling, and caps the result at max entries (max <= 0 means no cap).
func Dedupe(items []string, max int) (result []string) {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = CollapseSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, item)
		if max > 0 && len(result) == max {
			break
		}
	}
	return result
}

// CollapseSpace trims s and replaces every whitespace run with one space.
func CollapseSpace(s string) (collapsed string) {
	collapsed = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
	return collapsed
}

func splitLines(text string) (lines []string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines = strings.Split(text, "\n")
	return lines
}

func nonEmptyLines(text string, limit int) (lines []string) {
	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
		if len(lines) == limit {
			break
		}
	}
	return lines
}

func hasDigit(s string) (found bool) {
	found = strings.ContainsAny(s, "0123456789")
	return found
}
