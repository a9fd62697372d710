package llm

import (
	"regexp"
	"strings"

	"github.com/nikogura/letter-tailor/pkg/gencontext"
)

// Fixer cleans an accepted letter body before assembly: it removes the
// greeting and sign-off the model wrote (the assembler renders its own) and
// resolves any bracketed placeholders left in the text.
type Fixer struct {
	framePatterns    []FixPattern
	leftoverPatterns []FixPattern
}

// FixPattern defines a search-and-fix pattern.
type FixPattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// placeholderField binds placeholder spellings to a context value.
type placeholderField struct {
	name    string
	pattern *regexp.Regexp
	value   func(gctx gencontext.Context) string
}

//nolint:gochecknoglobals // Immutable placeholder table
var placeholderFields = []placeholderField{
	{
		name:    "company",
		pattern: regexp.MustCompile(`(?i)[\[{<]\s*(?:company(?:\s+name)?|organi[sz]ation(?:\s+name)?|employer)\s*[\]}>]`),
		value:   func(gctx gencontext.Context) string { return gctx.Company() },
	},
	{
		name:    "position",
		pattern: regexp.MustCompile(`(?i)[\[{<]\s*(?:position(?:\s+title)?|job\s+title|role(?:\s+title)?|title)\s*[\]}>]`),
		value:   func(gctx gencontext.Context) string { return gctx.Position() },
	},
	{
		name:    "name",
		pattern: regexp.MustCompile(`(?i)[\[{<]\s*(?:your\s+(?:full\s+)?name|full\s+name|applicant(?:\s+name)?|name)\s*[\]}>]`),
		value:   func(gctx gencontext.Context) string { return gctx.Contact().FullName },
	},
	{
		name:    "recipient",
		pattern: regexp.MustCompile(`(?i)[\[{<]\s*(?:hiring\s+manager(?:'s)?(?:\s+name)?|recipient(?:\s+name)?)\s*[\]}>]`),
		value:   func(gctx gencontext.Context) string { return "Hiring Manager" },
	},
	{
		name:    "location",
		pattern: regexp.MustCompile(`(?i)[\[{<]\s*(?:your\s+)?(?:location|city)\s*[\]}>]`),
		value:   func(gctx gencontext.Context) string { return gctx.Contact().Location },
	},
	{
		name:    "email",
		pattern: regexp.MustCompile(`(?i)[\[{<]\s*(?:your\s+)?email(?:\s+address)?\s*[\]}>]`),
		value:   func(gctx gencontext.Context) string { return gctx.Contact().Email },
	},
}

// NewFixer creates a new fixer with predefined fix patterns.
func NewFixer() (fixer *Fixer) {
	fixer = &Fixer{
		framePatterns:    buildFramePatterns(),
		leftoverPatterns: buildLeftoverPatterns(),
	}
	return fixer
}

// Clean returns body with the letter frame stripped and placeholders
// resolved against gctx, plus the names of the fixes that fired.
func (f *Fixer) Clean(body string, gctx gencontext.Context) (fixed string, applied []string) {
	fixed = strings.ReplaceAll(body, "\r\n", "\n")
	fixed = strings.TrimSpace(fixed)

	for _, pattern := range f.framePatterns {
		if pattern.Pattern.MatchString(fixed) {
			fixed = pattern.Pattern.ReplaceAllString(fixed, pattern.Replacement)
			applied = append(applied, pattern.Name)
		}
	}

	for _, field := range placeholderFields {
		if field.pattern.MatchString(fixed) {
			fixed = field.pattern.ReplaceAllLiteralString(fixed, field.value(gctx))
			applied = append(applied, "Placeholder - "+field.name)
		}
	}

	for _, pattern := range f.leftoverPatterns {
		if pattern.Pattern.MatchString(fixed) {
			fixed = pattern.Pattern.ReplaceAllString(fixed, pattern.Replacement)
			applied = append(applied, pattern.Name)
		}
	}

	fixed = strings.TrimSpace(fixed)
	return fixed, applied
}

// buildFramePatterns creates patterns for the greeting and sign-off blocks.
// The greeting pattern stops at the salutation's punctuation so a first
// sentence on the same line survives. The sign-off pattern drops everything
// from a bare closing line to the end, whatever the signature lines hold.
func buildFramePatterns() (patterns []FixPattern) {
	patterns = []FixPattern{
		{
			Name:        "Frame - greeting",
			Pattern:     regexp.MustCompile(`(?i)\A\s*(?:dear\s+[^\n,:;.!?]{1,60}|to whom it may concern|(?:hello|hi|greetings)(?:[ \t]+[^\n,:;.!?]{1,40})?)(?:[ \t]*[,:!]|[ \t]*(?:\n|\z))[ \t]*\n?`),
			Replacement: "",
		},
		{
			Name:        "Frame - sign-off",
			Pattern:     regexp.MustCompile(`(?i)(?:\A|\n)[ \t]*(?:sincerely|best regards|kind regards|warm regards|warmest regards|regards|respectfully|yours truly|yours sincerely|yours faithfully|sincerely yours|with gratitude|best)[ \t]*,?[ \t]*(?:\n[^\n]*){0,6}\s*\z`),
			Replacement: "",
		},
	}

	return patterns
}

// buildLeftoverPatterns creates patterns for placeholders no context value
// can resolve.
func buildLeftoverPatterns() (patterns []FixPattern) {
	patterns = []FixPattern{
		{
			Name:        "Placeholder - unresolved",
			Pattern:     regexp.MustCompile(`[\[{]\s*[A-Za-z][A-Za-z' ]{0,40}\s*[\]}]`),
			Replacement: "",
		},
		{
			Name:        "Spacing - doubled spaces",
			Pattern:     regexp.MustCompile(`[ \t]{2,}`),
			Replacement: " ",
		},
		{
			Name:        "Spacing - space before punctuation",
			Pattern:     regexp.MustCompile(`[ \t]+([,.;:!?])`),
			Replacement: "$1",
		},
	}

	return patterns
}
