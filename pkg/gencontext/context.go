// Package gencontext builds the immutable GenerationContext shared by prompt
// building and letter assembly.
package gencontext

import (
	"strings"
	"time"

	"github.com/nikogura/letter-tailor/pkg/extract"
	"github.com/nikogura/letter-tailor/pkg/profile"
	"golang.org/x/text/unicode/norm"
)

const (
	// FallbackCompany is used when no company can be extracted.
	FallbackCompany = "Company Name"
	// FallbackPosition is used when no position can be extracted.
	FallbackPosition = "Position"
	// MaxFacts caps the requirement and achievement lists carried in a context.
	MaxFacts = 3
)

// Tone is the requested register of the letter.
type Tone string

// Supported tones.
const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneDirect       Tone = "direct"
)

// ParseTone maps a user-supplied string to a Tone. Unknown or empty input
// yields ToneProfessional and ok=false.
func ParseTone(s string) (tone Tone, ok bool) {
	switch Tone(strings.ToLower(strings.TrimSpace(s))) {
	case ToneProfessional:
		tone, ok = ToneProfessional, true
	case ToneFriendly:
		tone, ok = ToneFriendly, true
	case ToneDirect:
		tone, ok = ToneDirect, true
	default:
		tone = ToneProfessional
	}
	return tone, ok
}

// Context is the normalized set of facts for one generation request. It is
// built once and only read afterwards; accessors hand out copies.
type Context struct {
	company      string
	position     string
	requirements []string
	achievements []string
	contact      profile.Contact
	tone         Tone
	dateISO      string
	locale       string
}

// Company is never empty.
func (c Context) Company() (company string) {
	company = c.company
	return company
}

// Position is never empty.
func (c Context) Position() (position string) {
	position = c.position
	return position
}

// Requirements returns at most MaxFacts requirement phrases.
func (c Context) Requirements() (requirements []string) {
	requirements = append([]string(nil), c.requirements...)
	return requirements
}

// Achievements returns at most MaxFacts achievement phrases.
func (c Context) Achievements() (achievements []string) {
	achievements = append([]string(nil), c.achievements...)
	return achievements
}

// Contact returns the normalized contact record.
func (c Context) Contact() (contact profile.Contact) {
	contact = c.contact
	return contact
}

// Tone returns the letter tone.
func (c Context) Tone() (tone Tone) {
	tone = c.tone
	return tone
}

// DateISO is the RFC 3339 UTC instant the context was built.
func (c Context) DateISO() (date string) {
	date = c.dateISO
	return date
}

// Locale is the optional BCP 47 locale used for date rendering.
func (c Context) Locale() (locale string) {
	locale = c.locale
	return locale
}

// Builder builds contexts. Now is the clock; nil means time.Now.
type Builder struct {
	Now func() time.Time
}

// Build creates a Context using the wall clock.
func Build(resume, jobDescription string, contact profile.Contact, toneOverride, locale string) (ctx Context) {
	ctx = Builder{}.Build(resume, jobDescription, contact, toneOverride, locale)
	return ctx
}

// Build extracts and normalizes the facts. It performs no I/O; the only
// input besides its arguments is the clock.
func (b Builder) Build(resume, jobDescription string, contact profile.Contact, toneOverride, locale string) (ctx Context) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	resume = normalizeText(resume)
	jobDescription = normalizeText(jobDescription)

	ex := extract.New(extract.Options{MaxItems: MaxFacts})

	company := normalizeLine(ex.CompanyName(jobDescription))
	if company == "" {
		company = FallbackCompany
	}

	position := normalizeLine(ex.PositionTitle(jobDescription))
	if position == "" {
		position = FallbackPosition
	}

	tone, _ := ParseTone(toneOverride)

	ctx = Context{
		company:      company,
		position:     position,
		requirements: normalizeList(ex.Requirements(jobDescription)),
		achievements: normalizeList(ex.Achievements(resume)),
		contact:      normalizeContact(contact),
		tone:         tone,
		dateISO:      now().UTC().Format(time.RFC3339),
		locale:       strings.TrimSpace(locale),
	}

	return ctx
}

// normalizeText applies NFC and unifies line endings, keeping line structure
// intact for the extractor.
func normalizeText(s string) (normalized string) {
	normalized = norm.NFC.String(s)
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	return normalized
}

func normalizeLine(s string) (normalized string) {
	normalized = extract.CollapseSpace(norm.NFC.String(s))
	return normalized
}

func normalizeList(items []string) (normalized []string) {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		cleaned = append(cleaned, normalizeLine(item))
	}
	normalized = extract.Dedupe(cleaned, MaxFacts)
	return normalized
}

func normalizeContact(c profile.Contact) (normalized profile.Contact) {
	normalized = profile.Contact{
		FullName:          normalizeLine(c.FullName),
		Email:             strings.TrimSpace(c.Email),
		Phone:             normalizeLine(c.Phone),
		Location:          normalizeLine(c.Location),
		LinkedIn:          strings.TrimSpace(c.LinkedIn),
		Portfolio:         strings.TrimSpace(c.Portfolio),
		ProfessionalTitle: normalizeLine(c.ProfessionalTitle),
	}
	return normalized
}

// New assembles a Context from facts the caller already holds, applying the
// same sentinel, cap and normalization rules as Build.
func New(company, position string, requirements, achievements []string, contact profile.Contact, tone Tone, date time.Time, locale string) (ctx Context) {
	company = normalizeLine(company)
	if company == "" {
		company = FallbackCompany
	}
	position = normalizeLine(position)
	if position == "" {
		position = FallbackPosition
	}
	if tone == "" {
		tone = ToneProfessional
	}

	ctx = Context{
		company:      company,
		position:     position,
		requirements: normalizeList(requirements),
		achievements: normalizeList(achievements),
		contact:      normalizeContact(contact),
		tone:         tone,
		dateISO:      date.UTC().Format(time.RFC3339),
		locale:       strings.TrimSpace(locale),
	}
	return ctx
}
