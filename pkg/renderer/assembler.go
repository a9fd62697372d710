// Package renderer produces the final plain-text cover letter and writes it
// to disk for downstream document rendering.
package renderer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nikogura/letter-tailor/pkg/extract"
	"github.com/nikogura/letter-tailor/pkg/gencontext"
	"golang.org/x/text/language"
)

const (
	// Salutation opens every assembled letter.
	Salutation = "Dear Hiring Manager,"
	// Closing precedes the applicant's name.
	Closing = "Sincerely,"
)

// dateStyle formats a date for one supported locale.
type dateStyle func(t time.Time) string

//nolint:gochecknoglobals // Immutable locale tables
var (
	supportedLocales = []language.Tag{
		language.AmericanEnglish, // default
		language.BritishEnglish,
		language.Spanish,
		language.French,
		language.German,
		language.Portuguese,
	}

	localeMatcher = language.NewMatcher(supportedLocales)

	spanishMonths    = []string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}
	frenchMonths     = []string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"}
	germanMonths     = []string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"}
	portugueseMonths = []string{"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"}

	dateStyles = []dateStyle{
		func(t time.Time) string { return t.Format("January 2, 2006") },
		func(t time.Time) string { return t.Format("2 January 2006") },
		func(t time.Time) string {
			return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
		},
		func(t time.Time) string { return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year()) },
		func(t time.Time) string { return fmt.Sprintf("%d. %s %d", t.Day(), germanMonths[t.Month()-1], t.Year()) },
		func(t time.Time) string {
			return fmt.Sprintf("%d de %s de %d", t.Day(), portugueseMonths[t.Month()-1], t.Year())
		},
	}

	blankLineRe   = regexp.MustCompile(`\n\s*\n`)
	terminalEndRe = regexp.MustCompile(`[.!?…]["'”’)\]]*$`)
)

// FormatDate renders an RFC 3339 date for locale. Unknown or empty locales
// fall back to US English; an unparseable date is returned unchanged.
func FormatDate(dateISO, locale string) (formatted string) {
	t, err := time.Parse(time.RFC3339, dateISO)
	if err != nil {
		formatted = dateISO
		return formatted
	}

	idx := 0
	if locale != "" {
		tag, parseErr := language.Parse(locale)
		if parseErr == nil {
			_, idx, _ = localeMatcher.Match(tag)
		}
	}

	formatted = dateStyles[idx](t.UTC())
	return formatted
}

// NormalizeBody splits body into paragraphs on blank lines, collapses the
// whitespace inside each one and makes sure each ends in terminal
// punctuation.
func NormalizeBody(body string) (paragraphs []string) {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	for _, block := range blankLineRe.Split(body, -1) {
		p := extract.CollapseSpace(block)
		if p == "" {
			continue
		}
		if !terminalEndRe.MatchString(p) {
			p = strings.TrimRight(p, ",;:-–— ") + "."
		}
		paragraphs = append(paragraphs, p)
	}

	return paragraphs
}

// Assemble renders the final letter: contact header, date, company,
// subject line, salutation, body, closing and name, separated by blank
// lines. Output is a pure function of its inputs.
func Assemble(gctx gencontext.Context, body string) (letter string) {
	contact := gctx.Contact()

	header := []string{contact.FullName}
	if line := joinNonEmpty(contact.Email, contact.Phone, contact.Location); line != "" {
		header = append(header, line)
	}
	if line := joinNonEmpty(contact.LinkedIn, contact.Portfolio); line != "" {
		header = append(header, line)
	}

	blocks := []string{
		strings.Join(header, "\n"),
		FormatDate(gctx.DateISO(), gctx.Locale()),
		gctx.Company(),
		fmt.Sprintf("Re: Application for %s", gctx.Position()),
		Salutation,
	}

	blocks = append(blocks, NormalizeBody(body)...)
	blocks = append(blocks, Closing, contact.FullName)

	letter = strings.Join(blocks, "\n\n")
	return letter
}

func joinNonEmpty(fields ...string) (joined string) {
	var kept []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			kept = append(kept, f)
		}
	}
	joined = strings.Join(kept, " | ")
	return joined
}
