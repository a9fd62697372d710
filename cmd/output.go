package cmd

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxPositionWords caps how much of a job title reaches a filename.
const maxPositionWords = 4

//nolint:gochecknoglobals // Immutable regexps
var (
	legalSuffixRe = regexp.MustCompile(`(?i)[\s,]+(?:llc|inc\.?|incorporated|corporation|corp\.?|limited|ltd\.?|co\.?|gmbh|plc)$`)
	nonSlugRe     = regexp.MustCompile(`[^a-z0-9]+`)
)

// companyOutputDir creates and returns <base>/<company-slug>.
func companyOutputDir(base, company string) (dir string, err error) {
	dir = filepath.Join(base, slugify(company))
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", dir)
		return dir, err
	}
	return dir, err
}

// buildFilenames names the letter, job description and quality report as
// <name>-<company>-<position>[-<job id>] under outDir.
func buildFilenames(outDir, name, company, position, jobID string) (filenames outputFilenames) {
	words := strings.Fields(position)
	if len(words) > maxPositionWords {
		words = words[:maxPositionWords]
	}

	parts := []string{slugify(name), slugify(company), slugify(strings.Join(words, " "))}
	if jobID != "" {
		parts = append(parts, slugify(jobID))
	}
	base := strings.Join(parts, "-")

	filenames = outputFilenames{
		letterTXT:  filepath.Join(outDir, base+"-cover.txt"),
		jdTXT:      filepath.Join(outDir, base+"-jd.txt"),
		reportJSON: filepath.Join(outDir, base+"-cover.quality.json"),
	}
	return filenames
}

// slugify lowercases name, drops a trailing legal suffix and accents, and
// joins the remaining alphanumeric runs with hyphens.
func slugify(name string) (slug string) {
	slug = strings.TrimSpace(name)
	slug = legalSuffixRe.ReplaceAllString(slug, "")

	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), slug)
	if err == nil {
		slug = folded
	}

	slug = nonSlugRe.ReplaceAllString(strings.ToLower(slug), "-")
	slug = strings.Trim(slug, "-")
	return slug
}
