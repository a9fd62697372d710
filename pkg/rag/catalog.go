// Package rag holds the curated cover-letter examples used for few-shot
// prompting, and the heuristics that pick the examples closest to a request.
package rag

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/nikogura/letter-tailor/pkg/gencontext"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// loadCatalog parses the embedded catalog exactly once.
//
//nolint:gochecknoglobals // Read-only, lazily initialized catalog
var loadCatalog = sync.OnceValues(func() (library *Library, err error) {
	library, err = ParseCatalog(catalogYAML)
	return library, err
})

// Default returns the library backed by the embedded catalog. The returned
// library is shared and must be treated as read-only.
func Default() (library *Library, err error) {
	library, err = loadCatalog()
	if err != nil {
		err = errors.Wrap(err, "failed to load embedded example catalog")
		return library, err
	}
	return library, err
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (library *Library, err error) {
	var file catalogFile
	err = yaml.Unmarshal(data, &file)
	if err != nil {
		err = errors.Wrap(err, "failed to parse catalog YAML")
		return library, err
	}

	seen := make(map[string]bool, len(file.Examples))
	for i, ex := range file.Examples {
		err = validateExample(ex)
		if err != nil {
			err = errors.Wrapf(err, "example at index %d", i)
			return library, err
		}
		if seen[ex.ID] {
			err = errors.Errorf("duplicate example id %q", ex.ID)
			return library, err
		}
		seen[ex.ID] = true
		file.Examples[i].OutputText = strings.TrimSpace(ex.OutputText)
	}

	library = NewLibrary(file.Examples)
	return library, err
}

func validateExample(ex Example) (err error) {
	if ex.ID == "" {
		err = errors.New("missing id")
		return err
	}

	switch ex.Industry {
	case IndustryTech, IndustryFinance, IndustryCreative, IndustryGeneral:
	default:
		err = errors.Errorf("example %s: unknown industry %q", ex.ID, ex.Industry)
		return err
	}

	switch ex.ExperienceLevel {
	case LevelEntry, LevelMid, LevelSenior:
	default:
		err = errors.Errorf("example %s: unknown experience level %q", ex.ID, ex.ExperienceLevel)
		return err
	}

	if _, ok := gencontext.ParseTone(string(ex.Tone)); !ok {
		err = errors.Errorf("example %s: unknown tone %q", ex.ID, ex.Tone)
		return err
	}

	if ex.QualityScore < 0 || ex.QualityScore > 1 {
		err = errors.Errorf("example %s: quality score %.2f out of range", ex.ID, ex.QualityScore)
		return err
	}

	if strings.TrimSpace(ex.OutputText) == "" {
		err = errors.Errorf("example %s: empty output text", ex.ID)
		return err
	}

	return err
}
