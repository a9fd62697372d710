package rag

import (
	"sort"

	"github.com/nikogura/letter-tailor/pkg/gencontext"
)

// Library is an immutable collection of examples with pure lookup functions.
type Library struct {
	examples []Example
}

// NewLibrary creates a library over a private copy of examples.
func NewLibrary(examples []Example) (library *Library) {
	library = &Library{
		examples: append([]Example(nil), examples...),
	}
	return library
}

// All returns a copy of every example in catalog order.
func (l *Library) All() (examples []Example) {
	examples = append([]Example(nil), l.examples...)
	return examples
}

// Len is the catalog size.
func (l *Library) Len() (n int) {
	n = len(l.examples)
	return n
}

// Select returns up to count examples for the given profile.
//
// Exact matches on industry, level and tone come first. When there are fewer
// than count of them, the pool widens to examples matching any one dimension
// (general examples count as an industry match). The pool is ordered by
// quality. When it holds more than count examples, attempt k (1-based) reads
// a rotating window starting at ((k-1)*count) mod len(pool), so successive
// attempts see different exemplars without randomness.
func (l *Library) Select(industry Industry, level Level, tone gencontext.Tone, count, attempt int) (selected []Example) {
	if count <= 0 || len(l.examples) == 0 {
		return selected
	}
	if attempt < 1 {
		attempt = 1
	}

	pool := l.candidatePool(industry, level, tone, count)

	if len(pool) <= count {
		selected = pool
		return selected
	}

	start := ((attempt - 1) * count) % len(pool)
	selected = make([]Example, 0, count)
	for i := 0; i < count; i++ {
		selected = append(selected, pool[(start+i)%len(pool)])
	}

	return selected
}

// candidatePool builds the quality-ordered pool used by Select.
func (l *Library) candidatePool(industry Industry, level Level, tone gencontext.Tone, count int) (pool []Example) {
	picked := make(map[string]bool)

	for _, ex := range l.examples {
		if ex.Industry == industry && ex.ExperienceLevel == level && ex.Tone == tone {
			pool = append(pool, ex)
			picked[ex.ID] = true
		}
	}

	if len(pool) < count {
		for _, ex := range l.examples {
			if picked[ex.ID] {
				continue
			}
			if matchesAny(ex, industry, level, tone) {
				pool = append(pool, ex)
				picked[ex.ID] = true
			}
		}
	}

	// Nothing related at all; fall back to the whole catalog.
	if len(pool) == 0 {
		pool = append(pool, l.examples...)
	}

	sort.SliceStable(pool, func(i, j int) (less bool) {
		if pool[i].QualityScore != pool[j].QualityScore {
			less = pool[i].QualityScore > pool[j].QualityScore
			return less
		}
		less = pool[i].ID < pool[j].ID
		return less
	})

	return pool
}

func matchesAny(ex Example, industry Industry, level Level, tone gencontext.Tone) (match bool) {
	match = ex.Industry == industry ||
		ex.Industry == IndustryGeneral ||
		ex.ExperienceLevel == level ||
		ex.Tone == tone
	return match
}

// IDs lists the ids of examples, in order.
func IDs(examples []Example) (ids []string) {
	ids = make([]string, 0, len(examples))
	for _, ex := range examples {
		ids = append(ids, ex.ID)
	}
	return ids
}
