package rag

import (
	"strings"
	"testing"

	"github.com/nikogura/letter-tailor/pkg/gencontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func example(id string, industry Industry, level Level, tone gencontext.Tone, score float64) (ex Example) {
	ex = Example{
		ID:              id,
		Industry:        industry,
		ExperienceLevel: level,
		Tone:            tone,
		OutputText:      "Dear Hiring Manager,\n\nBody.\n\nSincerely,\nA",
		QualityScore:    score,
	}
	return ex
}

func TestDefaultCatalog(t *testing.T) {
	library, err := Default()
	require.NoError(t, err)
	require.NotNil(t, library)

	all := library.All()
	assert.GreaterOrEqual(t, len(all), 12)

	seen := make(map[string]bool)
	industries := make(map[Industry]bool)
	for _, ex := range all {
		assert.False(t, seen[ex.ID], "duplicate id %s", ex.ID)
		seen[ex.ID] = true
		industries[ex.Industry] = true

		assert.True(t, strings.HasPrefix(ex.OutputText, "Dear Hiring Manager,"), ex.ID)
		assert.NotContains(t, ex.OutputText, "[", ex.ID)
		assert.NotEmpty(t, ex.InputDescription, ex.ID)
	}

	assert.Len(t, industries, 4)

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, library, again)
}

func TestAllReturnsCopy(t *testing.T) {
	library := NewLibrary([]Example{example("a", IndustryTech, LevelMid, gencontext.ToneProfessional, 0.5)})

	all := library.All()
	all[0].ID = "mutated"

	assert.Equal(t, "a", library.All()[0].ID)
}

func TestSelectExactMatchesFirst(t *testing.T) {
	library := NewLibrary([]Example{
		example("exact-low", IndustryTech, LevelMid, gencontext.ToneProfessional, 0.6),
		example("exact-high", IndustryTech, LevelMid, gencontext.ToneProfessional, 0.9),
		example("level-only", IndustryFinance, LevelMid, gencontext.ToneDirect, 0.99),
	})

	selected := library.Select(IndustryTech, LevelMid, gencontext.ToneProfessional, 2, 1)

	assert.Equal(t, []string{"exact-high", "exact-low"}, IDs(selected))
}

func TestSelectWidens(t *testing.T) {
	library := NewLibrary([]Example{
		example("a", IndustryTech, LevelMid, gencontext.ToneProfessional, 0.5),
		example("unrelated", IndustryFinance, LevelEntry, gencontext.ToneDirect, 0.99),
		example("general", IndustryGeneral, LevelEntry, gencontext.ToneDirect, 0.7),
	})

	selected := library.Select(IndustryTech, LevelMid, gencontext.ToneProfessional, 2, 1)

	assert.Equal(t, []string{"general", "a"}, IDs(selected))
}

func TestSelectFallsBackToWholeLibrary(t *testing.T) {
	library := NewLibrary([]Example{
		example("only", IndustryFinance, LevelEntry, gencontext.ToneDirect, 0.8),
	})

	selected := library.Select(IndustryCreative, LevelSenior, gencontext.ToneFriendly, 2, 1)

	assert.Equal(t, []string{"only"}, IDs(selected))
}

func TestSelectDegenerateInputs(t *testing.T) {
	library := NewLibrary([]Example{
		example("a", IndustryTech, LevelMid, gencontext.ToneProfessional, 0.5),
	})

	assert.Empty(t, library.Select(IndustryTech, LevelMid, gencontext.ToneProfessional, 0, 1))
	assert.Empty(t, NewLibrary(nil).Select(IndustryTech, LevelMid, gencontext.ToneProfessional, 2, 1))
	assert.Equal(t, library.Select(IndustryTech, LevelMid, gencontext.ToneProfessional, 1, 1),
		library.Select(IndustryTech, LevelMid, gencontext.ToneProfessional, 1, -3))
}

func TestSelectRotation(t *testing.T) {
	var examples []Example
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		examples = append(examples, example(id, IndustryTech, LevelMid, gencontext.ToneProfessional, 0.8))
	}
	library := NewLibrary(examples)

	assert.Equal(t, []string{"a", "b", "c"}, IDs(library.Select(IndustryTech, LevelMid, gencontext.ToneProfessional, 3, 1)))
	assert.Equal(t, []string{"d", "e", "f"}, IDs(library.Select(IndustryTech, LevelMid, gencontext.ToneProfessional, 3, 2)))
	assert.Equal(t, []string{"g", "a", "b"}, IDs(library.Select(IndustryTech, LevelMid, gencontext.ToneProfessional, 3, 3)))
	assert.Equal(t, []string{"c", "d", "e"}, IDs(library.Select(IndustryTech, LevelMid, gencontext.ToneProfessional, 3, 4)))
}

func TestRotationCoverage(t *testing.T) {
	library, err := Default()
	require.NoError(t, err)

	profiles := []struct {
		industry Industry
		level    Level
		tone     gencontext.Tone
	}{
		{IndustryTech, LevelMid, gencontext.ToneProfessional},
		{IndustryFinance, LevelSenior, gencontext.ToneDirect},
		{IndustryCreative, LevelEntry, gencontext.ToneFriendly},
		{IndustryGeneral, LevelMid, gencontext.ToneFriendly},
	}

	for _, count := range []int{1, 2, 3, 5} {
		for _, p := range profiles {
			pool := library.candidatePool(p.industry, p.level, p.tone, count)
			if len(pool) <= count {
				continue
			}

			attempts := (len(pool) + count - 1) / count
			visited := make(map[string]bool)
			for k := 1; k <= attempts; k++ {
				selected := library.Select(p.industry, p.level, p.tone, count, k)
				require.Len(t, selected, count)

				inCall := make(map[string]bool)
				for _, ex := range selected {
					assert.False(t, inCall[ex.ID], "duplicate id %s within one call", ex.ID)
					inCall[ex.ID] = true
					visited[ex.ID] = true
				}
			}

			for _, ex := range pool {
				assert.True(t, visited[ex.ID], "%s never selected for %v/%v/%v count %d", ex.ID, p.industry, p.level, p.tone, count)
			}
		}
	}
}

func TestParseCatalogValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "bad industry",
			yaml: "examples:\n  - {id: x, industry: mining, experience_level: mid, tone: direct, output_text: hi, quality_score: 0.5}\n",
		},
		{
			name: "bad level",
			yaml: "examples:\n  - {id: x, industry: tech, experience_level: guru, tone: direct, output_text: hi, quality_score: 0.5}\n",
		},
		{
			name: "bad tone",
			yaml: "examples:\n  - {id: x, industry: tech, experience_level: mid, tone: snarky, output_text: hi, quality_score: 0.5}\n",
		},
		{
			name: "score out of range",
			yaml: "examples:\n  - {id: x, industry: tech, experience_level: mid, tone: direct, output_text: hi, quality_score: 1.5}\n",
		},
		{
			name: "empty output",
			yaml: "examples:\n  - {id: x, industry: tech, experience_level: mid, tone: direct, output_text: '  ', quality_score: 0.5}\n",
		},
		{
			name: "duplicate id",
			yaml: "examples:\n  - {id: x, industry: tech, experience_level: mid, tone: direct, output_text: hi, quality_score: 0.5}\n  - {id: x, industry: tech, experience_level: mid, tone: direct, output_text: hi, quality_score: 0.5}\n",
		},
		{
			name: "not yaml",
			yaml: "examples: [unterminated",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}

	library, err := ParseCatalog([]byte("examples:\n  - {id: ok, industry: tech, experience_level: mid, tone: direct, output_text: '  hi  ', quality_score: 0.5}\n"))
	require.NoError(t, err)
	assert.Equal(t, "hi", library.All()[0].OutputText)
}
