package scorer

import (
	"strings"
	"testing"

	"github.com/nikogura/letter-tailor/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJD = `Company: Acme Corp
Position: Backend Engineer

Requirements:
- Experience building distributed systems in Go
- PostgreSQL performance tuning
- Kubernetes deployment experience
`

const testResume = `Jane Doe
- Implemented a caching layer reducing p99 latency by 40%
- Led migration of 120+ services to Kubernetes
- PostgreSQL performance tuning for the analytics platform
`

const goodLetter = `Dear Hiring Manager,

I am writing to apply for the Backend Engineer position at Acme Corp. Based in Austin, TX, I have spent six years building distributed systems in Go for high-traffic products.

At Globex I implemented a caching layer that reduced p99 latency by 40% across the platform. I also led the migration of 120+ services to Kubernetes, which achieved a steady weekly deployment cadence.

I contributed to PostgreSQL performance tuning work that cut query costs for the analytics team. I collaborate closely with product and operations partners and keep documentation current.

I would welcome the opportunity to discuss how my experience can support the engineering goals at Acme Corp.

Sincerely,
Jane Doe`

func testContact() (c profile.Contact) {
	c = profile.Contact{
		FullName:          "Jane Doe",
		Email:             "jane@example.com",
		Location:          "Austin, TX",
		ProfessionalTitle: "Backend Engineer",
	}
	return c
}

func TestValidateWellFormedLetter(t *testing.T) {
	v := NewValidator(Config{})

	report := v.Validate(goodLetter, testContact(), testResume, testJD)

	assert.Equal(t, 1.0, report.Metrics.FormatCompliance)
	assert.Equal(t, 1.0, report.Metrics.Personalization)
	assert.Equal(t, 1.0, report.Metrics.AchievementIntegration)
	assert.Equal(t, 1.0, report.Metrics.ProfessionalTone)
	assert.GreaterOrEqual(t, report.Metrics.ContentRelevance, 0.6)
	assert.GreaterOrEqual(t, report.Metrics.Overall, 0.75)
	assert.False(t, report.ShouldRetry)
	assert.Empty(t, report.Weaknesses)
	assert.Empty(t, report.Placeholders)
}

func TestValidateMissingFrameWithPlaceholder(t *testing.T) {
	v := NewValidator(Config{})

	letter := `I am excited to apply to [Company Name] for this role because it sounds like a great place to grow.

I have worked on many projects and I think I would be a good addition to the team here.`

	report := v.Validate(letter, testContact(), testResume, testJD)

	assert.LessOrEqual(t, report.Metrics.FormatCompliance, 0.5)
	assert.True(t, report.ShouldRetry)
	assert.Equal(t, []string{"[Company Name]"}, report.Placeholders)
	assert.Contains(t, report.Weaknesses, DimensionFormat)
	assert.Contains(t, report.Weaknesses, DimensionPlaceholders)
	assert.Len(t, report.Improvements, len(report.Weaknesses))
}

func TestPlaceholderForcesRetry(t *testing.T) {
	v := NewValidator(Config{})

	for _, placeholder := range []string{"[Company Name]", "{Your Name}", "{{position}}"} {
		letter := strings.Replace(goodLetter, "six years", "six years at "+placeholder, 1)

		report := v.Validate(letter, testContact(), testResume, testJD)

		assert.GreaterOrEqual(t, report.Metrics.Overall, 0.75, placeholder)
		assert.True(t, report.ShouldRetry, placeholder)
		assert.Contains(t, report.Weaknesses, DimensionPlaceholders, placeholder)
	}
}

func TestAchievementIntegrationMonotonic(t *testing.T) {
	v := NewValidator(Config{})

	base := `Dear Hiring Manager,

I am applying for the Backend Engineer role at Acme Corp. I implemented caching, led a migration and contributed to tuning.

Sincerely,
Jane Doe`

	previous := v.Validate(base, testContact(), testResume, testJD).Metrics.AchievementIntegration

	additions := []string{
		"\n\nThe caching work cut latency by 40% for every customer request.",
		"\n\nThe migration moved 120+ services onto the new platform.",
		"\n\nQuery tuning saved $300k in annual database spend.",
	}

	letter := base
	for _, addition := range additions {
		letter = strings.Replace(letter, "\n\nSincerely,", addition+"\n\nSincerely,", 1)

		current := v.Validate(letter, testContact(), testResume, testJD).Metrics.AchievementIntegration
		assert.GreaterOrEqual(t, current, previous)
		previous = current
	}
}

func TestProfessionalToneCliches(t *testing.T) {
	v := NewValidator(Config{})

	letter := "I am a team player and a hard worker who can think outside the box."

	report := v.Validate(letter, testContact(), "", "")

	assert.InDelta(t, 0.7, report.Metrics.ProfessionalTone, 0.0001)
}

func TestProfessionalToneCountsDistinctPhrases(t *testing.T) {
	repeated := "I am a team player. Every team player here is a team player."
	assert.InDelta(t, 0.9, professionalTone(repeated, strings.ToLower(repeated)), 0.0001)

	mixed := "I want to contribute and contribute again. I look forward to it, a team player."
	assert.InDelta(t, 1.0, professionalTone(mixed, strings.ToLower(mixed)), 0.0001)
}

func TestProfessionalToneLongSentences(t *testing.T) {
	long := strings.Repeat("word ", 30) + "end."
	text := long + " " + long + " " + long

	assert.Equal(t, 3, countLongSentences(text))
	assert.InDelta(t, 0.9, professionalTone(text, strings.ToLower(text)), 0.0001)
}

func TestContentRelevance(t *testing.T) {
	assert.Equal(t, 0.0, contentRelevance("nothing shared", "kubernetes postgresql distributed"))
	assert.Equal(t, 1.0, contentRelevance("we run kubernetes", "kubernetes postgresql distributed"))
	assert.Equal(t, 0.0, contentRelevance("anything", ""))
}

func TestCountParagraphs(t *testing.T) {
	para := strings.Repeat("x", 60)

	assert.Equal(t, 0, countParagraphs("short\n\nblocks"))
	assert.Equal(t, 3, countParagraphs(para+"\n\n"+para+"\n \n"+para+"\n\nSincerely,"))
}

func TestWeaknessThresholds(t *testing.T) {
	v := NewValidator(Config{})

	report := v.Validate("Hello there.", testContact(), testResume, testJD)

	assert.True(t, report.ShouldRetry)
	assert.Equal(t, []Dimension{DimensionFormat, DimensionPersonalization, DimensionAchievement, DimensionRelevance}, report.Weaknesses)
}

func TestCustomConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 0.99

	v := NewValidator(cfg)
	report := v.Validate(goodLetter, testContact(), testResume, testJD)

	assert.Equal(t, 0.99, v.Config().Threshold)
	assert.Equal(t, report.Metrics.Overall < 0.99, report.ShouldRetry)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Weights.FormatCompliance = 0.5
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Threshold = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Weights.ContentRelevance = -0.1
	bad.Weights.FormatCompliance = 0.5
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.WeaknessThresholds.ProfessionalTone = 2
	assert.Error(t, bad.Validate())
}
