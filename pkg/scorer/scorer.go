// Package scorer grades generated cover letters against a five-dimension
// rubric of pattern checks and decides whether a letter needs another attempt.
package scorer

import (
	"math"
	"strings"

	"github.com/nikogura/letter-tailor/pkg/extract"
	"github.com/nikogura/letter-tailor/pkg/profile"
	"github.com/pkg/errors"
)

// DefaultThreshold is the overall score a letter needs to be accepted.
const DefaultThreshold = 0.75

// Weights holds one value per scored dimension. It is used both for the
// overall weighting and for the per-dimension weakness thresholds.
type Weights struct {
	FormatCompliance       float64 `json:"format_compliance"`
	Personalization        float64 `json:"personalization"`
	AchievementIntegration float64 `json:"achievement_integration"`
	ProfessionalTone       float64 `json:"professional_tone"`
	ContentRelevance       float64 `json:"content_relevance"`
}

// Config holds the tunable scoring constants.
type Config struct {
	Weights            Weights `json:"weights"`
	Threshold          float64 `json:"threshold"`
	WeaknessThresholds Weights `json:"weakness_thresholds"`
}

// DefaultWeights returns the default overall weighting.
func DefaultWeights() (w Weights) {
	w = Weights{
		FormatCompliance:       0.30,
		Personalization:        0.25,
		AchievementIntegration: 0.20,
		ProfessionalTone:       0.15,
		ContentRelevance:       0.10,
	}
	return w
}

// DefaultWeaknessThresholds returns the per-dimension scores below which a
// dimension is reported as a weakness.
func DefaultWeaknessThresholds() (w Weights) {
	w = Weights{
		FormatCompliance:       0.8,
		Personalization:        0.7,
		AchievementIntegration: 0.6,
		ProfessionalTone:       0.7,
		ContentRelevance:       0.6,
	}
	return w
}

// DefaultConfig returns the stock rubric configuration.
func DefaultConfig() (cfg Config) {
	cfg = Config{
		Weights:            DefaultWeights(),
		Threshold:          DefaultThreshold,
		WeaknessThresholds: DefaultWeaknessThresholds(),
	}
	return cfg
}

// Sum adds the five values.
func (w Weights) Sum() (sum float64) {
	sum = w.FormatCompliance + w.Personalization + w.AchievementIntegration + w.ProfessionalTone + w.ContentRelevance
	return sum
}

func (w Weights) values() (values []float64) {
	values = []float64{w.FormatCompliance, w.Personalization, w.AchievementIntegration, w.ProfessionalTone, w.ContentRelevance}
	return values
}

// Validate checks that the configuration can produce scores in [0,1].
func (c Config) Validate() (err error) {
	for _, v := range c.Weights.values() {
		if v < 0 {
			err = errors.New("quality weights must not be negative")
			return err
		}
	}

	if math.Abs(c.Weights.Sum()-1) > 0.001 {
		err = errors.Errorf("quality weights must sum to 1.0, got %.3f", c.Weights.Sum())
		return err
	}

	if c.Threshold < 0 || c.Threshold > 1 {
		err = errors.Errorf("quality threshold must be between 0 and 1, got %.2f", c.Threshold)
		return err
	}

	for _, v := range c.WeaknessThresholds.values() {
		if v < 0 || v > 1 {
			err = errors.New("weakness thresholds must be between 0 and 1")
			return err
		}
	}

	return err
}

// Metrics holds the rubric sub-scores, each in [0,1], plus the weighted
// overall score.
type Metrics struct {
	FormatCompliance       float64 `json:"format_compliance"`
	Personalization        float64 `json:"personalization"`
	AchievementIntegration float64 `json:"achievement_integration"`
	ProfessionalTone       float64 `json:"professional_tone"`
	ContentRelevance       float64 `json:"content_relevance"`
	Overall                float64 `json:"overall"`
}

// Report is the outcome of validating one letter.
type Report struct {
	Metrics      Metrics     `json:"metrics"`
	ShouldRetry  bool        `json:"should_retry"`
	Weaknesses   []Dimension `json:"weaknesses"`
	Improvements []string    `json:"improvements"`
	Placeholders []string    `json:"placeholders,omitempty"`
}

// Validator scores letters. It holds only immutable configuration and is
// safe for concurrent use.
type Validator struct {
	config Config
}

// NewValidator creates a validator. A zero Config selects DefaultConfig.
func NewValidator(cfg Config) (validator *Validator) {
	if cfg.Weights.Sum() == 0 {
		cfg.Weights = DefaultWeights()
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.WeaknessThresholds.Sum() == 0 {
		cfg.WeaknessThresholds = DefaultWeaknessThresholds()
	}

	validator = &Validator{config: cfg}
	return validator
}

// Config returns the effective configuration.
func (v *Validator) Config() (cfg Config) {
	cfg = v.config
	return cfg
}

// Validate scores content for the given contact, résumé and job description.
func (v *Validator) Validate(content string, contact profile.Contact, resume, jobDescription string) (report Report) {
	text := strings.ReplaceAll(content, "\r\n", "\n")
	lower := strings.ToLower(text)

	metrics := Metrics{
		FormatCompliance:       formatCompliance(text, lower, contact),
		Personalization:        personalization(lower, contact, jobDescription),
		AchievementIntegration: achievementIntegration(text, lower, resume),
		ProfessionalTone:       professionalTone(text, lower),
		ContentRelevance:       contentRelevance(lower, jobDescription),
	}

	w := v.config.Weights
	metrics.Overall = round(clamp(metrics.FormatCompliance*w.FormatCompliance +
		metrics.Personalization*w.Personalization +
		metrics.AchievementIntegration*w.AchievementIntegration +
		metrics.ProfessionalTone*w.ProfessionalTone +
		metrics.ContentRelevance*w.ContentRelevance))

	report = Report{
		Metrics:      metrics,
		Weaknesses:   []Dimension{},
		Improvements: []string{},
		Placeholders: placeholderRe.FindAllString(text, -1),
	}

	t := v.config.WeaknessThresholds
	checks := []struct {
		dimension Dimension
		score     float64
		threshold float64
	}{
		{DimensionFormat, metrics.FormatCompliance, t.FormatCompliance},
		{DimensionPersonalization, metrics.Personalization, t.Personalization},
		{DimensionAchievement, metrics.AchievementIntegration, t.AchievementIntegration},
		{DimensionTone, metrics.ProfessionalTone, t.ProfessionalTone},
		{DimensionRelevance, metrics.ContentRelevance, t.ContentRelevance},
	}

	for _, c := range checks {
		if c.score < c.threshold {
			report.Weaknesses = append(report.Weaknesses, c.dimension)
			report.Improvements = append(report.Improvements, Improvements[c.dimension])
		}
	}

	if len(report.Placeholders) > 0 {
		report.Weaknesses = append(report.Weaknesses, DimensionPlaceholders)
		report.Improvements = append(report.Improvements, Improvements[DimensionPlaceholders])
	}

	report.ShouldRetry = metrics.Overall < v.config.Threshold || len(report.Placeholders) > 0

	return report
}

func formatCompliance(text, lower string, contact profile.Contact) (score float64) {
	if greetingRe.MatchString(text) {
		score += ScoringRules["GREETING_PRESENT"].Weight
	}
	if closingRe.MatchString(text) {
		score += ScoringRules["CLOSING_PRESENT"].Weight
	}
	if containsFold(lower, contact.FullName) {
		score += ScoringRules["SIGNED_BY_APPLICANT"].Weight
	}

	paragraphs := countParagraphs(text)
	if paragraphs >= minParagraphs && paragraphs <= maxParagraphs {
		score += ScoringRules["PARAGRAPH_COUNT"].Weight
	}

	score = round(clamp(score))
	return score
}

func personalization(lower string, contact profile.Contact, jobDescription string) (score float64) {
	if containsFold(lower, contact.FullName) {
		score += ScoringRules["NAME_PRESENT"].Weight
	}
	if containsFold(lower, extract.CompanyName(jobDescription)) {
		score += ScoringRules["COMPANY_PRESENT"].Weight
	}
	if containsFold(lower, extract.PositionTitle(jobDescription)) {
		score += ScoringRules["POSITION_PRESENT"].Weight
	}
	if containsFold(lower, contact.Location) {
		score += ScoringRules["LOCATION_PRESENT"].Weight
	}

	score = round(clamp(score))
	return score
}

func achievementIntegration(text, lower, resume string) (score float64) {
	if len(quantifiedRe.FindAllString(text, -1)) >= minQuantified {
		score += ScoringRules["QUANTIFIED_RESULTS"].Weight
	}
	if countPhrases(lower, actionVerbMatchers) >= minActionVerbs {
		score += ScoringRules["ACTION_VERBS"].Weight
	}

	shared := 0
	resumeTerms := keywords(resume)
	for term := range keywords(lower) {
		if resumeTerms[term] {
			shared++
		}
	}
	if shared >= minSharedTerms {
		score += ScoringRules["RESUME_OVERLAP"].Weight
	}

	score = round(clamp(score))
	return score
}

func professionalTone(text, lower string) (score float64) {
	score = 1.0
	score += float64(countPhrases(lower, clicheMatchers)) * ScoringRules["CLICHE"].Weight
	score += float64(countPhrases(lower, indicatorMatchers)) * ScoringRules["PROFESSIONAL_INDICATOR"].Weight

	if countLongSentences(text) > maxLongSentences {
		score += ScoringRules["LONG_SENTENCES"].Weight
	}

	score = round(clamp(score))
	return score
}

func contentRelevance(lower, jobDescription string) (score float64) {
	jobTerms := keywords(jobDescription)
	letterTerms := keywords(lower)

	overlap := 0
	for term := range jobTerms {
		if letterTerms[term] {
			overlap++
		}
	}

	score = round(clamp(float64(overlap) / math.Max(relevanceFraction*float64(len(jobTerms)), 1)))
	return score
}

// countParagraphs counts blank-line separated blocks longer than
// minParagraphChars.
func countParagraphs(text string) (count int) {
	for _, block := range blankLineRe.Split(strings.TrimSpace(text), -1) {
		if len(strings.TrimSpace(block)) > minParagraphChars {
			count++
		}
	}
	return count
}

func countLongSentences(text string) (count int) {
	for _, sentence := range sentenceEndRe.Split(text, -1) {
		if len(strings.Fields(sentence)) > longSentenceWords {
			count++
		}
	}
	return count
}

// containsFold reports whether needle, whitespace-collapsed, occurs in the
// already lowercased haystack. An empty needle never matches.
func containsFold(lowerHaystack, needle string) (found bool) {
	needle = strings.ToLower(extract.CollapseSpace(needle))
	if needle == "" {
		return found
	}
	found = strings.Contains(extract.CollapseSpace(lowerHaystack), needle)
	return found
}

func clamp(v float64) (clamped float64) {
	clamped = math.Max(0, math.Min(1, v))
	return clamped
}

// round trims float noise so scores compare cleanly against thresholds.
func round(v float64) (rounded float64) {
	rounded = math.Round(v*10000) / 10000
	return rounded
}
