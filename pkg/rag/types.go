package rag

import "github.com/nikogura/letter-tailor/pkg/gencontext"

// Industry buckets job descriptions and examples.
type Industry string

// Supported industries.
const (
	IndustryTech     Industry = "tech"
	IndustryFinance  Industry = "finance"
	IndustryCreative Industry = "creative"
	IndustryGeneral  Industry = "general"
)

// Level is the applicant's experience level.
type Level string

// Supported levels.
const (
	LevelEntry  Level = "entry"
	LevelMid    Level = "mid"
	LevelSenior Level = "senior"
)

// Example is one curated, labeled high-quality cover letter used for
// few-shot prompting.
type Example struct {
	ID               string          `yaml:"id"`
	Industry         Industry        `yaml:"industry"`
	ExperienceLevel  Level           `yaml:"experience_level"`
	Tone             gencontext.Tone `yaml:"tone"`
	InputDescription string          `yaml:"input_description"`
	OutputText       string          `yaml:"output_text"`
	QualityScore     float64         `yaml:"quality_score"`
}

// catalogFile is the on-disk shape of the embedded catalog.
type catalogFile struct {
	Version  string    `yaml:"version"`
	Examples []Example `yaml:"examples"`
}
