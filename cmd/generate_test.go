package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikogura/letter-tailor/pkg/llm"
	"github.com/nikogura/letter-tailor/pkg/pipeline"
	"github.com/nikogura/letter-tailor/pkg/scorer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Acme Corp", "acme"},
		{"Globex, Inc.", "globex"},
		{"Jane Doe", "jane-doe"},
		{"Senior Backend Engineer (Go)", "senior-backend-engineer-go"},
		{"req-12345", "req-12345"},
		{"  ", ""},
		{"Café Société GmbH", "cafe-societe"},
		{"Initech Ltd.", "initech"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, slugify(tt.input), tt.input)
	}
}

func TestCompanyOutputDir(t *testing.T) {
	base := t.TempDir()

	dir, err := companyOutputDir(base, "Acme Corp")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "acme"), dir)
	assert.DirExists(t, dir)
}

func TestProgressStop(t *testing.T) {
	var buf bytes.Buffer

	p := startProgress(&buf, "Generating")
	p.Stop()
	p.Stop()

	assert.Contains(t, buf.String(), "Generating |")
	assert.True(t, strings.HasSuffix(buf.String(), "\r"))
}

func TestBuildFilenames(t *testing.T) {
	filenames := buildFilenames("/out/acme", "Jane Doe", "Acme Corp", "Staff Site Reliability Engineer Platform Team", "")

	assert.Equal(t, filepath.Join("/out/acme", "jane-doe-acme-staff-site-reliability-engineer-cover.txt"), filenames.letterTXT)
	assert.Equal(t, filepath.Join("/out/acme", "jane-doe-acme-staff-site-reliability-engineer-jd.txt"), filenames.jdTXT)
	assert.Equal(t, filepath.Join("/out/acme", "jane-doe-acme-staff-site-reliability-engineer-cover.quality.json"), filenames.reportJSON)

	withID := buildFilenames("/out", "Jane Doe", "Acme", "SRE", "req 42")
	assert.Equal(t, filepath.Join("/out", "jane-doe-acme-sre-req-42-cover.txt"), withID.letterTXT)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "flag", firstNonEmpty("flag", "config"))
	assert.Equal(t, "config", firstNonEmpty("", "config"))
	assert.Empty(t, firstNonEmpty("", ""))
}

func TestBuildReport(t *testing.T) {
	result := pipeline.Result{
		RequestID: "req-1",
		Strategy:  llm.StrategyStructured,
		Calls:     2,
		Attempts: []pipeline.Attempt{
			{
				Number:     1,
				Kind:       llm.RawText,
				Metrics:    scorer.Metrics{Overall: 0.5},
				Report:     scorer.Report{ShouldRetry: true, Weaknesses: []scorer.Dimension{scorer.DimensionFormat}},
				ExampleIDs: []string{"tech-mid-01"},
			},
			{
				Number:  2,
				Kind:    llm.Envelope,
				Metrics: scorer.Metrics{Overall: 0.8},
			},
		},
		Chosen:   pipeline.Attempt{Number: 2},
		Accepted: true,
	}

	report := buildReport(result)

	assert.Equal(t, "req-1", report.RequestID)
	assert.Equal(t, "structured", report.Strategy)
	assert.Equal(t, 2, report.Calls)
	assert.Equal(t, 2, report.Chosen)
	assert.True(t, report.Accepted)
	assert.Len(t, report.Attempts, 2)
	assert.True(t, report.Attempts[0].ShouldRetry)
	assert.Equal(t, []scorer.Dimension{scorer.DimensionFormat}, report.Attempts[0].Weaknesses)
	assert.Equal(t, llm.Envelope.String(), report.Attempts[1].Kind)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("  short  ", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
