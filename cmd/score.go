package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nikogura/letter-tailor/pkg/config"
	"github.com/nikogura/letter-tailor/pkg/profile"
	"github.com/nikogura/letter-tailor/pkg/renderer"
	"github.com/nikogura/letter-tailor/pkg/scorer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//nolint:gochecknoglobals // Cobra boilerplate
var scoreResume string

//nolint:gochecknoglobals // Cobra boilerplate
var scoreJD string

//nolint:gochecknoglobals // Cobra boilerplate
var scoreProfile string

//nolint:gochecknoglobals // Cobra boilerplate
var scoreJSON bool

//nolint:gochecknoglobals // Cobra boilerplate
var scoreCmd = &cobra.Command{
	Use:   "score <letter-file>",
	Short: "Score an existing cover letter against the quality rubric",
	Long: `Scores a cover letter with the same rubric the generator uses, without
calling a language model.

Reports the five sub-scores (format compliance, personalization, achievement
integration, professional tone, content relevance), the weighted overall
score, any leftover placeholders, and whether the letter would have been
regenerated.

The contact profile and quality settings come from the config file. When
no config is available, pass --profile and the default rubric is used.

Examples:
  letter-tailor score ~/Documents/Applications/acme/jane-doe-acme-backend-engineer-cover.txt --resume resume.txt --jd jd.txt
  letter-tailor score letter.txt --resume resume.txt --jd jd.txt --profile profile.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreResume, "resume", "", "Resume file, URL or - for stdin (required)")
	scoreCmd.Flags().StringVar(&scoreJD, "jd", "", "Job description file or URL (required)")
	scoreCmd.Flags().StringVar(&scoreProfile, "profile", "", "Contact profile JSON or YAML (default from config)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the report as JSON")
	_ = scoreCmd.MarkFlagRequired("resume")
	_ = scoreCmd.MarkFlagRequired("jd")
}

func runScore(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rubric, profileLocation, err := loadRubric(scoreProfile)
	if err != nil {
		return err
	}

	var letter string
	letter, err = renderer.ReadLetter(args[0])
	if err != nil {
		return err
	}

	var resume, jobDescription string
	resume, err = fetchInput(ctx, "resume", scoreResume)
	if err != nil {
		return err
	}

	jobDescription, err = fetchInput(ctx, "job description", scoreJD)
	if err != nil {
		return err
	}

	var contact profile.Contact
	contact, err = loadAndLogProfile(profileLocation)
	if err != nil {
		return err
	}

	report := scorer.NewValidator(rubric).Validate(letter, contact, resume, jobDescription)

	if scoreJSON {
		var data []byte
		data, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			err = errors.Wrap(err, "failed to marshal report")
			return err
		}
		fmt.Println(string(data))
		return err
	}

	printScoreReport(report, rubric)
	return err
}

// loadRubric returns the rubric and profile location from the config file.
// A missing or invalid config is tolerated when an explicit profile is given.
func loadRubric(profileFlag string) (rubric scorer.Config, profileLocation string, err error) {
	cfg, loadErr := config.Load(getConfigFile())
	if loadErr != nil {
		if profileFlag == "" {
			err = errors.Wrap(loadErr, "failed to load config (pass --profile to score without one)")
			return rubric, profileLocation, err
		}

		if getVerbose() {
			fmt.Printf("Config not loaded (%v); using default rubric\n", loadErr)
		}

		rubric = scorer.DefaultConfig()
		profileLocation = profileFlag
		return rubric, profileLocation, err
	}

	rubric = cfg.ScorerConfig()
	profileLocation = firstNonEmpty(profileFlag, cfg.ProfileLocation)
	return rubric, profileLocation, err
}

func printScoreReport(report scorer.Report, rubric scorer.Config) {
	titleCaser := cases.Title(language.English)

	fmt.Println("Quality report")
	fmt.Println(strings.Repeat("=", 40))

	rows := []struct {
		dimension scorer.Dimension
		score     float64
		weight    float64
	}{
		{scorer.DimensionFormat, report.Metrics.FormatCompliance, rubric.Weights.FormatCompliance},
		{scorer.DimensionPersonalization, report.Metrics.Personalization, rubric.Weights.Personalization},
		{scorer.DimensionAchievement, report.Metrics.AchievementIntegration, rubric.Weights.AchievementIntegration},
		{scorer.DimensionTone, report.Metrics.ProfessionalTone, rubric.Weights.ProfessionalTone},
		{scorer.DimensionRelevance, report.Metrics.ContentRelevance, rubric.Weights.ContentRelevance},
	}

	for _, row := range rows {
		label := titleCaser.String(strings.ReplaceAll(string(row.dimension), "_", " "))
		fmt.Printf("  %-26s %.2f  (weight %.2f)\n", label, row.score, row.weight)
	}

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("  %-26s %.2f  (threshold %.2f)\n", "Overall", report.Metrics.Overall, rubric.Threshold)

	if len(report.Placeholders) > 0 {
		fmt.Printf("\nPlaceholders found: %s\n", strings.Join(report.Placeholders, ", "))
	}

	if len(report.Improvements) > 0 {
		fmt.Println("\nImprovements:")
		for _, improvement := range report.Improvements {
			fmt.Printf("  - %s\n", improvement)
		}
	}

	if report.ShouldRetry {
		fmt.Println("\nVerdict: below the quality bar; the generator would retry this letter.")
	} else {
		fmt.Println("\nVerdict: accepted.")
	}
}
