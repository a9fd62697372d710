package cmd

import (
	"fmt"
	"strings"

	"github.com/nikogura/letter-tailor/pkg/gencontext"
	"github.com/nikogura/letter-tailor/pkg/rag"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//nolint:gochecknoglobals // Cobra boilerplate
var examplesIndustry string

//nolint:gochecknoglobals // Cobra boilerplate
var examplesLevel string

//nolint:gochecknoglobals // Cobra boilerplate
var examplesTone string

//nolint:gochecknoglobals // Cobra boilerplate
var examplesCount int

//nolint:gochecknoglobals // Cobra boilerplate
var examplesAttempt int

//nolint:gochecknoglobals // Cobra boilerplate
var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List the built-in example letters and preview selection",
	Long: `Lists the example cover letters bundled with letter-tailor. With --industry,
--level or --tone, shows which examples a prompt for that attempt would carry;
later attempts rotate through the matching pool.

Example:
  letter-tailor examples
  letter-tailor examples --industry finance --level senior --tone professional
  letter-tailor examples --industry tech --level mid --attempt 2`,
	Args: cobra.NoArgs,
	RunE: runExamples,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(examplesCmd)
	examplesCmd.Flags().StringVar(&examplesIndustry, "industry", "", "Industry: tech, finance, creative or general")
	examplesCmd.Flags().StringVar(&examplesLevel, "level", "", "Experience level: entry, mid or senior")
	examplesCmd.Flags().StringVar(&examplesTone, "tone", "", "Tone: professional, friendly or direct")
	examplesCmd.Flags().IntVar(&examplesCount, "count", 3, "Examples per prompt")
	examplesCmd.Flags().IntVar(&examplesAttempt, "attempt", 1, "Attempt number (selects the rotation window)")
}

func runExamples(cmd *cobra.Command, args []string) (err error) {
	var library *rag.Library
	library, err = rag.Default()
	if err != nil {
		err = errors.Wrap(err, "failed to load example catalog")
		return err
	}

	if examplesIndustry == "" && examplesLevel == "" && examplesTone == "" {
		printExamples(library.All())
		return err
	}

	industry := rag.Industry(firstNonEmpty(examplesIndustry, string(rag.IndustryGeneral)))
	level := rag.Level(firstNonEmpty(examplesLevel, string(rag.LevelMid)))

	tone := gencontext.ToneProfessional
	if examplesTone != "" {
		var ok bool
		tone, ok = gencontext.ParseTone(examplesTone)
		if !ok {
			err = errors.Errorf("unknown tone %q (expected professional, friendly or direct)", examplesTone)
			return err
		}
	}

	selected := library.Select(industry, level, tone, examplesCount, examplesAttempt)

	fmt.Printf("Selection for %s / %s / %s, attempt %d:\n\n", industry, level, tone, examplesAttempt)
	printExamples(selected)

	return err
}

func printExamples(examples []rag.Example) {
	titleCaser := cases.Title(language.English)

	for _, ex := range examples {
		fmt.Printf("%-22s %-9s %-7s %-13s %.2f  %s\n",
			ex.ID,
			titleCaser.String(string(ex.Industry)),
			titleCaser.String(string(ex.ExperienceLevel)),
			titleCaser.String(string(ex.Tone)),
			ex.QualityScore,
			truncate(ex.InputDescription, 60),
		)

		if getVerbose() {
			fmt.Printf("\n%s\n\n", ex.OutputText)
		}
	}

	fmt.Printf("\n%d example(s)\n", len(examples))
}

func truncate(s string, limit int) (truncated string) {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		truncated = string(runes)
		return truncated
	}
	truncated = string(runes[:limit-3]) + "..."
	return truncated
}
