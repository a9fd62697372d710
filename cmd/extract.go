package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nikogura/letter-tailor/pkg/gencontext"
	"github.com/nikogura/letter-tailor/pkg/profile"
	"github.com/nikogura/letter-tailor/pkg/rag"
	"github.com/nikogura/letter-tailor/pkg/renderer"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//nolint:gochecknoglobals // Cobra boilerplate
var extractResume string

//nolint:gochecknoglobals // Cobra boilerplate
var extractProfile string

//nolint:gochecknoglobals // Cobra boilerplate
var extractTone string

//nolint:gochecknoglobals // Cobra boilerplate
var extractLocale string

//nolint:gochecknoglobals // Cobra boilerplate
var extractCmd = &cobra.Command{
	Use:   "extract <jd-file-or-url>",
	Short: "Show the facts extracted from a job description and resume",
	Long: `Runs the fact extractor without calling a language model and prints the
generation context the prompt would be built from: company, position, top
requirements, top achievements, tone and date, plus the detected industry
and experience level used to pick example letters.

Useful for checking what a posting yields before spending a generation on it.

Example:
  letter-tailor extract jd.txt
  letter-tailor extract https://example.com/jobs/123 --resume resume.txt --profile profile.yaml --locale de`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractResume, "resume", "", "Resume file, URL or - for stdin")
	extractCmd.Flags().StringVar(&extractProfile, "profile", "", "Contact profile JSON or YAML")
	extractCmd.Flags().StringVar(&extractTone, "tone", "", "Tone override: professional, friendly or direct")
	extractCmd.Flags().StringVar(&extractLocale, "locale", "", "Locale for the date, e.g. en-US, en-GB, de")
}

func runExtract(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var jobDescription string
	jobDescription, err = fetchInput(ctx, "job description", args[0])
	if err != nil {
		return err
	}

	var resume string
	if extractResume != "" {
		resume, err = fetchInput(ctx, "resume", extractResume)
		if err != nil {
			return err
		}
	}

	var contact profile.Contact
	if extractProfile != "" {
		contact, err = loadAndLogProfile(extractProfile)
		if err != nil {
			return err
		}
	}

	gctx := gencontext.Build(resume, jobDescription, contact, extractTone, extractLocale)
	printContext(gctx, rag.DetectIndustry(jobDescription), rag.DetectLevel(resume))

	return err
}

func printContext(gctx gencontext.Context, industry rag.Industry, level rag.Level) {
	titleCaser := cases.Title(language.English)

	fmt.Printf("Company:   %s\n", gctx.Company())
	fmt.Printf("Position:  %s\n", gctx.Position())
	fmt.Printf("Tone:      %s\n", titleCaser.String(string(gctx.Tone())))
	fmt.Printf("Date:      %s\n", renderer.FormatDate(gctx.DateISO(), gctx.Locale()))
	fmt.Printf("Industry:  %s\n", titleCaser.String(string(industry)))
	fmt.Printf("Level:     %s\n", titleCaser.String(string(level)))

	if name := gctx.Contact().FullName; name != "" {
		fmt.Printf("Applicant: %s\n", name)
	}

	printList("Requirements", gctx.Requirements())
	printList("Achievements", gctx.Achievements())
}

func printList(title string, items []string) {
	fmt.Printf("\n%s:\n", title)
	if len(items) == 0 {
		fmt.Println("  (none found)")
		return
	}
	for i, item := range items {
		fmt.Printf("  %d. %s\n", i+1, strings.TrimSpace(item))
	}
}
