package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/nikogura/letter-tailor/pkg/config"
	"github.com/nikogura/letter-tailor/pkg/llm"
	"github.com/nikogura/letter-tailor/pkg/pipeline"
	"github.com/nikogura/letter-tailor/pkg/profile"
	"github.com/nikogura/letter-tailor/pkg/renderer"
	"github.com/nikogura/letter-tailor/pkg/scorer"
	"github.com/nikogura/letter-tailor/pkg/source"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var resumeInput string

//nolint:gochecknoglobals // Cobra boilerplate
var profilePath string

//nolint:gochecknoglobals // Cobra boilerplate
var tone string

//nolint:gochecknoglobals // Cobra boilerplate
var locale string

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var strategy string

//nolint:gochecknoglobals // Cobra boilerplate
var jobID string

//nolint:gochecknoglobals // Cobra boilerplate
var generateCmd = &cobra.Command{
	Use:   "generate <jd-file-or-url>",
	Short: "Generate a tailored cover letter",
	Long: `Generate a cover letter for a job description.

The job description and resume can each be provided as:
- A file path (e.g., jd.txt)
- A URL (e.g., https://example.com/jobs/123)
- "-" to read from stdin

Each draft is scored and regenerated when it falls below the quality
threshold. The best draft is written as plain text alongside a JSON report
of every attempt.

Example:
  letter-tailor generate jd.txt --resume resume.txt
  letter-tailor generate https://example.com/jobs/123 --resume resume.md --tone friendly
  letter-tailor generate jd.txt --resume resume.txt --locale en-GB --strategy raw_few_shot --job-id "req-12345"`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&resumeInput, "resume", "", "Resume file, URL or - for stdin (required)")
	generateCmd.Flags().StringVar(&profilePath, "profile", "", "Contact profile JSON or YAML (default from config)")
	generateCmd.Flags().StringVar(&tone, "tone", "", "Tone: professional, friendly or direct (default from config, else professional)")
	generateCmd.Flags().StringVar(&locale, "locale", "", "Locale for the letter date, e.g. en-US, en-GB, de (default from config)")
	generateCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	generateCmd.Flags().StringVar(&strategy, "strategy", "", "Prompt strategy: structured or raw_few_shot (default from config)")
	generateCmd.Flags().StringVar(&jobID, "job-id", "", "Optional job/req ID to differentiate multiple applications (e.g., 'req-12345', '8886')")
	_ = generateCmd.MarkFlagRequired("resume")
}

// outputFilenames holds the files written for one application.
type outputFilenames struct {
	letterTXT  string
	jdTXT      string
	reportJSON string
}

// attemptSummary is the per-attempt record written to the report file.
type attemptSummary struct {
	Number      int                `json:"number"`
	Kind        string             `json:"kind"`
	Metrics     scorer.Metrics     `json:"metrics"`
	ShouldRetry bool               `json:"should_retry"`
	Weaknesses  []scorer.Dimension `json:"weaknesses"`
	ExampleIDs  []string           `json:"example_ids"`
}

// generationReport is the JSON written next to the letter.
type generationReport struct {
	RequestID   string           `json:"request_id"`
	GeneratedAt string           `json:"generated_at"`
	Company     string           `json:"company"`
	Position    string           `json:"position"`
	Industry    string           `json:"industry"`
	Level       string           `json:"level"`
	Strategy    string           `json:"strategy"`
	Accepted    bool             `json:"accepted"`
	Calls       int              `json:"calls"`
	Chosen      int              `json:"chosen_attempt"`
	Fixes       []string         `json:"fixes,omitempty"`
	Attempts    []attemptSummary `json:"attempts"`
}

func runGenerate(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	// Load configuration
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	var jobDescription string
	jobDescription, err = fetchAndLogJD(ctx, args[0])
	if err != nil {
		return err
	}

	var resume string
	resume, err = fetchInput(ctx, "resume", resumeInput)
	if err != nil {
		return err
	}

	var contact profile.Contact
	contact, err = loadAndLogProfile(firstNonEmpty(profilePath, cfg.ProfileLocation))
	if err != nil {
		return err
	}

	var generator *pipeline.Generator
	var closeCompleter func()
	generator, closeCompleter, err = newGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCompleter()

	req := pipeline.Request{
		Resume:         resume,
		JobDescription: jobDescription,
		Contact:        contact,
		Tone:           firstNonEmpty(tone, cfg.Defaults.Tone),
		Locale:         firstNonEmpty(locale, cfg.Defaults.Locale),
		Strategy:       llm.Strategy(strategy),
	}

	var result pipeline.Result
	result, err = runGenerationPhase(ctx, generator, req, cfg.Provider)
	if err != nil {
		return err
	}

	baseOutDir := firstNonEmpty(outputDir, cfg.Defaults.OutputDir)
	var outDir string
	outDir, err = companyOutputDir(baseOutDir, result.Context.Company())
	if err != nil {
		return err
	}

	filenames := buildFilenames(outDir, contact.FullName, result.Context.Company(), result.Context.Position(), jobID)

	err = writeOutputFiles(result, jobDescription, filenames)
	if err != nil {
		return err
	}

	printGenerationSummary(result, filenames)

	return err
}

// newGenerator builds the completer for the configured provider and wires
// the pipeline from the config's quality section.
func newGenerator(ctx context.Context, cfg config.Config) (generator *pipeline.Generator, closeFn func(), err error) {
	closeFn = func() {}

	var retryDelay time.Duration
	retryDelay, err = cfg.RetryDelay()
	if err != nil {
		return generator, closeFn, err
	}

	var completer llm.Completer
	completer, err = llm.NewCompleter(ctx, cfg.Provider, cfg.GetAPIKey(), cfg.GetModel())
	if err != nil {
		err = errors.Wrap(err, "failed to create completion client")
		return generator, closeFn, err
	}

	if closer, ok := completer.(io.Closer); ok {
		closeFn = func() { _ = closer.Close() }
	}

	generator, err = pipeline.NewGenerator(pipeline.Options{
		Completer:         completer,
		Validator:         scorer.NewValidator(cfg.ScorerConfig()),
		Strategy:          cfg.PromptStrategy,
		MaxAttempts:       cfg.Quality.MaxAttempts,
		RetryDelay:        retryDelay,
		ExamplesPerPrompt: cfg.Quality.ExamplesPerPrompt,
		Logger:            newLogger(),
	})
	if err != nil {
		closeFn()
		err = errors.Wrap(err, "failed to create generator")
		return generator, func() {}, err
	}

	return generator, closeFn, err
}

func runGenerationPhase(ctx context.Context, generator *pipeline.Generator, req pipeline.Request, provider llm.Provider) (result pipeline.Result, err error) {
	message := fmt.Sprintf("Generating cover letter with %s...", provider)

	// Verbose runs log each attempt, so the animation would interleave.
	var indicator *progress
	if !getVerbose() {
		indicator = startProgress(os.Stdout, message)
	} else {
		fmt.Println(message)
	}

	result, err = generator.Generate(ctx, req)

	if indicator != nil {
		indicator.Stop()
	}

	if err != nil {
		err = errors.Wrap(err, "cover letter generation failed")
		return result, err
	}

	if result.Accepted {
		fmt.Printf("✓ Letter accepted on attempt %d (score %.2f)\n", result.Chosen.Number, result.Chosen.Metrics.Overall)
	} else {
		fmt.Printf("! Quality threshold not met after %d attempts; using best draft (attempt %d, score %.2f)\n",
			result.Calls, result.Chosen.Number, result.Chosen.Metrics.Overall)
	}

	return result, err
}

func writeOutputFiles(result pipeline.Result, jobDescription string, filenames outputFilenames) (err error) {
	if getVerbose() {
		fmt.Println("Writing output files...")
	}

	err = renderer.WriteLetter(result.Letter, filenames.letterTXT)
	if err != nil {
		return err
	}

	err = os.WriteFile(filenames.jdTXT, []byte(jobDescription), 0600)
	if err != nil {
		err = errors.Wrap(err, "failed to write job description file")
		return err
	}

	var data []byte
	data, err = json.MarshalIndent(buildReport(result), "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal generation report")
		return err
	}

	err = os.WriteFile(filenames.reportJSON, data, 0600)
	if err != nil {
		err = errors.Wrap(err, "failed to write generation report")
		return err
	}

	return err
}

func buildReport(result pipeline.Result) (report generationReport) {
	report = generationReport{
		RequestID:   result.RequestID,
		GeneratedAt: result.Context.DateISO(),
		Company:     result.Context.Company(),
		Position:    result.Context.Position(),
		Industry:    string(result.Industry),
		Level:       string(result.Level),
		Strategy:    string(result.Strategy),
		Accepted:    result.Accepted,
		Calls:       result.Calls,
		Chosen:      result.Chosen.Number,
		Fixes:       result.Fixes,
		Attempts:    make([]attemptSummary, 0, len(result.Attempts)),
	}

	for _, a := range result.Attempts {
		report.Attempts = append(report.Attempts, attemptSummary{
			Number:      a.Number,
			Kind:        a.Kind.String(),
			Metrics:     a.Metrics,
			ShouldRetry: a.Report.ShouldRetry,
			Weaknesses:  a.Report.Weaknesses,
			ExampleIDs:  a.ExampleIDs,
		})
	}

	return report
}

func printGenerationSummary(result pipeline.Result, filenames outputFilenames) {
	if getVerbose() {
		fmt.Printf("\nCompany: %s\nPosition: %s\nIndustry: %s, level: %s, strategy: %s\n",
			result.Context.Company(), result.Context.Position(), result.Industry, result.Level, result.Strategy)

		fmt.Println("\nAttempts:")
		for _, a := range result.Attempts {
			fmt.Printf("  #%d  overall %.2f  weaknesses %v  examples %v\n", a.Number, a.Metrics.Overall, a.Report.Weaknesses, a.ExampleIDs)
		}

		for _, fix := range result.Fixes {
			fmt.Printf("  fixed: %s\n", fix)
		}
	}

	fmt.Printf("\nCover letter saved at: %s\n", filenames.letterTXT)
	fmt.Printf("Quality report saved at: %s\n", filenames.reportJSON)
}

// fetchAndLogJD reads the job description, falling back to pasted input
// when a URL cannot be fetched.
func fetchAndLogJD(ctx context.Context, jdInput string) (jobDescription string, err error) {
	if getVerbose() {
		fmt.Printf("Loading job description from: %s\n", jdInput)
	}

	jobDescription, err = source.Reader{}.Fetch(ctx, jdInput)
	if err != nil {
		if jdInput == source.Stdin {
			return jobDescription, err
		}

		// If fetching failed, offer to accept manual input
		fmt.Printf("\nWarning: Failed to fetch job description: %v\n", err)
		fmt.Println("This often happens with JavaScript-rendered pages (Lever, Workable, etc.)")
		fmt.Println("\nPlease paste the job description text below.")
		fmt.Println("When finished, press Ctrl+D (Unix/Mac) or Ctrl+Z then Enter (Windows):")
		fmt.Println()

		scanner := bufio.NewScanner(os.Stdin)
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}

		if scanner.Err() != nil {
			err = errors.Wrap(scanner.Err(), "failed to read job description from stdin")
			return jobDescription, err
		}

		jobDescription = strings.TrimSpace(strings.Join(lines, "\n"))

		if jobDescription == "" {
			err = errors.New("no job description provided")
			return jobDescription, err
		}

		fmt.Printf("\nJob description received (%d characters)\n", len(jobDescription))
		err = nil
		return jobDescription, err
	}

	if getVerbose() {
		fmt.Printf("Job description loaded (%d characters)\n", len(jobDescription))
	}

	return jobDescription, err
}

// fetchInput reads a named input from a file, URL or stdin.
func fetchInput(ctx context.Context, name, input string) (content string, err error) {
	if input == "" {
		err = errors.Errorf("%s input is required", name)
		return content, err
	}

	if getVerbose() {
		fmt.Printf("Loading %s from: %s\n", name, input)
	}

	content, err = source.Reader{}.Fetch(ctx, input)
	if err != nil {
		err = errors.Wrapf(err, "failed to load %s", name)
		return content, err
	}

	if getVerbose() {
		fmt.Printf("%s loaded (%d characters)\n", name, len(content))
	}

	return content, err
}

func loadAndLogProfile(path string) (contact profile.Contact, err error) {
	if path == "" {
		err = errors.New("a contact profile is required (--profile or profile_location in config)")
		return contact, err
	}

	if getVerbose() {
		fmt.Printf("Loading profile from: %s\n", path)
	}

	contact, err = profile.Load(path)
	if err != nil {
		err = errors.Wrap(err, "failed to load profile")
		return contact, err
	}

	if getVerbose() {
		fmt.Printf("Writing as %s <%s>\n", contact.FullName, contact.Email)
	}

	return contact, err
}

// firstNonEmpty returns the flag value, or the config value when the flag
// is unset.
func firstNonEmpty(flagValue, configValue string) (value string) {
	value = flagValue
	if value == "" {
		value = configValue
	}
	return value
}
