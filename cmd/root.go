package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "letter-tailor",
	Short: "Generate quality-checked cover letters",
	Long: `letter-tailor turns a resume, a job description and your contact details
into a tailored cover letter.

Each draft is scored against a five-part rubric (format, personalization,
achievements, tone, relevance). Weak drafts are regenerated with guidance,
up to a fixed number of attempts, and the best draft is assembled into a
consistently formatted letter.`,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.letter-tailor/config.json)")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

// newLogger returns the structured logger handed to library code. It writes
// to stderr at Warn, or Debug with --verbose.
func newLogger() (entry *logrus.Entry) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	logger.SetLevel(logrus.WarnLevel)
	if getVerbose() {
		logger.SetLevel(logrus.DebugLevel)
	}

	entry = logrus.NewEntry(logger)
	return entry
}
