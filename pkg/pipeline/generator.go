// Package pipeline runs the bounded generate, score and retry loop that turns
// a résumé and job description into an assembled cover letter.
package pipeline

import (
	"context"
	"io"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nikogura/letter-tailor/pkg/gencontext"
	"github.com/nikogura/letter-tailor/pkg/llm"
	"github.com/nikogura/letter-tailor/pkg/profile"
	"github.com/nikogura/letter-tailor/pkg/rag"
	"github.com/nikogura/letter-tailor/pkg/renderer"
	"github.com/nikogura/letter-tailor/pkg/scorer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultMaxAttempts bounds the completion calls per request. It is also
	// the ceiling for Options.MaxAttempts.
	DefaultMaxAttempts = 3
	// DefaultRetryDelay is the pause between a failed or rejected attempt and the next.
	DefaultRetryDelay = 2 * time.Second
	// DefaultExamplesPerPrompt is how many catalog examples each prompt carries.
	DefaultExamplesPerPrompt = 3
	// MinContentLength is the shortest parsed completion treated as usable.
	MinContentLength = 50
)

// State is a step of the generation loop. States are logged, not stored.
type State string

// Generation states.
const (
	StateIdle               State = "idle"
	StateBuildingPrompt     State = "building_prompt"
	StateAwaitingCompletion State = "awaiting_completion"
	StateValidating         State = "validating"
	StateAccepted           State = "accepted"
	StateRetrying           State = "retrying"
	StateExhausted          State = "exhausted"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Generator. Only Completer is required.
type Options struct {
	Completer         llm.Completer
	Library           *rag.Library
	Validator         *scorer.Validator
	Fixer             *llm.Fixer
	Strategy          llm.Strategy
	MaxAttempts       int
	RetryDelay        time.Duration
	ExamplesPerPrompt int
	Logger            *logrus.Entry
	Now               func() time.Time
	Sleep             SleepFunc
}

// Request is one cover-letter generation request.
type Request struct {
	Resume         string          `validate:"required"`
	JobDescription string          `validate:"required"`
	Contact        profile.Contact // validated through its own tags
	Tone           string
	Locale         string
	History        []llm.Message
	// Strategy overrides the generator's prompt strategy when set.
	Strategy llm.Strategy
}

// Attempt is one completion that produced usable content.
type Attempt struct {
	Number     int                `json:"number"`
	Content    string             `json:"content"`
	Kind       llm.CompletionKind `json:"kind"`
	Metrics    scorer.Metrics     `json:"metrics"`
	Report     scorer.Report      `json:"report"`
	ExampleIDs []string           `json:"example_ids"`
}

// Result is the outcome of a generation request.
type Result struct {
	RequestID string
	Letter    string
	Body      string
	Context   gencontext.Context
	Industry  rag.Industry
	Level     rag.Level
	Strategy  llm.Strategy
	Attempts  []Attempt
	Chosen    Attempt
	// Accepted is false when the letter is the best of exhausted attempts.
	Accepted bool
	// Calls counts completion requests issued, successful or not.
	Calls int
	Fixes []string
}

// Generator runs the generation loop. It holds only configuration and
// goroutine-safe collaborators, so one Generator may serve concurrent requests.
type Generator struct {
	completer         llm.Completer
	library           *rag.Library
	validator         *scorer.Validator
	fixer             *llm.Fixer
	strategy          llm.Strategy
	maxAttempts       int
	retryDelay        time.Duration
	examplesPerPrompt int
	logger            *logrus.Entry
	now               func() time.Time
	sleep             SleepFunc
	validate          *validator.Validate
}

// NewGenerator creates a generator, filling unset options with defaults.
func NewGenerator(opts Options) (generator *Generator, err error) {
	if opts.Completer == nil {
		err = errors.Wrap(ErrInvalidRequest, "a completer is required")
		return generator, err
	}

	library := opts.Library
	if library == nil {
		library, err = rag.Default()
		if err != nil {
			return generator, err
		}
	}

	generator = &Generator{
		completer:         opts.Completer,
		library:           library,
		validator:         opts.Validator,
		fixer:             opts.Fixer,
		strategy:          opts.Strategy,
		maxAttempts:       opts.MaxAttempts,
		retryDelay:        opts.RetryDelay,
		examplesPerPrompt: opts.ExamplesPerPrompt,
		logger:            opts.Logger,
		now:               opts.Now,
		sleep:             opts.Sleep,
		validate:          validator.New(),
	}

	if generator.validator == nil {
		generator.validator = scorer.NewValidator(scorer.DefaultConfig())
	}
	if generator.fixer == nil {
		generator.fixer = llm.NewFixer()
	}
	if generator.strategy == "" {
		generator.strategy = llm.StrategyStructured
	}
	if generator.maxAttempts <= 0 || generator.maxAttempts > DefaultMaxAttempts {
		generator.maxAttempts = DefaultMaxAttempts
	}
	if generator.retryDelay <= 0 {
		generator.retryDelay = DefaultRetryDelay
	}
	if generator.examplesPerPrompt <= 0 {
		generator.examplesPerPrompt = DefaultExamplesPerPrompt
	}
	if generator.logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		generator.logger = logrus.NewEntry(quiet)
	}
	if generator.now == nil {
		generator.now = time.Now
	}
	if generator.sleep == nil {
		generator.sleep = sleepContext
	}

	return generator, err
}

// Generate produces a cover letter for req.
//
// At most MaxAttempts completions are requested, one at a time. A failed
// call or an unusable completion counts as a failed attempt; a usable one is
// scored and accepted unless the validator asks for a retry. When attempts
// run out, the highest-scoring usable attempt is assembled anyway. An error
// is returned only for invalid requests, cancellation, or when no attempt
// produced usable content.
func (g *Generator) Generate(ctx context.Context, req Request) (result Result, err error) {
	err = g.validate.Struct(req)
	if err != nil {
		err = errors.Wrapf(ErrInvalidRequest, "%s", err)
		return result, err
	}

	strategy := g.strategy
	if req.Strategy != "" {
		strategy = req.Strategy
	}

	var builder llm.PromptBuilder
	builder, err = llm.NewPromptBuilder(strategy, req.Resume, req.JobDescription)
	if err != nil {
		err = errors.Wrapf(ErrInvalidRequest, "%s", err)
		return result, err
	}

	gctx := gencontext.Builder{Now: g.now}.Build(req.Resume, req.JobDescription, req.Contact, req.Tone, req.Locale)

	result = Result{
		RequestID: uuid.NewString(),
		Context:   gctx,
		Industry:  rag.DetectIndustry(req.JobDescription),
		Level:     rag.DetectLevel(req.Resume),
		Strategy:  strategy,
	}

	log := g.logger.WithFields(logrus.Fields{
		"request_id": result.RequestID,
		"company":    gctx.Company(),
		"position":   gctx.Position(),
		"industry":   result.Industry,
		"level":      result.Level,
		"strategy":   strategy,
	})
	log.WithField("state", StateIdle).Debug("generation requested")

	// Request-scoped copy; never shared with other requests.
	history := append([]llm.Message(nil), req.History...)

	var lastErr error

	for n := 1; n <= g.maxAttempts; n++ {
		attemptLog := log.WithField("attempt", n)

		if n > 1 {
			attemptLog.WithField("state", StateRetrying).Debugf("waiting %s before next attempt", g.retryDelay)
			err = g.sleep(ctx, g.retryDelay)
			if err != nil {
				err = errors.Wrap(err, "generation cancelled")
				return result, err
			}
		}

		err = ctx.Err()
		if err != nil {
			err = errors.Wrap(err, "generation cancelled")
			return result, err
		}

		attemptLog.WithField("state", StateBuildingPrompt).Debug("building prompt")
		examples := g.library.Select(result.Industry, result.Level, gctx.Tone(), g.examplesPerPrompt, n)
		prompt := builder.Build(examples, gctx, n)
		exampleIDs := rag.IDs(examples)

		attemptLog.WithFields(logrus.Fields{
			"state":       StateAwaitingCompletion,
			"example_ids": exampleIDs,
		}).Debug("requesting completion")

		result.Calls++
		raw, callErr := g.completer.Complete(ctx, history, prompt)

		// Anything that arrives after cancellation is discarded.
		err = ctx.Err()
		if err != nil {
			err = errors.Wrap(err, "generation cancelled")
			return result, err
		}

		if callErr != nil {
			lastErr = errors.Wrapf(callErr, "attempt %d", n)
			attemptLog.WithError(callErr).Warn("completion failed")
			continue
		}

		completion := llm.ParseCompletion(raw)
		if utf8.RuneCountInString(completion.Content) < MinContentLength {
			lastErr = errors.Wrapf(ErrUnusableCompletion, "attempt %d: %d characters after parsing", n, utf8.RuneCountInString(completion.Content))
			attemptLog.WithField("kind", completion.Kind).Warn("completion too short")
			continue
		}

		attemptLog.WithField("state", StateValidating).Debug("scoring completion")
		report := g.validator.Validate(completion.Content, gctx.Contact(), req.Resume, req.JobDescription)

		attempt := Attempt{
			Number:     n,
			Content:    completion.Content,
			Kind:       completion.Kind,
			Metrics:    report.Metrics,
			Report:     report,
			ExampleIDs: exampleIDs,
		}
		result.Attempts = append(result.Attempts, attempt)

		attemptLog.WithFields(logrus.Fields{
			"overall_score": report.Metrics.Overall,
			"should_retry":  report.ShouldRetry,
			"weaknesses":    report.Weaknesses,
		}).Info("attempt scored")

		if !report.ShouldRetry {
			attemptLog.WithField("state", StateAccepted).Info("letter accepted")
			result.Accepted = true
			g.finish(&result, attempt)
			return result, err
		}
	}

	if len(result.Attempts) == 0 {
		err = &GenerationError{Attempts: result.Calls, Last: lastErr}
		log.WithError(lastErr).Error("no attempt produced usable content")
		return result, err
	}

	best := bestAttempt(result.Attempts)
	log.WithFields(logrus.Fields{
		"state":         StateExhausted,
		"chosen":        best.Number,
		"overall_score": best.Metrics.Overall,
	}).Warn("attempts exhausted, using best effort")

	g.finish(&result, best)
	return result, err
}

// finish cleans the chosen body and assembles the letter.
func (g *Generator) finish(result *Result, chosen Attempt) {
	body, fixes := g.fixer.Clean(chosen.Content, result.Context)

	result.Chosen = chosen
	result.Body = body
	result.Fixes = fixes
	result.Letter = renderer.Assemble(result.Context, body)
}

// bestAttempt returns the highest-scoring attempt; the earliest wins ties.
func bestAttempt(attempts []Attempt) (best Attempt) {
	best = attempts[0]
	for _, a := range attempts[1:] {
		if a.Metrics.Overall > best.Metrics.Overall {
			best = a
		}
	}
	return best
}

func sleepContext(ctx context.Context, d time.Duration) (err error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-timer.C:
	}

	return err
}
