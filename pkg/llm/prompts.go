package llm

import (
	"fmt"
	"strings"

	"github.com/nikogura/letter-tailor/pkg/gencontext"
	"github.com/nikogura/letter-tailor/pkg/rag"
	"github.com/pkg/errors"
)

// PromptBuilder renders the instruction text for one generation attempt.
type PromptBuilder interface {
	Build(examples []rag.Example, gctx gencontext.Context, attempt int) (prompt string)
	Strategy() (strategy Strategy)
}

// ParseStrategy maps a configured name onto a Strategy. Empty means structured.
func ParseStrategy(name string) (strategy Strategy, err error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case StrategyStructured, "":
		strategy = StrategyStructured
	case StrategyRawFewShot:
		strategy = StrategyRawFewShot
	default:
		err = errors.Errorf("unknown prompt strategy %q (use %s or %s)", name, StrategyStructured, StrategyRawFewShot)
	}
	return strategy, err
}

// NewPromptBuilder returns the builder for strategy. The raw few-shot
// strategy embeds the original résumé and job description text.
func NewPromptBuilder(strategy Strategy, resume, jobDescription string) (builder PromptBuilder, err error) {
	switch strategy {
	case StrategyStructured, "":
		builder = StructuredPromptBuilder{}
	case StrategyRawFewShot:
		builder = RawFewShotPromptBuilder{
			Resume:         resume,
			JobDescription: jobDescription,
		}
	default:
		err = errors.Errorf("unknown prompt strategy %q", strategy)
	}
	return builder, err
}

// StructuredPromptBuilder renders the extracted generation context as
// key-value text.
type StructuredPromptBuilder struct{}

// Strategy implements PromptBuilder.
func (StructuredPromptBuilder) Strategy() (strategy Strategy) {
	strategy = StrategyStructured
	return strategy
}

// Build implements PromptBuilder.
func (StructuredPromptBuilder) Build(examples []rag.Example, gctx gencontext.Context, attempt int) (prompt string) {
	var b strings.Builder

	b.WriteString(systemRules())
	b.WriteString(renderExamples(examples))
	b.WriteString("APPLICATION CONTEXT:\n")
	b.WriteString(renderContext(gctx))
	b.WriteString("\n")
	b.WriteString(factsRule(gctx))
	b.WriteString(outputContract())

	if attempt > 1 {
		b.WriteString(improvementFocus(attempt))
	}

	prompt = b.String()
	return prompt
}

// RawFewShotPromptBuilder renders the examples against the raw contact
// record and source documents.
type RawFewShotPromptBuilder struct {
	Resume         string
	JobDescription string
}

// Strategy implements PromptBuilder.
func (RawFewShotPromptBuilder) Strategy() (strategy Strategy) {
	strategy = StrategyRawFewShot
	return strategy
}

// Build implements PromptBuilder.
func (r RawFewShotPromptBuilder) Build(examples []rag.Example, gctx gencontext.Context, attempt int) (prompt string) {
	contact := gctx.Contact()

	var b strings.Builder

	b.WriteString(systemRules())
	b.WriteString(renderExamples(examples))

	b.WriteString("APPLICANT CONTACT:\n")
	fmt.Fprintf(&b, "Name: %s\n", contact.FullName)
	fmt.Fprintf(&b, "Title: %s\n", contact.ProfessionalTitle)
	fmt.Fprintf(&b, "Email: %s\n", contact.Email)
	if contact.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", contact.Phone)
	}
	fmt.Fprintf(&b, "Location: %s\n", contact.Location)
	if contact.LinkedIn != "" {
		fmt.Fprintf(&b, "LinkedIn: %s\n", contact.LinkedIn)
	}
	if contact.Portfolio != "" {
		fmt.Fprintf(&b, "Portfolio: %s\n", contact.Portfolio)
	}

	fmt.Fprintf(&b, "\nJOB DESCRIPTION:\n%s\n\n", strings.TrimSpace(r.JobDescription))
	fmt.Fprintf(&b, "RESUME:\n%s\n\n", strings.TrimSpace(r.Resume))
	fmt.Fprintf(&b, "TONE: %s\n\n", gctx.Tone())

	b.WriteString(factsRule(gctx))
	b.WriteString(outputContract())

	if attempt > 1 {
		b.WriteString(improvementFocus(attempt))
	}

	prompt = b.String()
	return prompt
}

func systemRules() (rules string) {
	rules = `You are an expert career writer creating a tailored cover letter.

CRITICAL STRUCTURE RULES:
- Open with exactly one greeting: "Dear Hiring Manager,"
- Close with exactly one sign-off ("Sincerely,") followed by the applicant's full name
- Write 3 to 5 body paragraphs in standard business-letter structure, separated by blank lines
- Keep each paragraph between 2 and 5 sentences and most sentences under 25 words
- NEVER use bracketed placeholders such as [Company Name], [Your Name] or {Position}
- NEVER discuss salary, benefits, perks, remote work or what the company can do for the applicant
- Focus on what the applicant has achieved and how it serves the role
- Avoid cliches such as "team player", "hard worker", "think outside the box" or "passionate about"

`
	return rules
}

func renderExamples(examples []rag.Example) (text string) {
	if len(examples) == 0 {
		return text
	}

	var b strings.Builder
	b.WriteString("HIGH-QUALITY EXAMPLES (match their structure and quality, never their facts):\n\n")

	for i, ex := range examples {
		fmt.Fprintf(&b, "EXAMPLE %d\n", i+1)
		fmt.Fprintf(&b, "Description: %s industry, %s level, %s tone\n", ex.Industry, ex.ExperienceLevel, ex.Tone)
		fmt.Fprintf(&b, "Input: %s\n", ex.InputDescription)
		fmt.Fprintf(&b, "Quality score: %.2f\n", ex.QualityScore)
		fmt.Fprintf(&b, "Output:\n%s\n\n", ex.OutputText)
	}

	text = b.String()
	return text
}

func renderContext(gctx gencontext.Context) (text string) {
	contact := gctx.Contact()

	var b strings.Builder
	fmt.Fprintf(&b, "company: %s\n", gctx.Company())
	fmt.Fprintf(&b, "position: %s\n", gctx.Position())
	fmt.Fprintf(&b, "tone: %s\n", gctx.Tone())
	fmt.Fprintf(&b, "applicant: %s\n", contact.FullName)
	if contact.ProfessionalTitle != "" {
		fmt.Fprintf(&b, "applicant_title: %s\n", contact.ProfessionalTitle)
	}
	fmt.Fprintf(&b, "applicant_location: %s\n", contact.Location)

	b.WriteString("requirements:\n")
	writeList(&b, gctx.Requirements())
	b.WriteString("achievements:\n")
	writeList(&b, gctx.Achievements())

	text = b.String()
	return text
}

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("- (none provided)\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func factsRule(gctx gencontext.Context) (rule string) {
	rule = fmt.Sprintf(`FACTS RULE:
Use ONLY the company (%s), position (%s), applicant name and achievements supplied above, exactly as written.
NEVER invent employers, numbers, technologies, awards or credentials that are not supplied.
If an achievement is not supplied, describe experience qualitatively instead of fabricating a figure.

`, gctx.Company(), gctx.Position())
	return rule
}

func outputContract() (contract string) {
	contract = `OUTPUT FORMAT:
Return either the plain letter text, or JSON of the form {"content": "<the full letter>"}.
No markdown headings, no commentary before or after the letter.
`
	return contract
}

func improvementFocus(attempt int) (block string) {
	block = fmt.Sprintf(`
IMPROVEMENT FOCUS (attempt %d, previous drafts did not meet the quality bar):
- FORMAT: exactly one greeting, exactly one closing with the applicant's full name, 3 to 5 substantial paragraphs
- QUANTIFICATION: include at least two of the supplied measurable results (percentages, amounts, counts)
- INTEGRATION: name the company and the exact position title, and tie each achievement to a stated requirement
- PLACEHOLDERS: the letter must contain no bracketed or templated text of any kind
`, attempt)
	return block
}
