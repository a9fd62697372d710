package llm

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles. Providers map RoleModel onto their own assistant role.
const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one prior turn of the conversation sent along with a prompt.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Provider names an LLM backend.
type Provider string

// Supported providers.
const (
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// Strategy names a prompt-building strategy.
type Strategy string

// Supported prompt strategies.
const (
	StrategyStructured Strategy = "structured"
	StrategyRawFewShot Strategy = "raw_few_shot"
)

// CompletionKind tags the shape a completion arrived in.
type CompletionKind int

// Completion shapes.
const (
	RawText CompletionKind = iota
	Envelope
)

// String returns the kind name used in logs.
func (k CompletionKind) String() (name string) {
	switch k {
	case Envelope:
		name = "envelope"
	default:
		name = "raw_text"
	}
	return name
}

// Completion is the parsed result of an LLM response.
type Completion struct {
	Kind    CompletionKind
	Content string
}
