// Package compose turns abstract communicative intents into one
// platform-legal reply. Handlers decide WHAT to say through the additive
// Builder API; rendering decides HOW — bubble counts, character limits,
// widget choice — when one of the render strategies consumes the builder.
package compose

import (
	"log/slog"

	"github.com/FVLArchive/qwatch/pkg/platform"
)

// ResponseType controls whether the conversation stays open after the reply.
type ResponseType int

const (
	// Normal keeps the conversation open.
	Normal ResponseType = iota
	// Final ends the conversation after this turn.
	Final
)

// SimpleResponse is one chat bubble before rendering. Exactly one of SSML and
// TextToSpeech must be set; the rule is checked during rendering, not here.
type SimpleResponse struct {
	SSML         string `json:"ssml,omitempty"`
	TextToSpeech string `json:"textToSpeech,omitempty"`
	DisplayText  string `json:"displayText,omitempty"`
}

// Suggestion is a quick-reply chip, optionally carrying an external link.
type Suggestion struct {
	Title   string `json:"title"`
	LinkURL string `json:"linkUrl,omitempty"`
}

// Option is one selectable item.
type Option struct {
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	ImageURI       string       `json:"imageUri,omitempty"`
	ActionKey      string       `json:"actionKey,omitempty"`
	ActionSynonyms []string     `json:"actionSynonyms,omitempty"`
	// SubSuggestions become card buttons when the option renders as a card.
	SubSuggestions []Suggestion `json:"subSuggestions,omitempty"`
	// VoiceMessage is spoken on screenless surfaces to describe the option.
	VoiceMessage string `json:"voiceMessage,omitempty"`
}

type transactionDecision struct {
	Order         platform.Order         `json:"order"`
	PaymentConfig platform.PaymentConfig `json:"paymentConfig"`
}

// Builder accumulates response directives for one turn. All Add methods are
// append-only and return the builder for chaining. A builder is owned by a
// single turn and is not safe for concurrent use.
type Builder struct {
	simpleResponses []SimpleResponse
	options         []Option
	optionsTitle    string
	suggestions     []Suggestion
	orderUpdate     *platform.OrderUpdate
	transaction     *transactionDecision
	voiceMessages   []string

	defaultListMessage string
	log                *slog.Logger
}

// NewBuilder creates a builder. defaultListMessage is the bubble injected
// when a selectable widget renders without any accompanying text.
func NewBuilder(defaultListMessage string, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		defaultListMessage: defaultListMessage,
		log:                log.With("component", "compose.builder"),
	}
}

// AddMessages appends one bubble per string, spoken and displayed identically.
func (b *Builder) AddMessages(texts ...string) *Builder {
	for _, text := range texts {
		b.simpleResponses = append(b.simpleResponses, SimpleResponse{
			TextToSpeech: text,
			DisplayText:  text,
		})
	}
	return b
}

// AddSimpleResponses appends raw bubbles that may differ between speech and
// display. Validity (length, exactly one of SSML/speech) is enforced at
// render time.
func (b *Builder) AddSimpleResponses(responses ...SimpleResponse) *Builder {
	b.simpleResponses = append(b.simpleResponses, responses...)
	return b
}

// AddOptions appends selectable items.
func (b *Builder) AddOptions(options ...Option) *Builder {
	b.options = append(b.options, options...)
	return b
}

// Options returns the accumulated selectable items.
func (b *Builder) Options() []Option {
	return b.options
}

// AddOptionsTitle sets the label shown above the option set. Last write wins.
func (b *Builder) AddOptionsTitle(title string) *Builder {
	b.optionsTitle = title
	return b
}

// AddSuggestions appends quick-reply chips.
func (b *Builder) AddSuggestions(suggestions ...Suggestion) *Builder {
	b.suggestions = append(b.suggestions, suggestions...)
	return b
}

// AddOrderUpdate sets the turn's order state record. Last write wins.
func (b *Builder) AddOrderUpdate(update platform.OrderUpdate) *Builder {
	b.orderUpdate = &update
	return b
}

// AddTransactionDecision sets a purchase proposal. When present it fully
// replaces every other directive at render time.
func (b *Builder) AddTransactionDecision(order platform.Order, cfg platform.PaymentConfig) *Builder {
	b.transaction = &transactionDecision{Order: order, PaymentConfig: cfg}
	return b
}

// AddVoiceMessage appends a voice-only aside heard on screenless surfaces.
func (b *Builder) AddVoiceMessage(text string) *Builder {
	b.voiceMessages = append(b.voiceMessages, text)
	return b
}

// AddVoiceMessageAt inserts a voice-only aside at index. Out-of-range indices
// clamp to the nearest valid position.
func (b *Builder) AddVoiceMessageAt(text string, index int) *Builder {
	if index < 0 {
		index = 0
	}
	if index > len(b.voiceMessages) {
		index = len(b.voiceMessages)
	}
	b.voiceMessages = append(b.voiceMessages, "")
	copy(b.voiceMessages[index+1:], b.voiceMessages[index:])
	b.voiceMessages[index] = text
	return b
}

// Snapshot is the serializable view of a builder, persisted per actor so a
// later turn can repeat the last reply.
type Snapshot struct {
	SimpleResponses []SimpleResponse      `json:"simpleResponses,omitempty"`
	Options         []Option              `json:"options,omitempty"`
	OptionsTitle    string                `json:"optionsTitle,omitempty"`
	Suggestions     []Suggestion          `json:"suggestions,omitempty"`
	OrderUpdate     *platform.OrderUpdate `json:"orderUpdate,omitempty"`
	VoiceMessages   []string              `json:"voiceMessages,omitempty"`
}

// Snapshot captures the accumulated directives.
func (b *Builder) Snapshot() Snapshot {
	return Snapshot{
		SimpleResponses: b.simpleResponses,
		Options:         b.options,
		OptionsTitle:    b.optionsTitle,
		Suggestions:     b.suggestions,
		OrderUpdate:     b.orderUpdate,
		VoiceMessages:   b.voiceMessages,
	}
}
