package compose

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/FVLArchive/qwatch/pkg/platform"
)

// Delivery platform limits for one reply.
const (
	maxChatBubbles    = 2
	maxCharsPerBubble = 640
	maxSuggestions    = 8
	maxSuggestionTitle = 25
	// Link chips lose 5 characters to the "Open " prefix the platform
	// prepends to them.
	maxSuggestionLinkTitle = maxSuggestionTitle - 5
)

const (
	ssmlOpenElement  = "<speak>"
	ssmlCloseElement = "</speak>"
	// messageDelimiter joins bubbles that had to be merged to satisfy the
	// bubble count limit.
	messageDelimiter = "\n\n"
	ellipsis         = "..."
	// fallbackListTitle labels a list when no options title was provided.
	fallbackListTitle = "Options"
)

// ErrNotImplemented reports a render strategy that exists in the interface
// but has no implementation yet.
var ErrNotImplemented = errors.New("render strategy not implemented")

// RenderLegacy consumes the accumulated directives and submits one reply
// through the legacy protocol handle.
//
// Constraint violations degrade: merges that cannot fit are abandoned with a
// warning and the original content is emitted as-is. Rendering never returns
// a validation error.
func (b *Builder) RenderLegacy(r *platform.Responder, responseType ResponseType) error {
	// A transaction decision fully replaces the turn's output.
	if b.transaction != nil {
		r.AskForTransactionDecision(b.transaction.Order, b.transaction.PaymentConfig)
		return nil
	}

	b.foldVoiceMessages(r.Request().HasCapability(platform.CapabilityScreenOutput))

	rich := &platform.RichResponse{}
	b.renderSimpleResponses(rich)
	b.renderSuggestions(rich)
	if b.orderUpdate != nil {
		rich.AddOrderUpdate(*b.orderUpdate)
	}
	b.renderOptions(r, responseType, rich)
	return nil
}

// RenderNext is the successor-protocol render strategy. It fails explicitly
// so dropped content is never mistaken for a successful turn.
func (b *Builder) RenderNext(*platform.NextResponse, ResponseType) error {
	return ErrNotImplemented
}

// foldVoiceMessages merges the voice-only asides into the spoken text of the
// last bubble when the surface has no screen. If the merged bubble would
// break the limits the merge is abandoned and the asides are dropped.
func (b *Builder) foldVoiceMessages(hasScreen bool) {
	if len(b.voiceMessages) == 0 || hasScreen {
		return
	}

	if len(b.simpleResponses) == 0 {
		b.simpleResponses = append(b.simpleResponses, SimpleResponse{})
	}

	last := b.simpleResponses[len(b.simpleResponses)-1]
	parts := make([]string, 0, len(b.voiceMessages)+1)
	if last.TextToSpeech != "" {
		parts = append(parts, last.TextToSpeech)
	}
	parts = append(parts, b.voiceMessages...)
	last.TextToSpeech = strings.Join(parts, messageDelimiter)

	if !validSimpleResponse(last) {
		b.log.Warn("Could not merge voice-only messages into the last chat bubble",
			"voice_messages", len(b.voiceMessages))
		return
	}

	b.simpleResponses[len(b.simpleResponses)-1] = last
}

// renderSimpleResponses reduces the bubbles to the platform count limit and
// writes them onto the rich response.
func (b *Builder) renderSimpleResponses(rich *platform.RichResponse) {
	responses := b.reduceSimpleResponses(b.simpleResponses)
	if len(responses) > maxChatBubbles {
		responses = responses[:maxChatBubbles]
	}
	for _, sr := range responses {
		rich.AddSimpleResponse(platform.SimpleResponseItem{
			TextToSpeech: sr.TextToSpeech,
			SSML:         sr.SSML,
			DisplayText:  sr.DisplayText,
		})
	}
}

// reduceSimpleResponses merges the earliest n-1 bubbles into one synthetic
// bubble when more than the permitted count exist, preserving order. If the
// merged bubble would violate the limits, the original set is returned
// unchanged and a warning is recorded.
func (b *Builder) reduceSimpleResponses(srs []SimpleResponse) []SimpleResponse {
	n := len(srs)
	if n <= maxChatBubbles {
		return srs
	}

	mergeSet := srs[:n-maxChatBubbles+1]

	var displays, speeches, ssmlBodies []string
	for _, sr := range mergeSet {
		displays = append(displays, sr.DisplayText)
		if sr.TextToSpeech != "" {
			speeches = append(speeches, sr.TextToSpeech)
		}
		if sr.SSML != "" {
			body := strings.TrimPrefix(sr.SSML, ssmlOpenElement)
			body = strings.TrimSuffix(body, ssmlCloseElement)
			ssmlBodies = append(ssmlBodies, body)
		}
	}

	merged := SimpleResponse{
		DisplayText:  strings.Join(displays, messageDelimiter),
		TextToSpeech: strings.Join(speeches, messageDelimiter),
	}
	if len(ssmlBodies) > 0 {
		merged.SSML = ssmlOpenElement + strings.Join(ssmlBodies, messageDelimiter) + ssmlCloseElement
	}

	if !validSimpleResponse(merged) {
		b.log.Warn("Turn has more chat bubbles than the platform permits and they could not be merged",
			"bubbles", n, "max", maxChatBubbles)
		return srs
	}

	reduced := make([]SimpleResponse, 0, maxChatBubbles)
	reduced = append(reduced, merged)
	reduced = append(reduced, srs[n-maxChatBubbles+1:]...)
	return reduced
}

// validSimpleResponse enforces the per-bubble requirements: within the
// character limit and carrying exactly one of SSML or plain speech. The limit
// counts runes, matching the truncation convention for chip titles.
func validSimpleResponse(sr SimpleResponse) bool {
	if utf8.RuneCountInString(sr.DisplayText) > maxCharsPerBubble {
		return false
	}
	if sr.SSML != "" && utf8.RuneCountInString(sr.SSML) > maxCharsPerBubble {
		return false
	}
	if sr.TextToSpeech != "" && utf8.RuneCountInString(sr.TextToSpeech) > maxCharsPerBubble {
		return false
	}
	return (sr.SSML != "") != (sr.TextToSpeech != "")
}

// renderSuggestions writes the quick-reply chips, enforcing the count limit,
// per-title character limits, and the single-link rule.
func (b *Builder) renderSuggestions(rich *platform.RichResponse) {
	suggestions := b.suggestions
	if len(b.options) == 1 {
		// A lone option renders as a card, which cannot be tapped to
		// answer. Mirror its title as the first chip so the turn stays
		// navigable.
		suggestions = append([]Suggestion{{Title: b.options[0].Title}}, suggestions...)
	}

	if len(suggestions) > maxSuggestions {
		b.log.Warn("Dropping excess suggestions", "count", len(suggestions), "max", maxSuggestions)
		suggestions = suggestions[:maxSuggestions]
	}

	linkRendered := false
	for _, suggestion := range suggestions {
		limit := maxSuggestionTitle
		if suggestion.LinkURL != "" {
			limit = maxSuggestionLinkTitle
		}
		title := truncateTitle(suggestion.Title, limit)

		if suggestion.LinkURL == "" {
			rich.AddSuggestion(title)
			continue
		}
		if linkRendered {
			b.log.Warn("Dropping link suggestion, at most one may render", "title", suggestion.Title)
			continue
		}
		rich.AddSuggestionLink(title, suggestion.LinkURL)
		linkRendered = true
	}
}

// truncateTitle shortens a chip title to limit runes, marking the cut with an
// ellipsis.
func truncateTitle(title string, limit int) string {
	runes := []rune(title)
	if len(runes) <= limit {
		return title
	}
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}

// renderOptions selects the widget for the accumulated options and submits
// the reply through the matching terminal call.
func (b *Builder) renderOptions(r *platform.Responder, responseType ResponseType, rich *platform.RichResponse) {
	if len(b.options) == 0 {
		if responseType == Final {
			r.Tell(rich)
			return
		}
		r.Ask(rich)
		return
	}

	if len(b.options) == 1 {
		b.renderCard(r, rich, b.options[0])
		return
	}

	// Lists and carousels must be accompanied by at least one text bubble.
	if len(rich.SimpleResponses()) == 0 {
		rich.AddSimpleResponse(platform.SimpleResponseItem{
			TextToSpeech: b.defaultListMessage,
			DisplayText:  b.defaultListMessage,
		})
	}

	items := make([]platform.ListItem, 0, len(b.options))
	for _, option := range b.options {
		item := platform.ListItem{
			Key:         option.ActionKey,
			Synonyms:    option.ActionSynonyms,
			Title:       option.Title,
			Description: option.Description,
		}
		if option.ImageURI != "" {
			item.Image = &platform.Image{URL: option.ImageURI, AccessibilityText: option.Title}
		}
		items = append(items, item)
	}

	if b.preferList() {
		title := b.optionsTitle
		if title == "" {
			title = fallbackListTitle
		}
		r.AskWithList(rich, title, items)
		return
	}
	r.AskWithCarousel(rich, items)
}

// renderCard presents a single option as a detail card. Only link-bearing
// sub-suggestions can become card buttons.
func (b *Builder) renderCard(r *platform.Responder, rich *platform.RichResponse, option Option) {
	card := platform.BasicCard{Title: option.Title, BodyText: option.Description}
	if option.ImageURI != "" {
		card.Image = &platform.Image{URL: option.ImageURI, AccessibilityText: option.Title}
	}
	for _, sub := range option.SubSuggestions {
		if sub.LinkURL == "" {
			b.log.Warn("Dropping card button without a link URL", "title", sub.Title)
			continue
		}
		card.Buttons = append(card.Buttons, platform.Button{Title: sub.Title, URL: sub.LinkURL})
	}
	rich.AddBasicCard(card)
	r.Ask(rich)
}

// preferList chooses the list layout over the carousel when there are too
// many options for a carousel or when no option has anything to show beyond
// its title.
func (b *Builder) preferList() bool {
	if len(b.options) > 6 {
		return true
	}
	for _, option := range b.options {
		if option.ImageURI != "" || option.Description != "" {
			return false
		}
	}
	return true
}
