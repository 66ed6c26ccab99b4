// Package platform models the conversational delivery platform: the legacy
// webhook turn shape handlers consume, the rich reply payload they produce,
// and the responder handle that bridges the two. The successor protocol
// revision is declared here but not yet served.
package platform

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Surface capabilities reported by the platform for the active device.
const (
	CapabilityScreenOutput = "screen_output"
	CapabilityAudioOutput  = "audio_output"
)

// The platform sends "NEW"; older emulator captures show lowercase, so the
// comparison ignores case.
const conversationTypeNew = "NEW"

// ErrSuccessorProtocol marks a request body carrying the successor webhook
// revision, which this service does not serve yet.
var ErrSuccessorProtocol = errors.New("successor protocol request not supported")

// Context is a short-lived conversational state slot carried between turns.
type Context struct {
	Name       string            `json:"name"`
	Lifespan   int               `json:"lifespan,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// Request is one parsed legacy webhook turn.
type Request struct {
	Action            string
	Parameters        map[string]string
	Contexts          []Context
	ConversationID    string
	NewConversation   bool
	ActorID           string
	PermissionGranted bool
	Capabilities      []string
	SelectedOption    string
	// Storage is per-actor state the platform persists across conversations.
	Storage map[string]string
}

// legacyBody is the wire shape of the legacy webhook revision.
type legacyBody struct {
	Result *struct {
		Action     string            `json:"action"`
		Parameters map[string]string `json:"parameters,omitempty"`
		Contexts   []Context         `json:"contexts,omitempty"`
	} `json:"result,omitempty"`
	Conversation struct {
		ID   string `json:"id,omitempty"`
		Type string `json:"type,omitempty"`
	} `json:"conversation,omitempty"`
	User struct {
		ID                string            `json:"id,omitempty"`
		PermissionGranted bool              `json:"permissionGranted,omitempty"`
		Storage           map[string]string `json:"storage,omitempty"`
	} `json:"user,omitempty"`
	Surface struct {
		Capabilities []string `json:"capabilities,omitempty"`
	} `json:"surface,omitempty"`
	SelectedOption string `json:"selectedOption,omitempty"`

	// Presence of queryResult identifies the successor revision.
	QueryResult json.RawMessage `json:"queryResult,omitempty"`
}

// ParseLegacy decodes a legacy webhook body into a Request.
//
// A body carrying the successor shape is reported as ErrSuccessorProtocol so
// the service can answer with a distinct status instead of a generic parse
// failure.
func ParseLegacy(body []byte) (*Request, error) {
	var wire legacyBody
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode webhook body: %w", err)
	}

	if wire.Result == nil {
		if len(wire.QueryResult) > 0 {
			return nil, ErrSuccessorProtocol
		}
		return nil, errors.New("webhook body has no result")
	}
	if wire.Result.Action == "" {
		return nil, errors.New("webhook result has no action")
	}

	req := &Request{
		Action:            wire.Result.Action,
		Parameters:        wire.Result.Parameters,
		Contexts:          wire.Result.Contexts,
		ConversationID:    wire.Conversation.ID,
		NewConversation:   strings.EqualFold(wire.Conversation.Type, conversationTypeNew),
		ActorID:           wire.User.ID,
		PermissionGranted: wire.User.PermissionGranted,
		Capabilities:      wire.Surface.Capabilities,
		SelectedOption:    wire.SelectedOption,
		Storage:           wire.User.Storage,
	}
	if req.Parameters == nil {
		req.Parameters = map[string]string{}
	}
	if req.Storage == nil {
		req.Storage = map[string]string{}
	}

	return req, nil
}

// HasCapability reports whether the active surface carries the capability.
func (r *Request) HasCapability(name string) bool {
	for _, capability := range r.Capabilities {
		if capability == name {
			return true
		}
	}
	return false
}

// Context returns the active context with the given name, if present.
func (r *Request) Context(name string) (Context, bool) {
	for _, c := range r.Contexts {
		if c.Name == name {
			return c, true
		}
	}
	return Context{}, false
}

// Argument returns the intent parameter for key, or "" when absent. Context
// parameters supply a fallback so values bound by an earlier turn survive.
func (r *Request) Argument(key string) string {
	if value, ok := r.Parameters[key]; ok && value != "" {
		return value
	}
	for _, c := range r.Contexts {
		if value, ok := c.Parameters[key]; ok && value != "" {
			return value
		}
	}
	return ""
}
