// Package handler implements the per-intent turn logic. Every intent shares
// one fixed lifecycle (welcome injection, store resolution, domain response,
// voice folding, versioned render, persistence, error containment) and
// supplies only its domain step through the Handler interface.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/FVLArchive/qwatch/pkg/compose"
	"github.com/FVLArchive/qwatch/pkg/messages"
	"github.com/FVLArchive/qwatch/pkg/notify"
	"github.com/FVLArchive/qwatch/pkg/platform"
	"github.com/FVLArchive/qwatch/pkg/queue"
	"github.com/FVLArchive/qwatch/pkg/settings"
)

// Settings and platform-storage keys.
const (
	PhoneKey   = "phone"
	StoreIDKey = "storeid"

	conversationCountKey = "conversationCount"
	lastResponseKey      = "lastResponseToUser"
	// Historical spelling; stored actor data depends on this exact key.
	notificationPermissionKey = "notifcation_permission"
)

// Conversational contexts carried between turns.
const (
	WaitInLineContext      = "wait_in_line"
	SelectStoreContext     = "select_store"
	NewConversationContext = "conversation_new"
)

// NotificationIntent re-opens the conversation when a push prompt is tapped.
const NotificationIntent = "send_notification"

// maxConversationCount bounds the per-actor turn counter so storage cannot
// grow without limit while keeping it useful for analytics.
const maxConversationCount = 10000

// Role distinguishes the two actor kinds behind a conversation.
type Role int

const (
	RoleCustomer Role = iota
	RoleStaff
)

// Package carries everything one turn needs: the platform handle, the
// actor's settings, the queue view, and the notification sender. A package
// lives for exactly one turn.
type Package struct {
	Responder *platform.Responder
	Settings  *settings.Handle
	Queue     *queue.Source
	Notifier  notify.Sender
	Log       *slog.Logger

	// Next, when set, selects the successor-protocol render strategy.
	Next *platform.NextResponse
}

// Handler is the domain step of one intent. Implementations append
// directives to the builder and report whether the conversation continues.
type Handler interface {
	BuildResponse(ctx context.Context, pkg *Package, b *compose.Builder) (compose.ResponseType, error)
}

// Respond runs the full turn lifecycle for one intent. Errors from any step
// are contained here: they are logged and converted into a generic apology
// on the platform handle, never returned to the dispatcher.
func Respond(ctx context.Context, pkg *Package, h Handler) {
	if pkg.Log == nil {
		pkg.Log = slog.Default()
	}
	log := pkg.Log.With("component", "handler", "action", pkg.Responder.Request().Action)

	b := compose.NewBuilder(messages.DefaultListMessage(), pkg.Log)
	if err := respond(ctx, pkg, h, b); err != nil {
		log.Error("Turn failed, answering with apology", "error", err)
		// The apology replaces whatever was composed; ending the
		// conversation is left to the platform.
		pkg.Responder.AskText(messages.Apology())
	}
}

func respond(ctx context.Context, pkg *Package, h Handler, b *compose.Builder) error {
	if err := buildWelcome(ctx, pkg, b); err != nil {
		return err
	}

	// Bind the actor's selected store onto the queue view for this turn.
	pkg.Queue.StoreID = pkg.Responder.Storage()[StoreIDKey]

	responseType, err := h.BuildResponse(ctx, pkg, b)
	if err != nil {
		return err
	}

	// Handlers that drive the platform directly (permission prompts) have
	// already submitted their payload; rendering would overwrite it.
	if !pkg.Responder.Responded() {
		foldOptionVoices(b)

		if pkg.Next != nil {
			if err := b.RenderNext(pkg.Next, responseType); err != nil {
				return err
			}
		} else if err := b.RenderLegacy(pkg.Responder, responseType); err != nil {
			return err
		}
	}

	return persistLastResponse(ctx, pkg, b)
}

// buildWelcome greets the actor on the first turn of a conversation. The
// greeting warms up after a few conversations, tracked by a capped counter
// in the actor's settings.
func buildWelcome(ctx context.Context, pkg *Package, b *compose.Builder) error {
	if !isNewConversation(pkg.Responder.Request()) {
		return nil
	}

	raw, err := pkg.Settings.GetOrDefault(ctx, conversationCountKey, "0")
	if err != nil {
		return fmt.Errorf("read conversation count: %w", err)
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		count = 0
	}

	if count > 2 {
		b.AddMessages(messages.FamiliarWelcome())
	} else {
		b.AddMessages(messages.IntroductoryWelcome())
	}

	next := min(count+1, maxConversationCount)
	if err := pkg.Settings.Set(ctx, conversationCountKey, strconv.Itoa(next)); err != nil {
		return fmt.Errorf("store conversation count: %w", err)
	}
	return nil
}

func isNewConversation(req *platform.Request) bool {
	if req.NewConversation {
		return true
	}
	_, ok := req.Context(NewConversationContext)
	return ok
}

// foldOptionVoices turns the options' voice descriptions into one spoken
// aside, placed before any other voice-only content.
func foldOptionVoices(b *compose.Builder) {
	var voices []string
	for _, option := range b.Options() {
		if option.VoiceMessage != "" {
			voices = append(voices, option.VoiceMessage)
		}
	}
	if len(voices) == 0 {
		return
	}
	b.AddVoiceMessageAt(messages.ConcatenateOptionsList(voices), 0)
}

// persistLastResponse saves the composed reply so a later turn could repeat
// it.
func persistLastResponse(ctx context.Context, pkg *Package, b *compose.Builder) error {
	raw, err := json.Marshal(b.Snapshot())
	if err != nil {
		return fmt.Errorf("encode last response: %w", err)
	}
	if err := pkg.Settings.Set(ctx, lastResponseKey, string(raw)); err != nil {
		return fmt.Errorf("store last response: %w", err)
	}
	return nil
}

// resolvePhone determines the effective phone number for the turn.
//
// Customers fall back to their stored number and capture the platform
// argument into settings on first use. Staff always act on the argument
// verbatim, which may be empty.
func resolvePhone(ctx context.Context, pkg *Package, role Role) (string, error) {
	arg := pkg.Responder.Request().Argument(PhoneKey)

	if role == RoleStaff {
		return arg, nil
	}

	phone, err := pkg.Settings.GetOrDefault(ctx, PhoneKey, "")
	if err != nil {
		return "", fmt.Errorf("read stored phone: %w", err)
	}
	if phone == "" && arg != "" {
		phone = arg
		if err := pkg.Settings.Set(ctx, PhoneKey, phone); err != nil {
			return "", fmt.Errorf("store phone: %w", err)
		}
	}
	return phone, nil
}

// addStoreOptions renders the store catalog as a selectable prompt and arms
// the select-store context for the reply turn.
func addStoreOptions(pkg *Package, b *compose.Builder, stores []queue.Store) {
	pkg.Responder.SetContext(SelectStoreContext, 1, nil)
	b.AddOptionsTitle(messages.ListStore())
	for _, store := range stores {
		b.AddOptions(compose.Option{Title: store.Name, ActionKey: store.ID})
	}
}
