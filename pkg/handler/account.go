package handler

import (
	"context"
	"fmt"

	"github.com/FVLArchive/qwatch/pkg/compose"
	"github.com/FVLArchive/qwatch/pkg/messages"
)

// UpdatePhone swaps a customer's number in place so their spot in the line
// survives the change.
type UpdatePhone struct{}

func (UpdatePhone) BuildResponse(ctx context.Context, pkg *Package, b *compose.Builder) (compose.ResponseType, error) {
	newPhone := pkg.Responder.Request().Argument(PhoneKey)
	if newPhone == "" {
		b.AddMessages(messages.NoPhoneProvided())
		return compose.Normal, nil
	}

	oldPhone, err := pkg.Settings.GetOrDefault(ctx, PhoneKey, "")
	if err != nil {
		return compose.Normal, fmt.Errorf("read stored phone: %w", err)
	}

	updated, err := pkg.Queue.UpdatePhone(ctx, oldPhone, newPhone)
	if err != nil {
		return compose.Normal, fmt.Errorf("update phone %q: %w", oldPhone, err)
	}
	if !updated {
		b.AddMessages(messages.AlreadyInUse(newPhone))
	} else {
		if err := pkg.Settings.Set(ctx, PhoneKey, newPhone); err != nil {
			return compose.Normal, fmt.Errorf("store phone: %w", err)
		}
		b.AddMessages(messages.UpdatePhoneSuccess(newPhone))
	}

	b.AddSuggestions(
		compose.Suggestion{Title: messages.SgnCheckLine()},
		compose.Suggestion{Title: messages.SgnUpdatePhone()},
	)
	return compose.Normal, nil
}

// Welcome is the conversation entry point. The greeting itself comes from
// the shared lifecycle; this step only asks which role the actor plays.
type Welcome struct{}

func (Welcome) BuildResponse(ctx context.Context, pkg *Package, b *compose.Builder) (compose.ResponseType, error) {
	b.AddMessages(messages.CustomerOrStaff())
	b.AddSuggestions(
		compose.Suggestion{Title: messages.SgnCustomer()},
		compose.Suggestion{Title: messages.SgnStaff()},
	)
	return compose.Normal, nil
}

// NotificationPermission hands the turn to the platform's permission prompt.
// The grant outcome arrives on a later turn and is recorded by AskForStore.
type NotificationPermission struct{}

func (NotificationPermission) BuildResponse(ctx context.Context, pkg *Package, b *compose.Builder) (compose.ResponseType, error) {
	pkg.Responder.AskForUpdatePermission(NotificationIntent, "Your Turn")
	return compose.Normal, nil
}
