package handler

import (
	"context"
	"fmt"

	"github.com/FVLArchive/qwatch/pkg/compose"
	"github.com/FVLArchive/qwatch/pkg/messages"
	"github.com/FVLArchive/qwatch/pkg/notify"
	"github.com/FVLArchive/qwatch/pkg/queue"
)

// AddToLine enqueues a phone number at the selected store.
type AddToLine struct {
	Role Role
}

func (h AddToLine) BuildResponse(ctx context.Context, pkg *Package, b *compose.Builder) (compose.ResponseType, error) {
	phone := pkg.Responder.Request().Argument(PhoneKey)
	if phone == "" {
		b.AddMessages(messages.NoPhoneProvided())
		return compose.Normal, nil
	}

	item := queue.Item{Phone: phone}
	if h.Role == RoleCustomer {
		// Customers who granted the push permission get woken up when
		// their turn comes, so tie the entry to their platform identity.
		granted, err := pkg.Settings.GetOrDefault(ctx, notificationPermissionKey, "")
		if err != nil {
			return compose.Normal, fmt.Errorf("read notification permission: %w", err)
		}
		if granted == "true" {
			item.ActorID = pkg.Responder.Request().ActorID
		}
	}

	position, err := pkg.Queue.Add(ctx, item)
	if err != nil {
		return compose.Normal, fmt.Errorf("add %q to line: %w", phone, err)
	}
	b.AddMessages(messages.Position(phone, position))

	if h.Role == RoleCustomer {
		if err := pkg.Settings.Set(ctx, PhoneKey, phone); err != nil {
			return compose.Normal, fmt.Errorf("store phone: %w", err)
		}
		b.AddMessages(messages.NotifyAction(phone))
		b.AddSuggestions(compose.Suggestion{Title: messages.SgnUpdatePhone()})
	} else {
		b.AddSuggestions(
			compose.Suggestion{Title: messages.SgnNextCustomer()},
			compose.Suggestion{Title: messages.SgnAddNewCustomer()},
		)
	}
	b.AddSuggestions(
		compose.Suggestion{Title: messages.SgnRemoveFromLine()},
		compose.Suggestion{Title: messages.SgnCheckLine()},
	)
	return compose.Normal, nil
}

// RemoveFromLine drops a phone number from the line.
type RemoveFromLine struct {
	Role Role
}

func (h RemoveFromLine) BuildResponse(ctx context.Context, pkg *Package, b *compose.Builder) (compose.ResponseType, error) {
	phone, err := resolvePhone(ctx, pkg, h.Role)
	if err != nil {
		return compose.Normal, err
	}
	if phone == "" {
		b.AddMessages(messages.NoPhoneProvided())
		return compose.Normal, nil
	}

	removed, err := pkg.Queue.Remove(ctx, phone)
	if err != nil {
		return compose.Normal, fmt.Errorf("remove %q from line: %w", phone, err)
	}
	if removed {
		b.AddMessages(messages.RemovedFromLine(phone))
	} else {
		b.AddMessages(messages.NotInLine(phone))
	}

	if h.Role == RoleStaff {
		b.AddSuggestions(
			compose.Suggestion{Title: messages.SgnNextCustomer()},
			compose.Suggestion{Title: messages.SgnAddNewCustomer()},
			compose.Suggestion{Title: messages.SgnRemoveFromLine()},
		)
	}
	b.AddSuggestions(compose.Suggestion{Title: messages.SgnCheckLine()})
	return compose.Normal, nil
}

// CheckLine reports the phone's position when it is enqueued, otherwise a
// role-specific view of the line as a whole.
type CheckLine struct {
	Role Role
}

func (h CheckLine) BuildResponse(ctx context.Context, pkg *Package, b *compose.Builder) (compose.ResponseType, error) {
	phone, err := resolvePhone(ctx, pkg, h.Role)
	if err != nil {
		return compose.Normal, err
	}

	if phone != "" {
		position, err := pkg.Queue.Position(ctx, phone)
		if err != nil {
			return compose.Normal, fmt.Errorf("check position of %q: %w", phone, err)
		}
		if position > 0 {
			b.AddMessages(messages.Position(phone, position))
			b.AddSuggestions(
				compose.Suggestion{Title: messages.SgnRemoveFromLine()},
				compose.Suggestion{Title: messages.SgnCheckLine()},
			)
			return compose.Normal, nil
		}
	}

	length, err := pkg.Queue.Length(ctx)
	if err != nil {
		return compose.Normal, fmt.Errorf("check line length: %w", err)
	}

	if h.Role == RoleCustomer {
		if length == 0 {
			b.AddMessages(messages.ComeNow())
			b.AddSuggestions(compose.Suggestion{Title: messages.SgnCheckLine()})
			return compose.Normal, nil
		}
		// Arm the follow-up so a plain "yes" lands in the wait-in-line
		// intent with the phone already attached.
		pkg.Responder.SetContext(WaitInLineContext, 2, map[string]string{PhoneKey: phone})
		b.AddMessages(messages.OfferToJoinLine(length))
		b.AddSuggestions(
			compose.Suggestion{Title: messages.SgnYes()},
			compose.Suggestion{Title: messages.SgnNo()},
		)
		return compose.Normal, nil
	}

	if length == 0 {
		b.AddMessages(messages.NoOneInLine())
	} else {
		b.AddMessages(messages.PeopleInLine(length))
		b.AddSuggestions(
			compose.Suggestion{Title: messages.SgnNextCustomer()},
			compose.Suggestion{Title: messages.SgnRemoveFromLine()},
		)
	}
	b.AddSuggestions(compose.Suggestion{Title: messages.SgnAddNewCustomer()})
	return compose.Normal, nil
}

// NextInLine pops the head of the line and tells staff who to call. When the
// popped entry carries a platform identity, a push notification goes out on
// a detached worker so a slow push service never stalls the reply.
type NextInLine struct{}

func (NextInLine) BuildResponse(ctx context.Context, pkg *Package, b *compose.Builder) (compose.ResponseType, error) {
	item, err := pkg.Queue.Advance(ctx)
	if err != nil {
		return compose.Normal, fmt.Errorf("advance line: %w", err)
	}
	if item == nil {
		b.AddMessages(messages.NoOneInLine())
		b.AddSuggestions(
			compose.Suggestion{Title: messages.SgnAddNewCustomer()},
			compose.Suggestion{Title: messages.SgnCheckLine()},
		)
		return compose.Normal, nil
	}

	if item.ActorID != "" {
		notify.Dispatch(pkg.Notifier, pkg.Log, item.ActorID, NotificationIntent, "Your Turn")
	}
	b.AddMessages(messages.Notify(item.Phone))

	remaining, err := pkg.Queue.Length(ctx)
	if err != nil {
		return compose.Normal, fmt.Errorf("check line length: %w", err)
	}
	if remaining > 0 {
		b.AddSuggestions(
			compose.Suggestion{Title: messages.SgnNextCustomer()},
			compose.Suggestion{Title: messages.SgnRemoveFromLine()},
		)
	} else {
		b.AddMessages(messages.LastInLine())
	}
	b.AddSuggestions(
		compose.Suggestion{Title: messages.SgnAddNewCustomer()},
		compose.Suggestion{Title: messages.SgnCheckLine()},
	)
	return compose.Normal, nil
}
