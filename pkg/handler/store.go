package handler

import (
	"context"
	"fmt"

	"github.com/FVLArchive/qwatch/pkg/compose"
	"github.com/FVLArchive/qwatch/pkg/messages"
)

// SelectStore resolves the option the actor picked against the store
// catalog and pins the match into cross-conversation storage.
type SelectStore struct{}

func (SelectStore) BuildResponse(ctx context.Context, pkg *Package, b *compose.Builder) (compose.ResponseType, error) {
	selected := pkg.Responder.Request().SelectedOption
	stores, err := pkg.Queue.AvailableStores(ctx)
	if err != nil {
		return compose.Normal, fmt.Errorf("list stores: %w", err)
	}

	for _, store := range stores {
		if store.ID == selected {
			pkg.Responder.Storage()[StoreIDKey] = store.ID
			b.AddMessages(messages.StoreSet(store.Name))
			b.AddSuggestions(compose.Suggestion{Title: messages.SgnCheckLine()})
			return compose.Normal, nil
		}
	}

	b.AddMessages(messages.InvalidStore())
	addStoreOptions(pkg, b, stores)
	return compose.Normal, nil
}

// AskForStore prompts for a store choice. It also doubles as the landing
// intent after the notification permission flow, recording a grant when the
// platform reports one.
type AskForStore struct{}

func (AskForStore) BuildResponse(ctx context.Context, pkg *Package, b *compose.Builder) (compose.ResponseType, error) {
	if pkg.Responder.Request().PermissionGranted {
		if err := pkg.Settings.Set(ctx, notificationPermissionKey, "true"); err != nil {
			return compose.Normal, fmt.Errorf("store notification permission: %w", err)
		}
	}

	stores, err := pkg.Queue.AvailableStores(ctx)
	if err != nil {
		return compose.Normal, fmt.Errorf("list stores: %w", err)
	}
	b.AddMessages(messages.AskStore())
	addStoreOptions(pkg, b, stores)
	return compose.Normal, nil
}
