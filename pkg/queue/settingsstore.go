package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/FVLArchive/qwatch/pkg/settings"
)

// SettingsBackend persists lines through the settings provider's global
// scope, one JSON document per store. Writes are best-effort last-value
// overwrites; per-store locking keeps one process's turns from interleaving,
// but there is no cross-process isolation.
type SettingsBackend struct {
	provider settings.Provider

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSettingsBackend wraps a settings provider as line storage.
func NewSettingsBackend(provider settings.Provider) *SettingsBackend {
	return &SettingsBackend{provider: provider, locks: make(map[string]*sync.Mutex)}
}

func lineKey(storeID string) string {
	return "store/" + storeID
}

func (b *SettingsBackend) lock(storeID string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.locks[storeID]
	if !ok {
		l = &sync.Mutex{}
		b.locks[storeID] = l
	}
	return l
}

func (b *SettingsBackend) load(ctx context.Context, storeID string) ([]Item, error) {
	raw, err := b.provider.GetOrDefaultGlobal(ctx, lineKey(storeID), "")
	if err != nil {
		return nil, fmt.Errorf("read line for store %s: %w", storeID, err)
	}
	if raw == "" {
		return nil, nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode line for store %s: %w", storeID, err)
	}
	return items, nil
}

func (b *SettingsBackend) save(ctx context.Context, storeID string, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode line for store %s: %w", storeID, err)
	}
	if err := b.provider.SetGlobal(ctx, lineKey(storeID), string(raw)); err != nil {
		return fmt.Errorf("write line for store %s: %w", storeID, err)
	}
	return nil
}

func (b *SettingsBackend) Position(ctx context.Context, storeID, phone string) (int, error) {
	l := b.lock(storeID)
	l.Lock()
	defer l.Unlock()

	items, err := b.load(ctx, storeID)
	if err != nil {
		return 0, err
	}
	return indexOf(items, phone) + 1, nil
}

func (b *SettingsBackend) Length(ctx context.Context, storeID string) (int, error) {
	l := b.lock(storeID)
	l.Lock()
	defer l.Unlock()

	items, err := b.load(ctx, storeID)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (b *SettingsBackend) Remove(ctx context.Context, storeID, phone string) (bool, error) {
	if phone == "" {
		return false, nil
	}

	l := b.lock(storeID)
	l.Lock()
	defer l.Unlock()

	items, err := b.load(ctx, storeID)
	if err != nil {
		return false, err
	}
	i := indexOf(items, phone)
	if i < 0 {
		return false, nil
	}
	items = append(items[:i], items[i+1:]...)
	if err := b.save(ctx, storeID, items); err != nil {
		return false, err
	}
	return true, nil
}

func (b *SettingsBackend) Advance(ctx context.Context, storeID string) (*Item, error) {
	l := b.lock(storeID)
	l.Lock()
	defer l.Unlock()

	items, err := b.load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	head := items[0]
	if err := b.save(ctx, storeID, items[1:]); err != nil {
		return nil, err
	}
	return &head, nil
}

func (b *SettingsBackend) Add(ctx context.Context, storeID string, item Item) (int, error) {
	l := b.lock(storeID)
	l.Lock()
	defer l.Unlock()

	items, err := b.load(ctx, storeID)
	if err != nil {
		return 0, err
	}
	if i := indexOf(items, item.Phone); i >= 0 {
		return i + 1, nil
	}
	items = append(items, item)
	if err := b.save(ctx, storeID, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

func (b *SettingsBackend) UpdatePhone(ctx context.Context, storeID, oldPhone, newPhone string) (bool, error) {
	l := b.lock(storeID)
	l.Lock()
	defer l.Unlock()

	items, err := b.load(ctx, storeID)
	if err != nil {
		return false, err
	}
	if indexOf(items, newPhone) >= 0 {
		return false, nil
	}
	if i := indexOf(items, oldPhone); i >= 0 {
		items[i].Phone = newPhone
		if err := b.save(ctx, storeID, items); err != nil {
			return false, err
		}
	}
	return true, nil
}
