package queue

import (
	"context"
	"strings"
	"sync"
)

// MemoryBackend keeps lines in process memory. Access is serialized per
// store, so concurrent turns against the same line cannot interleave their
// read-modify-write cycles.
type MemoryBackend struct {
	mu    sync.Mutex
	lines map[string]*line
}

type line struct {
	mu    sync.Mutex
	items []Item
}

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{lines: make(map[string]*line)}
}

func (b *MemoryBackend) line(storeID string) *line {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.lines[storeID]
	if !ok {
		l = &line{}
		b.lines[storeID] = l
	}
	return l
}

func (b *MemoryBackend) Position(_ context.Context, storeID, phone string) (int, error) {
	l := b.line(storeID)
	l.mu.Lock()
	defer l.mu.Unlock()

	return indexOf(l.items, phone) + 1, nil
}

func (b *MemoryBackend) Length(_ context.Context, storeID string) (int, error) {
	l := b.line(storeID)
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.items), nil
}

func (b *MemoryBackend) Remove(_ context.Context, storeID, phone string) (bool, error) {
	if strings.TrimSpace(phone) == "" {
		return false, nil
	}

	l := b.line(storeID)
	l.mu.Lock()
	defer l.mu.Unlock()

	i := indexOf(l.items, phone)
	if i < 0 {
		return false, nil
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true, nil
}

func (b *MemoryBackend) Advance(_ context.Context, storeID string) (*Item, error) {
	l := b.line(storeID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.items) == 0 {
		return nil, nil
	}
	head := l.items[0]
	l.items = l.items[1:]
	return &head, nil
}

func (b *MemoryBackend) Add(_ context.Context, storeID string, item Item) (int, error) {
	l := b.line(storeID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := indexOf(l.items, item.Phone); i >= 0 {
		return i + 1, nil
	}
	l.items = append(l.items, item)
	return len(l.items), nil
}

func (b *MemoryBackend) UpdatePhone(_ context.Context, storeID, oldPhone, newPhone string) (bool, error) {
	l := b.line(storeID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if indexOf(l.items, newPhone) >= 0 {
		return false, nil
	}
	if i := indexOf(l.items, oldPhone); i >= 0 {
		l.items[i].Phone = newPhone
	}
	return true, nil
}

func indexOf(items []Item, phone string) int {
	for i, item := range items {
		if item.Phone == phone {
			return i
		}
	}
	return -1
}
