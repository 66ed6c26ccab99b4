// Package queue is the line storage behind the assistant: one ordered line
// of phone numbers per physical store, plus the store catalog.
package queue

import "context"

// Item is one entry in a store's line. ActorID is present only when the
// customer granted notification permission when joining.
type Item struct {
	Phone   string `json:"phone"`
	ActorID string `json:"actorId,omitempty"`
}

// Store is immutable reference data describing one physical location.
type Store struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Address string `yaml:"address,omitempty" json:"address,omitempty"`
}

// Backend stores the lines themselves. Implementations serialize access per
// store; concurrent turns against different stores do not contend.
type Backend interface {
	// Position returns the 1-based position of phone, or 0 when absent.
	Position(ctx context.Context, storeID, phone string) (int, error)
	// Length returns the current number of entries in the line.
	Length(ctx context.Context, storeID string) (int, error)
	// Remove takes phone out of the line, reporting whether it was present.
	Remove(ctx context.Context, storeID, phone string) (bool, error)
	// Advance dequeues and returns the head entry, or nil when the line is
	// empty.
	Advance(ctx context.Context, storeID string) (*Item, error)
	// Add appends item and returns the new line length. If the phone is
	// already queued its existing position is returned instead.
	Add(ctx context.Context, storeID string, item Item) (int, error)
	// UpdatePhone replaces oldPhone with newPhone in place. Returns false
	// when newPhone is already queued.
	UpdatePhone(ctx context.Context, storeID, oldPhone, newPhone string) (bool, error)
}

// Source is the per-request queue view handed to handlers. StoreID is bound
// once at the start of a turn and scopes every call; the backend and catalog
// are shared across requests.
type Source struct {
	StoreID string

	backend Backend
	catalog *Catalog
}

// NewSource creates a per-request view over shared storage.
func NewSource(backend Backend, catalog *Catalog) *Source {
	return &Source{backend: backend, catalog: catalog}
}

func (s *Source) Position(ctx context.Context, phone string) (int, error) {
	return s.backend.Position(ctx, s.StoreID, phone)
}

func (s *Source) Length(ctx context.Context) (int, error) {
	return s.backend.Length(ctx, s.StoreID)
}

func (s *Source) Remove(ctx context.Context, phone string) (bool, error) {
	return s.backend.Remove(ctx, s.StoreID, phone)
}

func (s *Source) Advance(ctx context.Context) (*Item, error) {
	return s.backend.Advance(ctx, s.StoreID)
}

func (s *Source) Add(ctx context.Context, item Item) (int, error) {
	return s.backend.Add(ctx, s.StoreID, item)
}

func (s *Source) UpdatePhone(ctx context.Context, oldPhone, newPhone string) (bool, error) {
	return s.backend.UpdatePhone(ctx, s.StoreID, oldPhone, newPhone)
}

// AvailableStores lists the store catalog in order.
func (s *Source) AvailableStores(ctx context.Context) ([]Store, error) {
	_ = ctx
	return s.catalog.Stores(), nil
}
