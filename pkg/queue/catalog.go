package queue

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the immutable list of stores the assistant serves.
type Catalog struct {
	stores []Store
}

type catalogFile struct {
	Stores []Store `yaml:"stores"`
}

// DefaultCatalog returns the built-in store list used when no catalog file
// is configured.
func DefaultCatalog() *Catalog {
	return &Catalog{stores: []Store{
		{ID: "1", Name: "Store 1"},
		{ID: "2", Name: "Store 2"},
		{ID: "3", Name: "Store 3"},
	}}
}

// LoadCatalog reads a YAML store catalog. An empty path yields the built-in
// default list.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read store catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse store catalog: %w", err)
	}
	if len(file.Stores) == 0 {
		return nil, fmt.Errorf("store catalog %s lists no stores", path)
	}
	for i, store := range file.Stores {
		if store.ID == "" || store.Name == "" {
			return nil, fmt.Errorf("store catalog entry %d is missing id or name", i)
		}
	}

	return &Catalog{stores: file.Stores}, nil
}

// Stores returns the catalog entries in order.
func (c *Catalog) Stores() []Store {
	out := make([]Store, len(c.stores))
	copy(out, c.stores)
	return out
}

// Find returns the store with the given id.
func (c *Catalog) Find(id string) (Store, bool) {
	for _, store := range c.stores {
		if store.ID == id {
			return store, true
		}
	}
	return Store{}, false
}
