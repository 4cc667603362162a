// Package registry keeps named mapping tables and finds them by name or name prefix.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/bastiangx/wordmap/pkg/dictionary"
	"github.com/bastiangx/wordmap/pkg/mapping"
)

var (
	ErrDuplicateTable = errors.New("table already registered")
	ErrEmptyName      = errors.New("empty table name")
)

// Registry holds mapping tables by name. Tables are registered during setup
// and read concurrently afterwards.
type Registry struct {
	names *patricia.Trie
	opts  []mapping.Option
	mu    sync.RWMutex
}

// New creates an empty registry. opts are applied to every table built by
// LoadTables.
func New(opts ...mapping.Option) *Registry {
	return &Registry{
		names: patricia.NewTrie(),
		opts:  opts,
	}
}

// Register adds m under name.
func (r *Registry) Register(name string, m *mapping.Mapping) error {
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.names.Insert(patricia.Prefix(name), m) {
		return fmt.Errorf("%w: %s", ErrDuplicateTable, name)
	}
	log.Debugf("Registered table %s with %d pairs", name, m.Len())
	return nil
}

// Get returns the table registered under name.
func (r *Registry) Get(name string) (*mapping.Mapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item := r.names.Get(patricia.Prefix(name))
	if item == nil {
		return nil, false
	}
	m, ok := item.(*mapping.Mapping)
	return m, ok
}

// Names returns the sorted names starting with prefix. An empty prefix lists
// every table.
func (r *Registry) Names(prefix string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := []string{}
	visit := func(p patricia.Prefix, _ patricia.Item) error {
		names = append(names, string(p))
		return nil
	}

	var err error
	if prefix == "" {
		err = r.names.Visit(visit)
	} else {
		err = r.names.VisitSubtree(patricia.Prefix(prefix), visit)
	}
	if err != nil {
		log.Errorf("Error visiting table names: %v", err)
	}

	sort.Strings(names)
	return names
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	return len(r.Names(""))
}

// LoadTables builds and registers every table. The first failing table stops
// loading and its error is returned.
func (r *Registry) LoadTables(tables []dictionary.Table) error {
	for _, table := range tables {
		m, err := table.Build(r.opts...)
		if err != nil {
			return err
		}
		if err := r.Register(table.Name, m); err != nil {
			return fmt.Errorf("table from %s: %w", table.Source, err)
		}
	}
	return nil
}
