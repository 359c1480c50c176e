// Package schema provides the field definition registry.
// It maps field keys referenced by views to their definitions, so the
// layout pipeline and grid can resolve type, label and editability
// without owning the entity data model.
package schema

import (
	"sort"
	"sync"
)

// Registry maps field keys to their definitions.
type Registry struct {
	mu sync.RWMutex

	// byKey maps field keys to definitions: "email" → FieldDefinition
	byKey map[string]FieldDefinition

	// identifier is the key of the record's primary identifying field,
	// empty until one is registered
	identifier string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]FieldDefinition)}
}

// Register adds a field definition to the registry.
// Registering a key twice replaces the earlier definition. The first
// definition flagged Identifier becomes the identifying field; later
// Identifier flags are ignored so there is always at most one.
func (r *Registry) Register(def FieldDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if def.Identifier {
		if r.identifier != "" && r.identifier != def.Key {
			def.Identifier = false
		} else {
			r.identifier = def.Key
		}
	}
	r.byKey[def.Key] = def
}

// Lookup resolves a field key to its definition.
// Returns the definition and true if found.
func (r *Registry) Lookup(key string) (FieldDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byKey[key]
	return def, ok
}

// Identifier returns the key of the record's identifying field, or "".
func (r *Registry) Identifier() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.identifier
}

// Keys returns all registered field keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered fields.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}
