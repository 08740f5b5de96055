package content

import (
	"strings"

	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// Registry is a read-only-after-load container of validated content entries.
// Lookups resolve through an alias table so monsters can be found by display
// name as well as key. One generic container serves every category.
type Registry[T any] struct {
	entries map[string]T
	aliases map[string]string
	keys    []string
}

// NewRegistry creates an empty registry
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]T),
		aliases: make(map[string]string),
	}
}

// Normalize returns the canonical lookup form of a key or alias
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Register stores entry under the normalized key plus any aliases.
// Registering a duplicate key fails; aliases silently override older aliases.
func (r *Registry[T]) Register(key string, entry T, aliases ...string) error {
	identifier := Normalize(key)
	if identifier == "" {
		return dnderr.InvalidArgument("registry key must not be empty")
	}
	if _, exists := r.entries[identifier]; exists {
		return dnderr.AlreadyExistsf("duplicate entry %q", key)
	}

	r.entries[identifier] = entry
	r.keys = append(r.keys, identifier)
	r.aliases[identifier] = identifier
	for _, alias := range aliases {
		normalized := Normalize(alias)
		if normalized != "" {
			r.aliases[normalized] = identifier
		}
	}
	return nil
}

// Get resolves name through the alias table
func (r *Registry[T]) Get(name string) (T, error) {
	var zero T
	identifier := Normalize(name)
	if identifier == "" {
		return zero, dnderr.InvalidArgument("name must be provided")
	}

	target, ok := r.aliases[identifier]
	if !ok {
		target = identifier
	}
	entry, ok := r.entries[target]
	if !ok {
		return zero, dnderr.NotFoundf("unknown entry %q", name)
	}
	return entry, nil
}

// Keys returns registered keys in registration order
func (r *Registry[T]) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Values returns entries in registration order
func (r *Registry[T]) Values() []T {
	values := make([]T, 0, len(r.keys))
	for _, key := range r.keys {
		values = append(values, r.entries[key])
	}
	return values
}

// Len returns the number of registered entries
func (r *Registry[T]) Len() int {
	return len(r.entries)
}
