package taxonomy

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps event names to kinds.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	byName map[string]Kind
	kinds  []Kind
}

// New builds a registry from kinds.
// Names are matched case-insensitively, so "hangup" and "Hangup" collide.
func New(kinds ...Kind) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]Kind, len(kinds)),
		kinds:  make([]Kind, 0, len(kinds)),
	}
	for _, k := range kinds {
		if k.Name == "" || !k.Category.Concrete() {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKind, k)
		}
		key := strings.ToLower(k.Name)
		if prev, ok := r.byName[key]; ok {
			return nil, fmt.Errorf("%w: %s conflicts with %s", ErrDuplicateKind, k, prev)
		}
		r.byName[key] = k
		r.kinds = append(r.kinds, k)
	}
	sort.Slice(r.kinds, func(i, j int) bool {
		return r.kinds[i].Name < r.kinds[j].Name
	})
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(kinds ...Kind) *Registry {
	r, err := New(kinds...)
	if err != nil {
		panic(err)
	}
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the registry built from the builtin table.
// It is constructed once on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		var all []Kind
		for _, group := range builtin {
			all = append(all, group...)
		}
		defaultRegistry = MustNew(all...)
	})
	return defaultRegistry
}

// Classify returns the kind registered under name.
// Lookup ignores case; the returned kind carries the canonical spelling.
// Names that are not registered yield an *UnknownEventError.
func (r *Registry) Classify(name string) (Kind, error) {
	if k, ok := r.Lookup(name); ok {
		return k, nil
	}
	return Kind{}, &UnknownEventError{Name: name}
}

// Lookup is Classify without the error.
func (r *Registry) Lookup(name string) (Kind, bool) {
	k, ok := r.byName[strings.ToLower(name)]
	return k, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	return len(r.kinds)
}

// Kinds returns all kinds sorted by name.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.kinds))
	copy(out, r.kinds)
	return out
}

// ByCategory returns the kinds of one category sorted by name.
func (r *Registry) ByCategory(c Category) []Kind {
	return r.filter(func(k Kind) bool { return k.Category == c })
}

// ByRole returns the kinds with the given role sorted by name.
func (r *Registry) ByRole(role Role) []Kind {
	return r.filter(func(k Kind) bool { return k.Role == role })
}

// Terminators returns every list terminator kind.
func (r *Registry) Terminators() []Kind {
	return r.ByRole(RoleListTerminator)
}

func (r *Registry) filter(keep func(Kind) bool) []Kind {
	var out []Kind
	for _, k := range r.kinds {
		if keep(k) {
			out = append(out, k)
		}
	}
	return out
}
