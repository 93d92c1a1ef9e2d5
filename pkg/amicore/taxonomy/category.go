package taxonomy

import (
	"fmt"
	"strings"
)

// Category is the domain an event kind belongs to.
type Category uint8

const (
	// CategoryUnknown holds names that are not in the taxonomy.
	CategoryUnknown Category = iota
	CategoryCore
	CategoryCall
	CategoryDevice
	CategoryQueue
	CategoryAgi
	CategoryConference
	CategoryContact
	CategorySpy
	CategoryFax
	CategoryMeetme
	CategoryMisc

	// CategoryAny is the subscription wildcard. No kind carries it.
	CategoryAny
)

var categoryNames = [...]string{
	CategoryUnknown:    "unknown",
	CategoryCore:       "core",
	CategoryCall:       "call",
	CategoryDevice:     "device",
	CategoryQueue:      "queue",
	CategoryAgi:        "agi",
	CategoryConference: "conference",
	CategoryContact:    "contact",
	CategorySpy:        "spy",
	CategoryFax:        "fax",
	CategoryMeetme:     "meetme",
	CategoryMisc:       "misc",
	CategoryAny:        "*",
}

// String returns the lowercase category name.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Valid reports whether c is one of the declared categories, including the
// Unknown and Any pseudo-categories.
func (c Category) Valid() bool {
	return c <= CategoryAny
}

// Concrete reports whether kinds can carry c.
// Unknown and Any are pseudo-categories and are not concrete.
func (c Category) Concrete() bool {
	return c > CategoryUnknown && c < CategoryAny
}

// Categories returns the concrete categories in declaration order.
func Categories() []Category {
	out := make([]Category, 0, int(CategoryMisc))
	for c := CategoryCore; c <= CategoryMisc; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCategory parses a category name case-insensitively.
// "*", "any" and "all" parse to CategoryAny.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "any", "all":
		return CategoryAny, nil
	}
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return CategoryUnknown, fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
