package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/randalmurphal/amicore/pkg/amicore/taxonomy"
)

// Filter selects records.
type Filter interface {
	Match(rec *Record) bool
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(rec *Record) bool

// Match implements Filter.
func (f FilterFunc) Match(rec *Record) bool {
	return f(rec)
}

// FieldRef names a header for comparison. Int and Lower switch how the
// value is interpreted before comparing.
type FieldRef struct {
	name    string
	numeric bool
	lower   bool
}

// Header starts a condition on the named header.
func Header(name string) FieldRef {
	return FieldRef{name: name}
}

// Int compares the header as a base-10 integer.
func (f FieldRef) Int() FieldRef {
	f.numeric = true
	return f
}

// Lower compares the header lowercased. The operand is lowercased too.
func (f FieldRef) Lower() FieldRef {
	f.lower = true
	return f
}

// Eq matches when the header equals v.
func (f FieldRef) Eq(v any) Filter { return f.compare(v, func(c int) bool { return c == 0 }) }

// Ne matches when the header is present and differs from v.
func (f FieldRef) Ne(v any) Filter { return f.compare(v, func(c int) bool { return c != 0 }) }

// Lt matches when the header is less than v.
func (f FieldRef) Lt(v any) Filter { return f.compare(v, func(c int) bool { return c < 0 }) }

// Le matches when the header is less than or equal to v.
func (f FieldRef) Le(v any) Filter { return f.compare(v, func(c int) bool { return c <= 0 }) }

// Gt matches when the header is greater than v.
func (f FieldRef) Gt(v any) Filter { return f.compare(v, func(c int) bool { return c > 0 }) }

// Ge matches when the header is greater than or equal to v.
func (f FieldRef) Ge(v any) Filter { return f.compare(v, func(c int) bool { return c >= 0 }) }

// Matches matches when re matches at the start of the header. The match
// need not span the whole value; end re with $ for that.
func (f FieldRef) Matches(re *regexp.Regexp) Filter {
	return FilterFunc(func(rec *Record) bool {
		v, ok := f.value(rec)
		if !ok {
			return false
		}
		loc := re.FindStringIndex(v)
		return loc != nil && loc[0] == 0
	})
}

func (f FieldRef) value(rec *Record) (string, bool) {
	if rec == nil {
		return "", false
	}
	v, ok := rec.Get(f.name)
	if !ok {
		return "", false
	}
	if f.lower {
		v = strings.ToLower(v)
	}
	return v, true
}

func (f FieldRef) compare(operand any, ok func(int) bool) Filter {
	numeric := f.numeric
	switch operand.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		numeric = true
	}

	want := fmt.Sprint(operand)
	if f.lower {
		want = strings.ToLower(want)
	}

	if numeric {
		wantN, err := strconv.ParseInt(strings.TrimSpace(want), 10, 64)
		if err != nil {
			return FilterFunc(func(*Record) bool { return false })
		}
		return FilterFunc(func(rec *Record) bool {
			v, present := f.value(rec)
			if !present {
				return false
			}
			got, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return false
			}
			switch {
			case got < wantN:
				return ok(-1)
			case got > wantN:
				return ok(1)
			default:
				return ok(0)
			}
		})
	}

	return FilterFunc(func(rec *Record) bool {
		v, present := f.value(rec)
		if !present {
			return false
		}
		return ok(strings.Compare(v, want))
	})
}

// Exists matches records carrying the named header.
func Exists(name string) Filter {
	return FilterFunc(func(rec *Record) bool {
		return rec != nil && rec.Has(name)
	})
}

// Named matches records whose event name is one of names, ignoring case.
func Named(names ...string) Filter {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return FilterFunc(func(rec *Record) bool {
		if rec == nil {
			return false
		}
		_, ok := set[strings.ToLower(rec.Name())]
		return ok
	})
}

// InCategory matches records of the given categories.
func InCategory(cats ...taxonomy.Category) Filter {
	return FilterFunc(func(rec *Record) bool {
		if rec == nil {
			return false
		}
		for _, c := range cats {
			if rec.Category() == c {
				return true
			}
		}
		return false
	})
}

// WithRole matches records whose kind has the given role.
func WithRole(role taxonomy.Role) Filter {
	return FilterFunc(func(rec *Record) bool {
		return rec != nil && rec.Role() == role
	})
}

// And matches when every filter matches. An empty And matches everything.
func And(filters ...Filter) Filter {
	return FilterFunc(func(rec *Record) bool {
		for _, f := range filters {
			if !f.Match(rec) {
				return false
			}
		}
		return true
	})
}

// Or matches when any filter matches. An empty Or matches nothing.
func Or(filters ...Filter) Filter {
	return FilterFunc(func(rec *Record) bool {
		for _, f := range filters {
			if f.Match(rec) {
				return true
			}
		}
		return false
	})
}

// Not inverts a filter.
func Not(f Filter) Filter {
	return FilterFunc(func(rec *Record) bool {
		return !f.Match(rec)
	})
}
