package event

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/randalmurphal/amicore/pkg/amicore/taxonomy"
)

// Header names with protocol meaning.
const (
	// FieldEvent carries the event name.
	FieldEvent = "Event"

	// FieldActionID echoes the correlation token of the request.
	FieldActionID = "ActionID"

	// FieldPrivilege lists the privilege classes of the event.
	FieldPrivilege = "Privilege"
)

// Field is one header of a record.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Fields is an ordered header list. Names may repeat.
type Fields []Field

// Get returns the first value for name, ignoring case.
func (fs Fields) Get(name string) (string, bool) {
	for _, f := range fs {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// All returns every value for name in order.
func (fs Fields) All(name string) []string {
	var out []string
	for _, f := range fs {
		if strings.EqualFold(f.Name, name) {
			out = append(out, f.Value)
		}
	}
	return out
}

// Clone returns a copy of fs.
func (fs Fields) Clone() Fields {
	if fs == nil {
		return nil
	}
	out := make(Fields, len(fs))
	copy(out, fs)
	return out
}

// FieldsFromMap builds Fields from a map. Map order is not defined, so the
// result is sorted by name.
func FieldsFromMap(m map[string]string) Fields {
	out := make(Fields, 0, len(m))
	for k, v := range m {
		out = append(out, Field{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Record is one classified event. It is immutable after construction.
type Record struct {
	kind       taxonomy.Kind
	fields     Fields
	token      string
	receivedAt time.Time
}

// Option configures record construction.
type Option func(*recordConfig)

type recordConfig struct {
	token      string
	tokenSet   bool
	receivedAt time.Time
}

// WithToken sets the correlation token explicitly.
// An explicit empty token disables the ActionID fallback.
func WithToken(token string) Option {
	return func(cfg *recordConfig) {
		cfg.token = token
		cfg.tokenSet = true
	}
}

// WithReceivedAt sets the arrival time (default: time.Now()).
func WithReceivedAt(t time.Time) Option {
	return func(cfg *recordConfig) {
		cfg.receivedAt = t
	}
}

// New builds a record of a known kind.
// Without WithToken the ActionID field, when present, becomes the token.
func New(kind taxonomy.Kind, fields Fields, opts ...Option) *Record {
	cfg := &recordConfig{receivedAt: time.Now()}
	for _, opt := range opts {
		opt(cfg)
	}

	token := cfg.token
	if !cfg.tokenSet {
		token, _ = fields.Get(FieldActionID)
	}

	return &Record{
		kind:       kind,
		fields:     fields.Clone(),
		token:      token,
		receivedAt: cfg.receivedAt,
	}
}

// FromName classifies name with reg and builds a record.
// Unknown names still produce a record, of taxonomy.Unknown kind, together
// with an error wrapping taxonomy.ErrUnknownEvent.
func FromName(reg *taxonomy.Registry, name string, fields Fields, opts ...Option) (*Record, error) {
	kind, err := reg.Classify(name)
	if err != nil {
		return New(taxonomy.Unknown(name), fields, opts...), err
	}
	return New(kind, fields, opts...), nil
}

// Parse builds a record from a raw header block, taking the name from the
// Event field.
func Parse(reg *taxonomy.Registry, fields Fields, opts ...Option) (*Record, error) {
	name, ok := fields.Get(FieldEvent)
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: missing %s header", ErrMalformed, FieldEvent)
	}
	return FromName(reg, name, fields, opts...)
}

// Kind returns the classified kind.
func (r *Record) Kind() taxonomy.Kind { return r.kind }

// Name returns the event name.
func (r *Record) Name() string { return r.kind.Name }

// Category returns the kind's category.
func (r *Record) Category() taxonomy.Category { return r.kind.Category }

// Role returns the kind's role.
func (r *Record) Role() taxonomy.Role { return r.kind.Role }

// Token returns the correlation token, or "" when the record has none.
func (r *Record) Token() string { return r.token }

// HasToken reports whether the record carries a correlation token.
func (r *Record) HasToken() bool { return r.token != "" }

// ReceivedAt returns the arrival time.
func (r *Record) ReceivedAt() time.Time { return r.receivedAt }

// Fields returns a copy of the headers in order.
func (r *Record) Fields() Fields { return r.fields.Clone() }

// Get returns the first value of a header, ignoring case.
func (r *Record) Get(name string) (string, bool) { return r.fields.Get(name) }

// Value returns the first value of a header, or "".
func (r *Record) Value(name string) string {
	v, _ := r.fields.Get(name)
	return v
}

// Has reports whether a header is present.
func (r *Record) Has(name string) bool {
	_, ok := r.fields.Get(name)
	return ok
}

// Map returns the headers as a map keyed by the name as received.
// Only the first value of a repeated header is kept.
func (r *Record) Map() map[string]string {
	out := make(map[string]string, len(r.fields))
	for _, f := range r.fields {
		if _, ok := out[f.Name]; !ok {
			out[f.Name] = f.Value
		}
	}
	return out
}

// String returns "Event: Name (token)".
func (r *Record) String() string {
	if r.token == "" {
		return fmt.Sprintf("Event: %s", r.kind.Name)
	}
	return fmt.Sprintf("Event: %s (%s)", r.kind.Name, r.token)
}
