package projection

import (
	"fmt"
	"strings"
)

// Field binds a client-facing field name to a typed accessor.
type Field[T any] struct {
	Name string
	Get  func(T) any
}

// FieldOf builds a Field from a typed accessor, so shape tables stay checked by
// the compiler.
func FieldOf[T any, V any](name string, get func(T) V) Field[T] {
	return Field[T]{
		Name: name,
		Get:  func(item T) any { return get(item) },
	}
}

// Shape is the static field table of one representation type. Tables are built
// once at package initialization and only read afterwards.
type Shape[T any] struct {
	resource string
	fields   []Field[T]
	index    map[string]int
}

// NewShape declares the fields of a representation in output order. Field names
// must be unique ignoring case.
func NewShape[T any](resource string, fields ...Field[T]) *Shape[T] {
	s := &Shape[T]{
		resource: resource,
		fields:   make([]Field[T], 0, len(fields)),
		index:    make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		key := strings.ToLower(f.Name)
		if _, dup := s.index[key]; dup || f.Get == nil || key == "" {
			// ALLOW-PANIC: shape tables are package-level declarations
			panic(fmt.Sprintf("invalid field %q in shape %s", f.Name, resource))
		}
		s.index[key] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// Resource returns the name used for this shape in error messages.
func (s *Shape[T]) Resource() string {
	return s.resource
}

// Names returns all field names in declaration order.
func (s *Shape[T]) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Has reports whether name resolves to a field, ignoring case.
func (s *Shape[T]) Has(name string) bool {
	_, ok := s.index[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Resolve turns a comma-separated fields expression into a Selection. A blank
// expression selects every field in declaration order. Names are matched
// ignoring case and repeated names are kept once. Every unknown name is
// reported in a single error wrapping ErrInvalidField.
func (s *Shape[T]) Resolve(fields string) (Selection[T], error) {
	if strings.TrimSpace(fields) == "" {
		return s.All(), nil
	}

	var (
		selected []Field[T]
		errs     []error
	)
	seen := make(map[int]bool)
	for _, raw := range strings.Split(fields, ",") {
		name := strings.TrimSpace(raw)
		i, ok := s.index[strings.ToLower(name)]
		if !ok {
			errs = append(errs, &FieldError{Resource: s.resource, Field: name})
			continue
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		selected = append(selected, s.fields[i])
	}

	if err := Combine(errs...); err != nil {
		return Selection[T]{}, err
	}
	return Selection[T]{fields: selected}, nil
}

// All selects every field in declaration order.
func (s *Shape[T]) All() Selection[T] {
	return Selection[T]{fields: s.fields}
}

// ShapeOne reduces a single item to the requested fields.
func (s *Shape[T]) ShapeOne(item T, fields string) (Record, error) {
	sel, err := s.Resolve(fields)
	if err != nil {
		return Record{}, err
	}
	return sel.Apply(item), nil
}

// ShapeMany reduces every item to the requested fields. The expression is
// resolved once and reused for all items.
func (s *Shape[T]) ShapeMany(items []T, fields string) ([]Record, error) {
	sel, err := s.Resolve(fields)
	if err != nil {
		return nil, err
	}
	return sel.ApplyAll(items), nil
}

// Selection is a resolved, ordered list of fields of one shape.
type Selection[T any] struct {
	fields []Field[T]
}

// Names returns the selected field names in output order.
func (sel Selection[T]) Names() []string {
	names := make([]string, len(sel.fields))
	for i, f := range sel.fields {
		names[i] = f.Name
	}
	return names
}

// Includes reports whether the selection contains name, ignoring case.
func (sel Selection[T]) Includes(name string) bool {
	for _, f := range sel.fields {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

// Apply builds the record for one item.
func (sel Selection[T]) Apply(item T) Record {
	entries := make([]Entry, len(sel.fields))
	for i, f := range sel.fields {
		entries[i] = Entry{Name: f.Name, Value: f.Get(item)}
	}
	return Record{entries: entries}
}

// ApplyAll builds one record per item, preserving order.
func (sel Selection[T]) ApplyAll(items []T) []Record {
	out := make([]Record, len(items))
	for i, item := range items {
		out[i] = sel.Apply(item)
	}
	return out
}
