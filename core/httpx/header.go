package httpx

import "strings"

// Field is a single header name/value pair.
type Field struct {
	Name  string
	Value string
}

// Header is an ordered collection of header fields. Lookups are
// case-insensitive; insertion order and duplicate fields are preserved,
// which matters for Set-Cookie on responses and for deterministic CGI
// environment construction on requests.
//
// The zero value is ready to use.
type Header struct {
	fields []Field
}

// Add appends a field, keeping arrival order.
func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

// Set replaces the first field with the given name and removes any other
// occurrences. If the field is absent it is appended.
func (h *Header) Set(name, value string) {
	out := h.fields[:0]
	replaced := false
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			if !replaced {
				out = append(out, Field{Name: f.Name, Value: value})
				replaced = true
			}
			continue
		}
		out = append(out, f)
	}
	if !replaced {
		out = append(out, Field{Name: name, Value: value})
	}
	h.fields = out
}

// Del removes all fields with the given name.
func (h *Header) Del(name string) {
	out := h.fields[:0]
	for _, f := range h.fields {
		if !strings.EqualFold(f.Name, name) {
			out = append(out, f)
		}
	}
	h.fields = out
}

// Get returns the value of the first field with the given name, or "".
func (h *Header) Get(name string) string {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Values returns all values for the given name in arrival order.
func (h *Header) Values(name string) []string {
	var vals []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			vals = append(vals, f.Value)
		}
	}
	return vals
}

// Has reports whether at least one field with the given name exists.
func (h *Header) Has(name string) bool {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

// Fields returns the underlying fields in arrival order. The returned slice
// must not be mutated.
func (h *Header) Fields() []Field {
	return h.fields
}

// Len returns the number of fields.
func (h *Header) Len() int {
	return len(h.fields)
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() Header {
	fields := make([]Field, len(h.fields))
	copy(fields, h.fields)
	return Header{fields: fields}
}
