package cookie

import (
	"strconv"
	"strings"
)

// SameSite is the value of the SameSite cookie attribute.
type SameSite string

const (
	SameSiteLax    SameSite = "Lax"
	SameSiteStrict SameSite = "Strict"
	SameSiteNone   SameSite = "None"
)

// Cookie is a single response cookie. Cookies are constructed fresh for each
// Set-Cookie header and never mutated in place.
type Cookie struct {
	Name  string
	Value string

	Path     string
	Domain   string
	MaxAge   int // seconds; 0 means omit the attribute, negative deletes
	Secure   bool
	HttpOnly bool
	SameSite SameSite
}

// New constructs a cookie with the given name and value, applying options
// over zero defaults.
func New(name, value string, opts ...Option) Cookie {
	c := Cookie{Name: name, Value: value}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// String serializes the cookie for a Set-Cookie header. Present attributes
// are emitted in canonical order: Path, Domain, Max-Age, Secure, HttpOnly,
// SameSite.
func (c Cookie) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)
	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	if c.MaxAge != 0 {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(c.MaxAge))
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	if c.SameSite != "" {
		b.WriteString("; SameSite=")
		b.WriteString(string(c.SameSite))
	}
	return b.String()
}

// ParseHeader parses a request Cookie header into name/value pairs. Pairs
// are split on ';', each pair on the first '='; whitespace around names and
// values is trimmed. Pairs without '=' or with an empty name are skipped.
// An empty header yields an empty, non-nil map.
func ParseHeader(raw string) map[string]string {
	cookies := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies[name] = strings.TrimSpace(value)
	}
	return cookies
}
