// Package mime has the MIME header value types of a message part: media
// types with their parameters, content-transfer-encoding mechanisms, and
// charset-based text decoding (RFC 2045, RFC 2046).
package mime

import (
	"strings"

	"github.com/mjl-/eml/syntax"
)

// Param is a single media type parameter. Order and original case are
// preserved, lookups are case-insensitive with the first occurrence winning.
type Param struct {
	Name  string
	Value string // Decoded in case of quoted string.
}

// Type is a parsed media type, e.g. from a Content-Type header.
type Type struct {
	Type    string // E.g. "text", original spelling.
	Subtype string // E.g. "plain", original spelling.
	Params  []Param
}

// Default is the media type assumed when a message or part has no parseable
// Content-Type header.
func Default() Type {
	return Type{Type: "text", Subtype: "plain", Params: []Param{{"charset", "us-ascii"}}}
}

// DefaultMessage is the default media type for children of a
// multipart/digest.
func DefaultMessage() Type {
	return Type{Type: "message", Subtype: "rfc822"}
}

// Is compares the type and subtype case-insensitively.
func (t Type) Is(typ, subtype string) bool {
	return strings.EqualFold(t.Type, typ) && strings.EqualFold(t.Subtype, subtype)
}

// IsType compares just the top-level type case-insensitively.
func (t Type) IsType(typ string) bool {
	return strings.EqualFold(t.Type, typ)
}

// Param returns the value of the named parameter, the first occurrence if it
// is present multiple times, or the empty string.
func (t Type) Param(name string) string {
	for _, p := range t.Params {
		if strings.EqualFold(p.Name, name) {
			return p.Value
		}
	}
	return ""
}

// Charset returns the charset parameter, or "us-ascii" if absent.
func (t Type) Charset() string {
	if s := t.Param("charset"); s != "" {
		return s
	}
	return "us-ascii"
}

// String returns the media type with its parameters, quoting parameter
// values where needed.
func (t Type) String() string {
	var b strings.Builder
	b.WriteString(t.Type)
	b.WriteString("/")
	b.WriteString(t.Subtype)
	for _, p := range t.Params {
		b.WriteString("; ")
		b.WriteString(p.Name)
		b.WriteString("=")
		if isToken(p.Value) {
			b.WriteString(p.Value)
		} else {
			b.WriteString(quote(p.Value))
		}
	}
	return b.String()
}

// token per RFC 2045: printable ascii, no tspecials, no space.
func isTokenChar(c byte) bool {
	if c <= ' ' || c >= 0x7f {
		return false
	}
	switch c {
	case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=':
		return false
	}
	return true
}

func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}

func token(p *syntax.Parser) (string, bool) {
	return p.TakeFn1(isTokenChar)
}

// ParseType parses a media type with parameters, e.g.
// `text/plain; charset="utf-8"`. Unknown parameters are kept verbatim, a
// trailing ";" and empty parameters are tolerated. Parsing fails on trailing
// garbage, callers fall back to a default type.
func ParseType(s string) (Type, bool) {
	p := syntax.New(s)
	p.CFWS()
	main, ok := token(p)
	if !ok || !p.Take("/") {
		return Type{}, false
	}
	sub, ok := token(p)
	if !ok {
		return Type{}, false
	}
	t := Type{Type: main, Subtype: sub}
	for {
		p.CFWS()
		if !p.Take(";") {
			break
		}
		p.CFWS()
		name, ok := token(p)
		if !ok {
			// Tolerate a trailing or empty ";".
			continue
		}
		if !p.Take("=") {
			return Type{}, false
		}
		var value string
		if v, ok := p.QuotedString(); ok {
			value = v
		} else if v, ok := token(p); ok {
			value = v
		} else {
			return Type{}, false
		}
		t.Params = append(t.Params, Param{name, value})
	}
	p.CFWS()
	if !p.Empty() {
		return Type{}, false
	}
	return t, true
}

// ParseTypeLenient tries ParseType, then attempts to salvage just
// "type/subtype" from a malformed value by dropping everything from the
// first ";". Multipart cannot be salvaged that way, a multipart without its
// boundary parameter is useless.
func ParseTypeLenient(s string) (Type, bool) {
	if t, ok := ParseType(s); ok {
		return t, true
	}
	s = strings.TrimSpace(strings.SplitN(s, ";", 2)[0])
	main, sub, found := strings.Cut(s, "/")
	if !found || !isToken(main) || !isToken(sub) || strings.EqualFold(main, "multipart") {
		return Type{}, false
	}
	return Type{Type: main, Subtype: sub}, true
}
