package syntax

import (
	"encoding/base64"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// EncodedWord consumes an RFC 2047 encoded word, "=?charset?Q|B?payload?=",
// and returns its decoded text. A word with an unknown charset is still
// consumed, with the original form returned undecoded, like
// mime.WordDecoder does.
func (p *Parser) EncodedWord() (string, bool) {
	o := p.o
	if !p.take("=?") {
		return "", false
	}
	charset, ok := p.takefn1(func(c byte) bool {
		return c > ' ' && c < 0x7f && c != '?'
	})
	if !ok || !p.takeByte('?') {
		p.o = o
		return "", false
	}
	c, ok := p.peek()
	if !ok || c != 'q' && c != 'Q' && c != 'b' && c != 'B' {
		p.o = o
		return "", false
	}
	p.o++
	if !p.takeByte('?') {
		p.o = o
		return "", false
	}
	end := strings.Index(p.s[p.o:], "?=")
	if end < 0 {
		p.o = o
		return "", false
	}
	payload := p.s[p.o : p.o+end]
	if strings.ContainsAny(payload, " \t\r\n") {
		p.o = o
		return "", false
	}
	p.o += end + 2

	var buf []byte
	if c == 'q' || c == 'Q' {
		buf = decodeQ(payload)
	} else {
		var err error
		buf, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			buf, err = base64.RawStdEncoding.DecodeString(payload)
		}
		if err != nil {
			return p.s[o:p.o], true
		}
	}
	s, ok := decodeCharset(charset, buf)
	if !ok {
		return p.s[o:p.o], true
	}
	return s, true
}

// Q encoding: underscore is space, =XX is a hex-encoded byte, anything else
// is itself. Invalid hex is passed through as-is.
func decodeQ(s string) []byte {
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_':
			b = append(b, ' ')
		case c == '=' && i+2 < len(s):
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b = append(b, hi<<4|lo)
				i += 2
				continue
			}
			b = append(b, c)
		default:
			b = append(b, c)
		}
	}
	return b
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// todo: reduce duplication with mime.Decode, which resolves charsets for text part bodies.
func decodeCharset(charset string, buf []byte) (string, bool) {
	switch strings.ToLower(charset) {
	case "", "us-ascii", "utf-8":
		return string(buf), true
	}
	enc, _ := ianaindex.MIME.Encoding(charset)
	if enc == nil {
		enc, _ = ianaindex.IANA.Encoding(charset)
	}
	if enc == nil {
		return "", false
	}
	s, err := enc.NewDecoder().Bytes(buf)
	if err != nil {
		return "", false
	}
	return string(s), true
}

// phrase words may contain dots, per the obsolete phrase syntax. Display
// names like "J. Doe" depend on it.
func isPhraseAtext(c byte) bool {
	return c == '.' || isAtext(c)
}

// Word consumes an atom or quoted string, without surrounding CFWS.
func (p *Parser) Word() (string, bool) {
	if s, ok := p.QuotedString(); ok {
		return s, true
	}
	return p.Atom()
}

// Phrase consumes a sequence of atoms, quoted strings and encoded words,
// and returns the materialised text: tokens joined by single spaces, with
// adjacent encoded words concatenated directly as RFC 2047 requires.
func (p *Parser) Phrase() (string, bool) {
	var b strings.Builder
	n := 0
	prevEncoded := false
	for {
		o := p.o
		p.CFWS()
		if s, ok := p.EncodedWord(); ok {
			if n > 0 && !prevEncoded {
				b.WriteByte(' ')
			}
			b.WriteString(s)
			n++
			prevEncoded = true
			continue
		}
		if s, ok := p.QuotedString(); ok {
			if n > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(s)
			n++
			prevEncoded = false
			continue
		}
		if s, ok := p.takefn1(isPhraseAtext); ok {
			if n > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(s)
			n++
			prevEncoded = false
			continue
		}
		p.o = o
		break
	}
	if n == 0 {
		return "", false
	}
	return b.String(), true
}

// Unstructured consumes the rest of the input as unstructured text: folding
// whitespace unfolded to single spaces, encoded words decoded (with the
// whitespace between two encoded words dropped), outer whitespace trimmed.
func (p *Parser) Unstructured() string {
	var b strings.Builder
	pendingSpace := false
	prevEncoded := false
	for !p.Empty() {
		if p.FWS() {
			pendingSpace = true
			continue
		}
		if p.obsCRLF() {
			// Bare line break not part of folding, treat as whitespace.
			pendingSpace = true
			continue
		}
		if s, ok := p.EncodedWord(); ok {
			if pendingSpace && !prevEncoded && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(s)
			pendingSpace = false
			prevEncoded = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		prevEncoded = false
		s, _ := p.takefn1(func(c byte) bool {
			return !isWSP(c) && c != '\r' && c != '\n'
		})
		if s == "" {
			// Cannot happen, but never loop forever.
			p.o++
			continue
		}
		b.WriteString(s)
	}
	return b.String()
}
