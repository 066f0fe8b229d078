package imf

import (
	"strings"

	"github.com/mjl-/eml/syntax"
)

// msgID parses "<left@right>". The right side is a dot-atom or domain
// literal; if missing or unparseable it becomes "unknown", message ids in
// the wild frequently aren't addresses.
func msgID(p *syntax.Parser) (MessageID, bool) {
	o := p.Offset()
	p.CFWS()
	if !p.Take("<") {
		p.Restore(o)
		return MessageID{}, false
	}
	inner, ok := p.TakeFn1(func(c byte) bool {
		return c != '>' && c != '\r' && c != '\n'
	})
	if !ok || !p.Take(">") {
		p.Restore(o)
		return MessageID{}, false
	}
	p.CFWS()
	left, right, found := cutLast(inner, "@")
	if !found || right == "" {
		return MessageID{Left: inner, Right: "unknown"}, true
	}
	rp := syntax.New(right)
	if _, ok := rp.Domain(); left == "" || !ok || !rp.Empty() {
		return MessageID{Left: inner, Right: "unknown"}, true
	}
	return MessageID{Left: left, Right: right}, true
}

// cutLast is strings.Cut around the last occurrence of sep.
func cutLast(s, sep string) (string, string, bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

// ParseMessageID parses a single "<id>" value, as in Message-ID and
// Content-ID.
func ParseMessageID(s string) (MessageID, bool) {
	p := syntax.New(s)
	id, ok := msgID(p)
	if !ok || !p.Empty() {
		return MessageID{}, false
	}
	return id, true
}

// ParseMessageIDList parses whitespace-separated "<id>" values, as in
// References and In-Reply-To. Unparseable tokens are skipped.
func ParseMessageIDList(s string) ([]MessageID, bool) {
	var l []MessageID
	p := syntax.New(s)
	for {
		p.CFWS()
		if p.Empty() {
			break
		}
		if id, ok := msgID(p); ok {
			l = append(l, id)
			continue
		}
		// Skip a token: up to the next "<" or whitespace.
		p.TakeFn1(func(c byte) bool {
			return c != '<' && c != ' ' && c != '\t' && c != '\r' && c != '\n'
		})
		if strings.HasPrefix(p.Remainder(), "<") {
			// "<" that did not start a valid id, skip it to get unstuck.
			p.Take("<")
		}
	}
	return l, len(l) > 0
}
