package imf

import (
	"strings"

	"github.com/mjl-/eml/syntax"
)

// ParseReturnPath parses a Return-Path value: "<>" for the null path, or an
// angle-addr. Returns nil for the null path.
func ParseReturnPath(s string) (*AddrSpec, bool) {
	p := syntax.New(s)
	o := p.Offset()
	p.CFWS()
	if p.Take("<") {
		p.CFWS()
		if p.Take(">") {
			p.CFWS()
			if p.Empty() {
				return nil, true
			}
		}
	}
	p.Restore(o)
	if spec, ok := angleAddr(p); ok && p.Empty() {
		return &spec, true
	}
	// Seen in the wild: a bare address without angle brackets.
	p.Restore(o)
	if spec, ok := addrSpec(p); ok {
		p.CFWS()
		if p.Empty() {
			return &spec, true
		}
	}
	return nil, false
}

// ParseReceived parses a Received value: uninterpreted information tokens,
// ";", and a date-time. The tokens are kept as raw text.
func ParseReceived(s string) (Received, bool) {
	i := strings.LastIndex(s, ";")
	if i < 0 {
		return Received{}, false
	}
	date, ok := ParseDateTime(s[i+1:])
	if !ok {
		return Received{}, false
	}
	info := strings.TrimSpace(s[:i])
	return Received{Info: info, Date: date}, true
}
