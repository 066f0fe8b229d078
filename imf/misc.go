package imf

import (
	"github.com/mjl-/eml/syntax"
)

// ParseVersion parses a MIME-Version value, "digits.digits" with optional
// comments and folding whitespace.
func ParseVersion(s string) (Version, bool) {
	p := syntax.New(s)
	p.CFWS()
	major, ok := p.Digits(1, 9)
	if !ok {
		return Version{}, false
	}
	p.CFWS()
	if !p.Take(".") {
		return Version{}, false
	}
	p.CFWS()
	minor, ok := p.Digits(1, 9)
	if !ok {
		return Version{}, false
	}
	p.CFWS()
	if !p.Empty() {
		return Version{}, false
	}
	return Version{Major: major, Minor: minor}, true
}

// ParsePhraseList parses a comma-separated list of phrases, as in Keywords.
// Empty elements are tolerated.
func ParsePhraseList(s string) ([]string, bool) {
	var l []string
	p := syntax.New(s)
	for {
		p.CFWS()
		if p.Empty() {
			break
		}
		if p.Take(",") {
			continue
		}
		w, ok := p.Phrase()
		if !ok {
			return nil, false
		}
		l = append(l, w)
	}
	return l, len(l) > 0
}
