package imf

import (
	"strings"

	"github.com/mjl-/eml/syntax"
)

// ParseMailbox parses a single mailbox: "name-addr" (optional display name
// and <addr-spec>, with an obsolete route accepted and discarded) or a bare
// addr-spec.
func ParseMailbox(s string) (Mailbox, bool) {
	p := syntax.New(s)
	m, ok := mailbox(p)
	if !ok {
		return Mailbox{}, false
	}
	p.CFWS()
	if !p.Empty() {
		return Mailbox{}, false
	}
	return m, true
}

// ParseMailboxList parses a comma-separated list of mailboxes, as in a From
// header. Empty elements are tolerated, an unparseable element becomes the
// sentinel mailbox. Not matched only when no element is present at all.
func ParseMailboxList(s string) ([]Mailbox, bool) {
	var l []Mailbox
	p := syntax.New(s)
	for {
		p.CFWS()
		if p.Empty() {
			break
		}
		if p.Take(",") {
			continue
		}
		m, ok := mailbox(p)
		if ok {
			ok = listSeparator(p)
		}
		if !ok {
			m = SentinelMailbox()
			skipElement(p)
		}
		l = append(l, m)
	}
	return l, len(l) > 0
}

// ParseAddressList parses a comma-separated list of addresses (mailboxes or
// groups). Unparseable elements become sentinel mailboxes.
func ParseAddressList(s string) ([]Address, bool) {
	l := parseAddresses(s)
	return l, len(l) > 0
}

// ParseAddressListNullable is ParseAddressList but matches an empty list,
// for Bcc, which is commonly present with an empty value.
func ParseAddressListNullable(s string) ([]Address, bool) {
	return parseAddresses(s), true
}

func parseAddresses(s string) []Address {
	var l []Address
	p := syntax.New(s)
	for {
		p.CFWS()
		if p.Empty() {
			break
		}
		if p.Take(",") {
			continue
		}
		a, ok := address(p)
		if ok {
			ok = listSeparator(p)
		}
		if !ok {
			m := SentinelMailbox()
			a = Address{Mailbox: &m}
			skipElement(p)
		}
		l = append(l, a)
	}
	return l
}

// listSeparator checks that an element is followed by "," or the end of the
// value. The comma is left for the list loop.
func listSeparator(p *syntax.Parser) bool {
	o := p.Offset()
	p.CFWS()
	if p.Empty() {
		return true
	}
	if strings.HasPrefix(p.Remainder(), ",") {
		p.Restore(o)
		return true
	}
	p.Restore(o)
	return false
}

// skipElement consumes up to the next comma, the recovery step after an
// element failed to parse. Quoted strings and comments are not recognized
// here: a comma inside them also ends the skip.
func skipElement(p *syntax.Parser) {
	for !p.Empty() {
		if strings.HasPrefix(p.Remainder(), ",") {
			return
		}
		p.Restore(p.Offset() + 1)
	}
}

// address parses a group or a mailbox.
func address(p *syntax.Parser) (Address, bool) {
	o := p.Offset()
	if name, ok := p.Phrase(); ok && p.Take(":") {
		g := Group{Name: name}
		for {
			p.CFWS()
			if p.Take(",") {
				continue
			}
			if p.Take(";") || p.Empty() {
				break
			}
			m, ok := mailbox(p)
			if !ok {
				p.Restore(o)
				return Address{}, false
			}
			g.Mailboxes = append(g.Mailboxes, m)
		}
		return Address{Group: &g}, true
	}
	p.Restore(o)
	m, ok := mailbox(p)
	if !ok {
		return Address{}, false
	}
	return Address{Mailbox: &m}, true
}

func mailbox(p *syntax.Parser) (Mailbox, bool) {
	o := p.Offset()
	name, _ := p.Phrase()
	if spec, ok := angleAddr(p); ok {
		return Mailbox{Name: name, AddrSpec: spec}, true
	}
	p.Restore(o)
	if spec, ok := addrSpec(p); ok {
		return Mailbox{AddrSpec: spec}, true
	}
	p.Restore(o)
	return Mailbox{}, false
}

// angleAddr parses "<addr-spec>", with an optional obsolete route
// ("@a,@b:") that is accepted and discarded.
func angleAddr(p *syntax.Parser) (AddrSpec, bool) {
	o := p.Offset()
	p.CFWS()
	if !p.Take("<") {
		p.Restore(o)
		return AddrSpec{}, false
	}
	obsRoute(p)
	spec, ok := addrSpec(p)
	if !ok || !p.Take(">") {
		p.Restore(o)
		return AddrSpec{}, false
	}
	p.CFWS()
	return spec, true
}

// obsRoute consumes "@domain, @domain:" if present. The route itself is
// long obsolete and dropped.
func obsRoute(p *syntax.Parser) {
	o := p.Offset()
	saw := false
	for {
		p.CFWS()
		if p.Take("@") {
			p.CFWS()
			if _, ok := p.Domain(); !ok {
				p.Restore(o)
				return
			}
			saw = true
			continue
		}
		if p.Take(",") {
			continue
		}
		break
	}
	if !saw || !p.Take(":") {
		p.Restore(o)
	}
}

// addr-spec: local part (dot-atom or quoted string), "@", domain (dot-atom
// or domain literal). Always at least one character on each side.
func addrSpec(p *syntax.Parser) (AddrSpec, bool) {
	o := p.Offset()
	p.CFWS()
	var local string
	if s, ok := p.QuotedString(); ok {
		local = s
	} else if s, ok := p.DotAtom(); ok {
		local = s
	} else {
		p.Restore(o)
		return AddrSpec{}, false
	}
	p.CFWS()
	if local == "" || !p.Take("@") {
		p.Restore(o)
		return AddrSpec{}, false
	}
	p.CFWS()
	domain, ok := p.Domain()
	if !ok || domain == "" {
		p.Restore(o)
		return AddrSpec{}, false
	}
	return AddrSpec{LocalPart: local, Domain: domain}, true
}
