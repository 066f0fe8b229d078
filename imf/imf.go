// Package imf parses the header fields of the Internet Message Format (RFC
// 822, RFC 2822, RFC 5322), including the obsolete syntax, and aggregates
// them into a typed header section.
//
// Parsing is permissive: a value parser either returns a typed value or
// signals non-match, in which case the field keeps its raw bytes. Nothing
// here returns an error or panics on malformed input.
package imf

import (
	"strings"
	"time"
)

// AddrSpec is the "local-part@domain" of an address. The local part is the
// decoded text (no surrounding quotes, no escaping), the domain is either
// dot-atom text or a domain literal including its brackets.
type AddrSpec struct {
	LocalPart string
	Domain    string
}

// Sentinel address used when an address could not be parsed, so consumers
// and the reprinter always have a syntactically valid address.
func SentinelAddrSpec() AddrSpec {
	return AddrSpec{LocalPart: "unknown", Domain: "unknown"}
}

// IsSentinel returns whether a is the unparseable-address sentinel.
func (a AddrSpec) IsSentinel() bool {
	return a == SentinelAddrSpec()
}

// String returns the address, requoting the local part when it is not a
// valid dot-string.
func (a AddrSpec) String() string {
	return packLocalpart(a.LocalPart) + "@" + a.Domain
}

// packLocalpart returns the localpart as dot-string if possible, and as
// quoted-string otherwise.
func packLocalpart(s string) string {
	dotstr := len(s) > 0
	for _, e := range strings.Split(s, ".") {
		for _, c := range e {
			if c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c > 0x7f {
				continue
			}
			switch c {
			case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '/', '=', '?', '^', '_', '`', '{', '|', '}', '~':
				continue
			}
			dotstr = false
			break
		}
		dotstr = dotstr && len(e) > 0
	}
	if dotstr {
		return s
	}

	r := `"`
	for _, c := range s {
		if c == '"' || c == '\\' {
			r += "\\" + string(c)
		} else {
			r += string(c)
		}
	}
	r += `"`
	return r
}

// Mailbox is an address with an optional display name.
type Mailbox struct {
	Name string // Decoded display name, empty if absent.
	AddrSpec
}

// SentinelMailbox is the recovery value for an unparseable mailbox.
func SentinelMailbox() Mailbox {
	return Mailbox{AddrSpec: SentinelAddrSpec()}
}

func (m Mailbox) String() string {
	if m.Name == "" {
		return m.AddrSpec.String()
	}
	return phraseString(m.Name) + " <" + m.AddrSpec.String() + ">"
}

func phraseString(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := c == ' ' || c == '.' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
		if !ok {
			// Quote the whole phrase, simplest valid form.
			r := `"`
			for j := 0; j < len(s); j++ {
				if s[j] == '"' || s[j] == '\\' {
					r += "\\"
				}
				r += string(s[j])
			}
			return r + `"`
		}
	}
	return s
}

// Group is a named, possibly empty, list of mailboxes.
type Group struct {
	Name      string
	Mailboxes []Mailbox
}

func (g Group) String() string {
	l := make([]string, len(g.Mailboxes))
	for i, m := range g.Mailboxes {
		l[i] = m.String()
	}
	return phraseString(g.Name) + ": " + strings.Join(l, ", ") + ";"
}

// Address is either a single mailbox or a group. Exactly one of the fields
// is non-nil.
type Address struct {
	Mailbox *Mailbox
	Group   *Group
}

func (a Address) String() string {
	if a.Group != nil {
		return a.Group.String()
	}
	return a.Mailbox.String()
}

// Mailboxes returns the mailboxes of the address: the single mailbox, or
// the members of the group.
func (a Address) Mailboxes() []Mailbox {
	if a.Group != nil {
		return a.Group.Mailboxes
	}
	return []Mailbox{*a.Mailbox}
}

// MessageID is a "<left@right>" message identifier. Right is "unknown" when
// the id did not have the expected form.
type MessageID struct {
	Left  string
	Right string
}

func (m MessageID) String() string {
	return "<" + m.Left + "@" + m.Right + ">"
}

// Received is one hop of the trace chain: the uninterpreted information
// tokens and the timestamp after the semicolon.
type Received struct {
	Info string // Raw text before the ";", whitespace-trimmed.
	Date time.Time
}

// Version is a MIME-Version value, virtually always 1.0.
type Version struct {
	Major int
	Minor int
}
