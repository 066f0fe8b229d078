package mime

import (
	"strings"

	"github.com/mjl-/eml/syntax"
)

// MechanismKind enumerates the content-transfer-encodings from RFC 2045,
// with Other for unregistered values seen in the wild.
type MechanismKind byte

const (
	Mechanism7Bit MechanismKind = iota // Default.
	Mechanism8Bit
	MechanismBinary
	MechanismQuotedPrintable
	MechanismBase64
	MechanismOther
)

// Mechanism is a parsed Content-Transfer-Encoding value. The zero value is
// 7bit, the default encoding.
type Mechanism struct {
	Kind  MechanismKind
	Other string // Original spelling, only for MechanismOther.
}

// String returns the canonical spelling, or the original spelling for an
// unrecognized mechanism.
func (m Mechanism) String() string {
	switch m.Kind {
	case Mechanism7Bit:
		return "7bit"
	case Mechanism8Bit:
		return "8bit"
	case MechanismBinary:
		return "binary"
	case MechanismQuotedPrintable:
		return "quoted-printable"
	case MechanismBase64:
		return "base64"
	}
	return m.Other
}

// IsIdentity returns whether the mechanism leaves the body bytes unchanged.
func (m Mechanism) IsIdentity() bool {
	switch m.Kind {
	case Mechanism7Bit, Mechanism8Bit, MechanismBinary:
		return true
	}
	return false
}

// ParseMechanism parses a Content-Transfer-Encoding value,
// case-insensitively. Unknown tokens parse as MechanismOther with the
// spelling retained. Parsing only fails on an empty or non-token value.
func ParseMechanism(s string) (Mechanism, bool) {
	p := syntax.New(s)
	p.CFWS()
	tok, ok := token(p)
	if !ok {
		return Mechanism{}, false
	}
	p.CFWS()
	if !p.Empty() {
		return Mechanism{}, false
	}
	switch strings.ToLower(tok) {
	case "7bit":
		return Mechanism{Kind: Mechanism7Bit}, true
	case "8bit":
		return Mechanism{Kind: Mechanism8Bit}, true
	case "binary":
		return Mechanism{Kind: MechanismBinary}, true
	case "quoted-printable":
		return Mechanism{Kind: MechanismQuotedPrintable}, true
	case "base64":
		return Mechanism{Kind: MechanismBase64}, true
	}
	return Mechanism{Kind: MechanismOther, Other: tok}, true
}
