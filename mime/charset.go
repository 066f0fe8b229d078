package mime

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Lookup resolves a charset name to an encoding, first through the MIME
// index, then the full IANA index. Returns nil for us-ascii/utf-8 (no
// transcoding needed) and for unknown names.
func Lookup(charset string) encoding.Encoding {
	switch strings.ToLower(charset) {
	case "", "us-ascii", "utf-8", "utf8", "ascii":
		return nil
	}
	enc, _ := ianaindex.MIME.Encoding(charset)
	if enc == nil {
		enc, _ = ianaindex.IANA.Encoding(charset)
	}
	return enc
}

// Decode returns buf as text according to charset. Unknown charsets and
// decode errors fall back to latin-1, which accepts any byte sequence, so
// Decode is total.
func Decode(charset string, buf []byte) string {
	enc := Lookup(charset)
	if enc != nil {
		if s, err := enc.NewDecoder().Bytes(buf); err == nil {
			return string(s)
		}
	}
	if isASCII(buf) {
		return string(buf)
	}
	switch strings.ToLower(charset) {
	case "utf-8", "utf8":
		if utf8.Valid(buf) {
			return string(buf)
		}
	}
	s, _ := charmap.ISO8859_1.NewDecoder().Bytes(buf)
	return string(s)
}

func isASCII(buf []byte) bool {
	for _, c := range buf {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
