package message

import (
	"log/slog"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"

	"github.com/mjl-/eml/mlog"
)

// headerText returns the header block as text, and the charset it was
// decoded with. Pure ASCII and valid UTF-8 are used as is, without transcoding.
// Anything else goes through charset detection, and failing that latin-1,
// which accepts any byte sequence. Body bytes are never transcoded, only
// the header block gets a text view.
func headerText(log mlog.Log, hdr []byte) (string, string) {
	ascii := true
	for _, c := range hdr {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(hdr), "us-ascii"
	}
	if utf8.Valid(hdr) {
		return string(hdr), "utf-8"
	}
	enc, name, _ := charset.DetermineEncoding(hdr, "")
	if enc != nil {
		if s, err := enc.NewDecoder().Bytes(hdr); err == nil {
			log.Debug("non-utf8 message header", slog.String("charset", name))
			return string(s), name
		}
	}
	s, _ := charmap.ISO8859_1.NewDecoder().Bytes(hdr)
	log.Debug("non-utf8 message header", slog.String("charset", "iso-8859-1"))
	return string(s), "iso-8859-1"
}
