// Package message parses whole internet messages: it locates the header
// block, gives it a text view, parses the header fields into a typed
// section, and decomposes the body into a tree of MIME parts.
//
// Parsing is total: Parse always returns a usable Message, whatever the
// input. Malformed structure degrades along documented fallbacks (default
// content-type, sentinel addresses, raw field values) instead of failing.
// The byte spans of the returned tree (bodies, raw parts, preambles,
// epilogues, raw header and body) reference the input buffer without
// copying, and the input must stay alive as long as the Message is used.
// Header field values are strings taken from a text copy of each header
// block.
package message

// todo: preserve comments from CFWS, they are currently dropped.
// todo: expose the line terminator family on Message so callers can reproduce the exact framing.

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/mjl-/eml/imf"
	"github.com/mjl-/eml/metrics"
	"github.com/mjl-/eml/mime"
	"github.com/mjl-/eml/mlog"
)

// MaxDepth bounds the nesting of multipart and message/rfc822 parts.
// Structure nested deeper is kept as an opaque leaf instead of being
// decomposed, so adversarial input cannot exhaust the stack.
var MaxDepth = 20

// PartKind is the interpretation of a part, derived from its media type.
type PartKind byte

const (
	Text      PartKind = iota // text/*: Body with a charset for Text().
	Binary                    // Any other discrete type, and depth-limited structure.
	Multipart                 // multipart/*: Parts, with Preamble and Epilogue.
	Embedded                  // message/rfc822: Message.
)

func (k PartKind) String() string {
	switch k {
	case Text:
		return "text"
	case Binary:
		return "binary"
	case Multipart:
		return "multipart"
	case Embedded:
		return "message"
	}
	return "unknown"
}

// Part is a node in the MIME tree of a message body.
type Part struct {
	Kind     PartKind
	Type     mime.Type      // Declared or defaulted media type.
	Encoding mime.Mechanism // Declared transfer encoding. Bodies are not decoded.
	Header   *imf.Section   // Headers of this part. For the top-level part, the message's section.

	Body []byte // Raw body span of this part.
	Raw  []byte // Full raw span of the part: its header block plus Body. Equal to Body for the top-level part, whose headers are the message's.

	// Only for Multipart.
	Boundary string
	Preamble []byte
	Epilogue []byte
	Parts    []*Part

	// Only for Embedded.
	Message *Message
}

// Text returns the body decoded according to the charset parameter of the
// media type, with us-ascii as default. Decoding never fails, unknown
// charsets fall back to latin-1. The declared transfer encoding is not
// applied.
func (p *Part) Text() string {
	return mime.Decode(p.Type.Charset(), p.Body)
}

// Message is a parsed message: its typed header section and the root of its
// body part tree.
type Message struct {
	IMF   *imf.Section
	Child *Part // Always set, a default text/plain leaf for empty or malformed bodies.

	RawHeader     []byte // Span of the header block, including the final line terminator.
	RawBody       []byte // Span of the body.
	HeaderCharset string // Charset the header block was decoded with.
	Recovered     bool   // Whether any parse fallback was taken.
}

// parse tracks recovery during a single parse.
type parse struct {
	log         mlog.Log
	recovered   bool
	charsetName string // Charset of the most recently decoded header block.
}

func (x *parse) recovery(kind string, err error, attrs ...slog.Attr) {
	x.recovered = true
	metrics.Recovery(kind)
	x.log.Debugx("recovering while parsing message", err, attrs...)
}

// Parse parses buf as a complete internet message. It is total: any input,
// including garbage, produces a Message. The IMF section always has at
// least one From mailbox (the unknown@unknown sentinel if need be), and
// Child is always a usable part.
func Parse(elog *slog.Logger, buf []byte) *Message {
	x := &parse{log: mlog.New("message", elog)}
	m := x.message(buf, 0)
	if len(m.IMF.From) == 0 {
		if mb := m.IMF.FromOrSender(); len(mb) > 0 {
			m.IMF.From = mb
		} else {
			x.recovery("mailbox", nil, slog.String("field", "from"))
			m.IMF.From = []imf.Mailbox{imf.SentinelMailbox()}
		}
	}
	m.Recovered = x.recovered
	metrics.ParseObserve(x.recovered)
	return m
}

// ParseIMF parses buf as just a header section, ignoring any body.
func ParseIMF(elog *slog.Logger, buf []byte) *imf.Section {
	x := &parse{log: mlog.New("message", elog)}
	hdr, _, _ := Split(buf)
	return x.section(hdr)
}

func (x *parse) message(buf []byte, depth int) *Message {
	hdr, body, term := Split(buf)
	if term == nil && len(buf) > 0 {
		x.recovery("header-separator", nil)
	}
	sec := x.section(hdr)
	m := &Message{
		IMF:       sec,
		RawHeader: hdr,
		RawBody:   body,
	}
	m.HeaderCharset = x.charsetName
	m.Child = x.decompose(sec, body, depth, mime.Default())
	return m
}

// section decodes the header block and parses its fields.
func (x *parse) section(hdr []byte) *imf.Section {
	text, cs := headerText(x.log, hdr)
	x.charsetName = cs
	if cs != "us-ascii" && cs != "utf-8" {
		x.recovered = true
		metrics.Recovery("charset")
	}
	fields := parseFields(text)
	for _, f := range fields {
		if f.Kind == imf.FieldRescue {
			x.recovery("field", nil, slog.String("line", f.Raw))
		} else if f.Bad {
			x.recovery("field", nil, slog.String("field", f.Name))
		}
	}
	return imf.NewSection(fields)
}

// decompose builds the part tree for a body according to its header
// section, dflt being the media type assumed when none is declared (the
// children of a multipart/digest default to message/rfc822).
func (x *parse) decompose(sec *imf.Section, body []byte, depth int, dflt mime.Type) *Part {
	t := dflt
	switch {
	case sec.ContentType != nil:
		t = *sec.ContentType
	case sec.ContentTypeRaw != "":
		// Try to salvage at least "type/subtype" from the malformed value.
		if st, ok := mime.ParseTypeLenient(sec.ContentTypeRaw); ok {
			t = st
		}
		x.recovery("content-type", nil, slog.String("contenttype", sec.ContentTypeRaw), slog.String("mediatype", t.Type+"/"+t.Subtype))
	}
	var enc mime.Mechanism
	if sec.ContentTransferEncoding != nil {
		enc = *sec.ContentTransferEncoding
	}
	p := &Part{Type: t, Encoding: enc, Header: sec, Body: body, Raw: body}

	switch {
	case t.IsType("multipart"):
		bound := t.Param("boundary")
		if bound == "" {
			x.recovery("boundary", nil, slog.String("contenttype", t.String()))
			p.Kind = Text
			p.Type = mime.Default()
			return p
		}
		if depth >= MaxDepth {
			x.recovery("depth", nil)
			p.Kind = Binary
			return p
		}
		p.Kind = Multipart
		p.Boundary = bound
		childDflt := mime.Default()
		if strings.EqualFold(t.Subtype, "digest") {
			childDflt = mime.DefaultMessage()
		}
		preamble, segments, epilogue := scanMultipart(body, bound)
		p.Preamble = preamble
		p.Epilogue = epilogue
		for _, seg := range segments {
			chdr, cbody := splitEntity(seg)
			csec := x.section(chdr)
			cp := x.decompose(csec, cbody, depth+1, childDflt)
			cp.Raw = seg
			p.Parts = append(p.Parts, cp)
		}
		return p

	case t.Is("message", "rfc822") || t.Is("message", "global"):
		if depth >= MaxDepth {
			x.recovery("depth", nil)
			p.Kind = Binary
			return p
		}
		p.Kind = Embedded
		p.Message = x.message(body, depth+1)
		return p

	case t.IsType("text"):
		p.Kind = Text
		return p
	}
	p.Kind = Binary
	return p
}

// delim is one boundary delimiter occurrence in a multipart body.
type delim struct {
	start      int  // Index of "--".
	contentEnd int  // End of the previous part: start minus the preceding line terminator.
	lineEnd    int  // Index after the delimiter line, where the next part starts.
	close      bool // "--boundary--", the closing delimiter.
}

// findDelim finds the next boundary delimiter at or after from. A delimiter
// only counts at the start of the body or of a line, and must be followed
// by "--", whitespace, a line break or the end of the body; some software
// reuses a boundary with text appended for sub parts, which must not match.
func findDelim(body []byte, marker []byte, from int) (delim, bool) {
	for {
		i := bytes.Index(body[from:], marker)
		if i < 0 {
			return delim{}, false
		}
		i += from
		from = i + 1

		atLineStart := i == 0 || body[i-1] == '\n' || body[i-1] == '\r'
		if !atLineStart {
			continue
		}
		d := delim{start: i, contentEnd: i}
		if i > 0 && body[i-1] == '\n' {
			d.contentEnd = i - 1
			if i > 1 && body[i-2] == '\r' {
				d.contentEnd = i - 2
			}
		} else if i > 0 && body[i-1] == '\r' {
			d.contentEnd = i - 1
		}
		o := i + len(marker)
		if bytes.HasPrefix(body[o:], []byte("--")) {
			d.close = true
			o += 2
		}
		// Trailing whitespace on the delimiter line is allowed.
		for o < len(body) && (body[o] == ' ' || body[o] == '\t') {
			o++
		}
		if o < len(body) {
			n := terminatorBytes(body[o:])
			if n == 0 {
				if !d.close {
					continue
				}
				// Text directly after a closing delimiter: count it as epilogue.
			}
			o += n
		}
		d.lineEnd = o
		return d, true
	}
}

// scanMultipart splits a multipart body into its preamble, the raw segments
// between boundary delimiters, and the epilogue after the closing
// delimiter. A missing closing delimiter is tolerated: the segments found
// so far are returned with an empty epilogue.
func scanMultipart(body []byte, boundary string) (preamble []byte, segments [][]byte, epilogue []byte) {
	marker := append([]byte("--"), boundary...)
	cur, ok := findDelim(body, marker, 0)
	if !ok {
		// No delimiter at all: everything is preamble.
		return body, nil, nil
	}
	preamble = body[:cur.contentEnd]
	for !cur.close {
		next, ok := findDelim(body, marker, cur.lineEnd)
		if !ok {
			segments = append(segments, body[cur.lineEnd:])
			return preamble, segments, nil
		}
		segments = append(segments, body[cur.lineEnd:next.contentEnd])
		cur = next
	}
	epilogue = body[cur.lineEnd:]
	return preamble, segments, epilogue
}
