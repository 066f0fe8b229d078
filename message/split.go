package message

import (
	"bytes"
	"strings"

	"github.com/mjl-/eml/imf"
)

// Line terminators in the wild are CRLF, bare LF, bare CR, and CRCRLF from
// gateways that prepend a CR to lines already ending in CRLF.

// terminator returns the length of the line terminator at the start of s, or
// 0 if s does not start with one.
func terminator(s string) int {
	switch {
	case strings.HasPrefix(s, "\r\r\n"):
		return 3
	case strings.HasPrefix(s, "\r\n"):
		return 2
	case strings.HasPrefix(s, "\r"), strings.HasPrefix(s, "\n"):
		return 1
	}
	return 0
}

func terminatorBytes(buf []byte) int {
	switch {
	case bytes.HasPrefix(buf, []byte("\r\r\n")):
		return 3
	case bytes.HasPrefix(buf, []byte("\r\n")):
		return 2
	case bytes.HasPrefix(buf, []byte("\r")), bytes.HasPrefix(buf, []byte("\n")):
		return 1
	}
	return 0
}

// Split finds the blank line separating header and body, and returns the
// header (including its final line terminator), the body, and the line
// terminator of the blank line. Families of terminators are tried from
// canonical to sloppy: CRLF CRLF, LF LF, CR CR, then any adjacent pair of
// mixed terminators. Without separator the entire input is header and the
// body is empty.
func Split(buf []byte) (header, body, term []byte) {
	if i := bytes.Index(buf, []byte("\r\n\r\n")); i >= 0 {
		return buf[:i+2], buf[i+4:], buf[i+2 : i+4]
	}
	if i := bytes.Index(buf, []byte("\n\n")); i >= 0 {
		return buf[:i+1], buf[i+2:], buf[i+1 : i+2]
	}
	if i := bytes.Index(buf, []byte("\r\r")); i >= 0 && !bytes.HasPrefix(buf[i:], []byte("\r\r\n")) {
		return buf[:i+1], buf[i+2:], buf[i+1 : i+2]
	}
	// Mixed variants, e.g. a CRLF line followed by a bare LF line.
	o := 0
	for o < len(buf) {
		n := terminatorBytes(buf[o:])
		if n == 0 {
			o++
			continue
		}
		if m := terminatorBytes(buf[o+n:]); m > 0 {
			return buf[:o+n], buf[o+n+m:], buf[o+n : o+n+m]
		}
		o += n
	}
	return buf, nil, nil
}

// splitEntity splits the header block from the body of a MIME part. Unlike
// Split, a part without a blank line has no header: everything is body, a
// part commonly consists of just content.
func splitEntity(buf []byte) (header, body []byte) {
	// A part may also start with its blank line immediately: no headers.
	if n := terminatorBytes(buf); n > 0 {
		return nil, buf[n:]
	}
	header, body, term := Split(buf)
	if term == nil {
		return nil, buf
	}
	return header, body
}

// parseFields iterates the header lines of text, joining continuation
// lines, and dispatches each field. Lines without a "name:" prefix become
// rescue fields. The returned fields reference spans of text.
func parseFields(text string) []imf.Field {
	var fields []imf.Field
	o := 0
	for o < len(text) {
		// Collect the logical line: a line plus its continuations.
		start := o
		for {
			i := o
			for i < len(text) && terminator(text[i:]) == 0 {
				i++
			}
			if i < len(text) {
				i += terminator(text[i:])
			}
			o = i
			// A continuation line belongs to this field.
			if o < len(text) && (text[o] == ' ' || text[o] == '\t') {
				continue
			}
			break
		}
		// The logical line runs from start up to o, strip the final terminator.
		end := o
		for end > start && (text[end-1] == '\r' || text[end-1] == '\n') {
			end--
		}
		line := text[start:end]
		if line == "" {
			continue
		}
		name, raw, ok := fieldName(line)
		if !ok {
			fields = append(fields, imf.RescueField(line))
			continue
		}
		fields = append(fields, imf.ParseField(name, raw))
	}
	return fields
}

// fieldName splits "name: value". The name must be printable ascii without
// whitespace or colon; a colon preceded by whitespace does not start a
// value, such lines are rescued.
func fieldName(line string) (name, raw string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i <= 0 {
		return "", "", false
	}
	name = line[:i]
	for j := 0; j < len(name); j++ {
		if name[j] <= ' ' || name[j] >= 0x7f {
			return "", "", false
		}
	}
	raw = line[i+1:]
	// Leading whitespace of the value is insignificant everywhere.
	raw = strings.TrimLeft(raw, " \t")
	return name, raw, true
}
