package imf

import (
	"strings"
	"time"

	"github.com/mjl-/eml/mime"
	"github.com/mjl-/eml/syntax"
)

// FieldKind identifies a recognized header field, or Optional/Rescue for
// unrecognized names and unparseable lines.
type FieldKind uint8

const (
	FieldDate FieldKind = iota
	FieldFrom
	FieldSender
	FieldReplyTo
	FieldTo
	FieldCc
	FieldBcc
	FieldMessageID
	FieldInReplyTo
	FieldReferences
	FieldSubject
	FieldComments
	FieldKeywords
	FieldReturnPath
	FieldReceived
	FieldMIMEVersion
	FieldContentType
	FieldContentTransferEncoding
	FieldContentID
	FieldContentDescription
	FieldOptional // Unrecognized name, value kept as unstructured text.
	FieldRescue   // Line without a parseable "name:", kept raw.
)

// The dispatch table: every header name this package recognizes, the
// knowledge artefact of the whole parser.
var fieldKinds = map[string]FieldKind{
	"date":                      FieldDate,
	"from":                      FieldFrom,
	"sender":                    FieldSender,
	"reply-to":                  FieldReplyTo,
	"to":                        FieldTo,
	"cc":                        FieldCc,
	"bcc":                       FieldBcc,
	"message-id":                FieldMessageID,
	"in-reply-to":               FieldInReplyTo,
	"references":                FieldReferences,
	"subject":                   FieldSubject,
	"comments":                  FieldComments,
	"keywords":                  FieldKeywords,
	"return-path":               FieldReturnPath,
	"received":                  FieldReceived,
	"mime-version":              FieldMIMEVersion,
	"content-type":              FieldContentType,
	"content-transfer-encoding": FieldContentTransferEncoding,
	"content-id":                FieldContentID,
	"content-description":       FieldContentDescription,
}

var fieldNames = map[FieldKind]string{
	FieldDate:                    "Date",
	FieldFrom:                    "From",
	FieldSender:                  "Sender",
	FieldReplyTo:                 "Reply-To",
	FieldTo:                      "To",
	FieldCc:                      "Cc",
	FieldBcc:                     "Bcc",
	FieldMessageID:               "Message-ID",
	FieldInReplyTo:               "In-Reply-To",
	FieldReferences:              "References",
	FieldSubject:                 "Subject",
	FieldComments:                "Comments",
	FieldKeywords:                "Keywords",
	FieldReturnPath:              "Return-Path",
	FieldReceived:                "Received",
	FieldMIMEVersion:             "MIME-Version",
	FieldContentType:             "Content-Type",
	FieldContentTransferEncoding: "Content-Transfer-Encoding",
	FieldContentID:               "Content-ID",
	FieldContentDescription:      "Content-Description",
}

// String returns the canonical header name, or "Optional"/"Rescue".
func (k FieldKind) String() string {
	if s, ok := fieldNames[k]; ok {
		return s
	}
	if k == FieldOptional {
		return "Optional"
	}
	return "Rescue"
}

// Field is a single parsed header field. Name and Raw are spans into the
// header text. When Bad is set the value parser did not match and only
// Kind, Name and Raw are meaningful; every recognized field keeps its raw
// value this way so nothing is ever lost.
type Field struct {
	Kind FieldKind
	Name string // Header name as it appeared. Empty for Rescue fields.
	Raw  string // Raw value (the whole line for Rescue fields).
	Bad  bool

	// The slot for Kind, set unless Bad.
	Date        *time.Time      // Date
	Mailboxes   []Mailbox       // From
	Mailbox     *Mailbox        // Sender
	Addresses   []Address       // Reply-To, To, Cc, Bcc
	MsgID       *MessageID      // Message-ID, Content-ID
	MsgIDs      []MessageID     // In-Reply-To, References
	Text        string          // Subject, Comments, Content-Description, Optional
	Phrases     []string        // Keywords
	Received    *Received       // Received
	Path        *AddrSpec       // Return-Path, nil for the null path
	Version     *Version        // MIME-Version
	ContentType *mime.Type      // Content-Type
	Mechanism   *mime.Mechanism // Content-Transfer-Encoding
}

// ParseUnstructured returns the unstructured-text projection of a raw field
// value: unfolded, with encoded words decoded and outer whitespace trimmed.
func ParseUnstructured(s string) string {
	return syntax.New(s).Unstructured()
}

// ParseField parses a raw header field into its typed form. The name is
// matched case-insensitively against the dispatch table. Unknown names
// produce an Optional field; a recognized field whose value does not parse
// is returned with Bad set and the raw value preserved. ParseField always
// returns a usable field.
func ParseField(name, raw string) Field {
	f := Field{Name: name, Raw: raw}
	kind, known := fieldKinds[strings.ToLower(name)]
	if !known {
		f.Kind = FieldOptional
		f.Text = ParseUnstructured(raw)
		return f
	}
	f.Kind = kind
	switch kind {
	case FieldDate:
		if t, ok := ParseDateTime(raw); ok {
			f.Date = &t
			return f
		}
	case FieldFrom:
		if l, ok := ParseMailboxList(raw); ok {
			f.Mailboxes = l
			return f
		}
	case FieldSender:
		if m, ok := ParseMailbox(raw); ok {
			f.Mailbox = &m
			return f
		}
	case FieldReplyTo, FieldTo, FieldCc:
		if l, ok := ParseAddressList(raw); ok {
			f.Addresses = l
			return f
		}
	case FieldBcc:
		l, _ := ParseAddressListNullable(raw)
		f.Addresses = l
		return f
	case FieldMessageID, FieldContentID:
		if id, ok := ParseMessageID(raw); ok {
			f.MsgID = &id
			return f
		}
	case FieldInReplyTo, FieldReferences:
		if l, ok := ParseMessageIDList(raw); ok {
			f.MsgIDs = l
			return f
		}
	case FieldSubject, FieldComments, FieldContentDescription:
		f.Text = ParseUnstructured(raw)
		return f
	case FieldKeywords:
		if l, ok := ParsePhraseList(raw); ok {
			f.Phrases = l
			return f
		}
	case FieldReturnPath:
		if spec, ok := ParseReturnPath(raw); ok {
			f.Path = spec
			return f
		}
	case FieldReceived:
		if r, ok := ParseReceived(raw); ok {
			f.Received = &r
			return f
		}
	case FieldMIMEVersion:
		if v, ok := ParseVersion(raw); ok {
			f.Version = &v
			return f
		}
	case FieldContentType:
		if t, ok := mime.ParseType(raw); ok {
			f.ContentType = &t
			return f
		}
	case FieldContentTransferEncoding:
		if m, ok := mime.ParseMechanism(raw); ok {
			f.Mechanism = &m
			return f
		}
	}
	f.Bad = true
	return f
}

// RescueField returns a Rescue field for a header line that has no
// parseable "name:" prefix.
func RescueField(line string) Field {
	return Field{Kind: FieldRescue, Raw: line}
}
