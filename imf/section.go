package imf

import (
	"time"

	"github.com/mjl-/eml/mime"
)

// Section is the typed header section of a message or part. Unique fields
// keep their first occurrence, accumulating fields keep document order.
// Fields holds every parsed field in document order, Other holds the
// leftovers: unknown fields, rescued lines, and duplicates of unique
// fields.
type Section struct {
	Date    *time.Time
	DateRaw string // Raw value of an unparseable Date field.

	From    []Mailbox
	Sender  *Mailbox
	ReplyTo []Address

	To  []Address
	Cc  []Address
	Bcc []Address

	MessageID  *MessageID
	InReplyTo  []MessageID
	References []MessageID

	Subject  *string
	Comments []string
	Keywords []string

	ReturnPath []AddrSpec
	Received   []Received

	MIMEVersion *Version

	ContentType             *mime.Type
	ContentTypeRaw          string // Raw value of an unparseable Content-Type field.
	ContentTransferEncoding *mime.Mechanism
	ContentID               *MessageID
	ContentDescription      *string

	Fields []Field // All fields in document order, including bad ones.
	Other  []Field // Unknown fields, rescued lines, duplicates of unique fields.

	seen map[FieldKind]bool
}

// NewSection aggregates fields into a Section in a single pass.
func NewSection(fields []Field) *Section {
	s := &Section{seen: map[FieldKind]bool{}}
	for _, f := range fields {
		s.Add(f)
	}
	return s
}

// unique fields: first occurrence wins, duplicates go to the Other bag.
var uniqueFields = map[FieldKind]bool{
	FieldDate:                    true,
	FieldFrom:                    true,
	FieldSender:                  true,
	FieldReplyTo:                 true,
	FieldSubject:                 true,
	FieldMessageID:               true,
	FieldInReplyTo:               true,
	FieldMIMEVersion:             true,
	FieldContentType:             true,
	FieldContentTransferEncoding: true,
	FieldContentID:               true,
	FieldContentDescription:      true,
}

// Add incorporates one field.
func (s *Section) Add(f Field) {
	if s.seen == nil {
		s.seen = map[FieldKind]bool{}
	}
	switch f.Kind {
	case FieldOptional, FieldRescue:
		s.Fields = append(s.Fields, f)
		s.Other = append(s.Other, f)
		return
	}
	if uniqueFields[f.Kind] {
		if s.seen[f.Kind] {
			s.Fields = append(s.Fields, f)
			s.Other = append(s.Other, f)
			return
		}
		s.seen[f.Kind] = true
	}
	s.Fields = append(s.Fields, f)
	if f.Bad {
		// The raw value is all we have. Date and Content-Type keep it in a
		// dedicated slot, for the reprinter and for content-type salvaging.
		switch f.Kind {
		case FieldDate:
			s.DateRaw = f.Raw
		case FieldContentType:
			s.ContentTypeRaw = f.Raw
		}
		return
	}
	switch f.Kind {
	case FieldDate:
		s.Date = f.Date
	case FieldFrom:
		s.From = f.Mailboxes
	case FieldSender:
		s.Sender = f.Mailbox
	case FieldReplyTo:
		s.ReplyTo = f.Addresses
	case FieldTo:
		s.To = append(s.To, f.Addresses...)
	case FieldCc:
		s.Cc = append(s.Cc, f.Addresses...)
	case FieldBcc:
		s.Bcc = append(s.Bcc, f.Addresses...)
	case FieldMessageID:
		s.MessageID = f.MsgID
	case FieldInReplyTo:
		s.InReplyTo = f.MsgIDs
	case FieldReferences:
		s.References = append(s.References, f.MsgIDs...)
	case FieldSubject:
		v := f.Text
		s.Subject = &v
	case FieldComments:
		s.Comments = append(s.Comments, f.Text)
	case FieldKeywords:
		s.Keywords = append(s.Keywords, f.Phrases...)
	case FieldReturnPath:
		if f.Path != nil {
			s.ReturnPath = append(s.ReturnPath, *f.Path)
		}
	case FieldReceived:
		s.Received = append(s.Received, *f.Received)
	case FieldMIMEVersion:
		s.MIMEVersion = f.Version
	case FieldContentType:
		s.ContentType = f.ContentType
	case FieldContentTransferEncoding:
		s.ContentTransferEncoding = f.Mechanism
	case FieldContentID:
		s.ContentID = f.MsgID
	case FieldContentDescription:
		v := f.Text
		s.ContentDescription = &v
	}
}

// FromOrSender returns the mailboxes to consider the message author: From,
// or Sender if From is absent.
func (s *Section) FromOrSender() []Mailbox {
	if len(s.From) > 0 {
		return s.From
	}
	if s.Sender != nil {
		return []Mailbox{*s.Sender}
	}
	return nil
}
