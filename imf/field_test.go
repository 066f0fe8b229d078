package imf

import (
	"testing"

	"github.com/mjl-/eml/mime"
)

func TestMessageIDList(t *testing.T) {
	l, ok := ParseMessageIDList("<a@b.example> <c@d.example>")
	tcheck(t, ok, "message-id list")
	tcompare(t, l, []MessageID{{"a", "b.example"}, {"c", "d.example"}})

	// Unparseable tokens are skipped.
	l, ok = ParseMessageIDList("junk <a@b.example> more junk")
	tcheck(t, ok, "list with junk")
	tcompare(t, l, []MessageID{{"a", "b.example"}})

	// No usable id at all.
	_, ok = ParseMessageIDList("just junk")
	tcompare(t, ok, false)

	// Without the @domain form, the right side defaults to unknown.
	l, ok = ParseMessageIDList("<opaque-identifier>")
	tcheck(t, ok, "opaque id")
	tcompare(t, l, []MessageID{{"opaque-identifier", "unknown"}})

	id, ok := ParseMessageID("<NTAxNzA2@www.grrrndzero.org>")
	tcheck(t, ok, "message-id")
	tcompare(t, id.String(), "<NTAxNzA2@www.grrrndzero.org>")
}

func TestVersion(t *testing.T) {
	v, ok := ParseVersion("1.0")
	tcheck(t, ok, "version")
	tcompare(t, v, Version{1, 0})

	v, ok = ParseVersion("(produced by MetaSend Vx.x) 1.0")
	tcheck(t, ok, "version with leading comment")
	tcompare(t, v, Version{1, 0})

	_, ok = ParseVersion("one.zero")
	tcompare(t, ok, false)
}

func TestParseField(t *testing.T) {
	f := ParseField("Subject", "hello\r\n world")
	tcompare(t, f.Kind, FieldSubject)
	tcompare(t, f.Bad, false)
	tcompare(t, f.Text, "hello world")

	f = ParseField("FROM", "a@b")
	tcompare(t, f.Kind, FieldFrom)
	tcompare(t, len(f.Mailboxes), 1)

	// A recognized field with an unparseable value keeps its raw bytes.
	f = ParseField("Date", "yesterday, around noon")
	tcompare(t, f.Kind, FieldDate)
	tcompare(t, f.Bad, true)
	tcompare(t, f.Raw, "yesterday, around noon")

	// Unknown fields become Optional with unstructured text.
	f = ParseField("X-Unknown", "something something")
	tcompare(t, f.Kind, FieldOptional)
	tcompare(t, f.Text, "something something")

	f = ParseField("Content-Transfer-Encoding", "QUOTED-PRINTABLE")
	tcompare(t, f.Mechanism.Kind, mime.MechanismQuotedPrintable)
}

func TestSection(t *testing.T) {
	var fields []Field
	add := func(name, raw string) {
		fields = append(fields, ParseField(name, raw))
	}
	add("Date", "Fri, 21 Nov 1997 09:55:06 -0600")
	add("From", "a@b")
	add("To", "c@d")
	add("To", "e@f")
	add("Subject", "first")
	add("Subject", "second")
	add("Received", "by x; 21 Nov 1997 09:55:06 -0600")
	add("Return-Path", "<bounce@example.org>")
	add("Received", "by y; 22 Nov 1997 09:55:06 -0600")
	add("X-Mailer", "eml")
	fields = append(fields, RescueField("Bad entry on a line"))

	s := NewSection(fields)

	if s.Date == nil || s.Date.Year() != 1997 {
		t.Fatalf("date not aggregated")
	}
	tcompare(t, len(s.From), 1)
	// To accumulates over multiple fields.
	tcompare(t, len(s.To), 2)
	// Subject is unique, first occurrence wins, duplicate lands in Other.
	tcompare(t, *s.Subject, "first")
	// Received and Return-Path accumulate; Fields keeps the interleaved order.
	tcompare(t, len(s.Received), 2)
	tcompare(t, len(s.ReturnPath), 1)
	var trace []FieldKind
	for _, f := range s.Fields {
		if f.Kind == FieldReceived || f.Kind == FieldReturnPath {
			trace = append(trace, f.Kind)
		}
	}
	tcompare(t, trace, []FieldKind{FieldReceived, FieldReturnPath, FieldReceived})
	// Unknown field, rescued line and the duplicate Subject are in Other.
	tcompare(t, len(s.Other), 3)

	// Unparsed Date keeps its raw value.
	s = NewSection([]Field{ParseField("Date", "not a date")})
	if s.Date != nil {
		t.Fatalf("expected nil date")
	}
	tcompare(t, s.DateRaw, "not a date")
}
