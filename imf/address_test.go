package imf

import (
	"reflect"
	"testing"
)

func tcheck(t *testing.T, ok bool, msg string) {
	t.Helper()
	if !ok {
		t.Fatalf("%s: no match", msg)
	}
}

func tcompare(t *testing.T, got, exp any) {
	t.Helper()
	if !reflect.DeepEqual(got, exp) {
		t.Fatalf("got %#v, expected %#v", got, exp)
	}
}

func TestMailbox(t *testing.T) {
	m, ok := ParseMailbox("john@example.com")
	tcheck(t, ok, "bare addr-spec")
	tcompare(t, m, Mailbox{AddrSpec: AddrSpec{"john", "example.com"}})

	m, ok = ParseMailbox("John Doe <jdoe@machine.example>")
	tcheck(t, ok, "name-addr")
	tcompare(t, m, Mailbox{Name: "John Doe", AddrSpec: AddrSpec{"jdoe", "machine.example"}})

	m, ok = ParseMailbox(`"Giant; \"Big\" Box" <sysservices@example.net>`)
	tcheck(t, ok, "quoted display name")
	tcompare(t, m.Name, `Giant; "Big" Box`)

	m, ok = ParseMailbox(`"john smith"@example.com`)
	tcheck(t, ok, "quoted localpart")
	tcompare(t, m.LocalPart, "john smith")
	tcompare(t, m.AddrSpec.String(), `"john smith"@example.com`)

	m, ok = ParseMailbox("pete(his account)@silly.test(his host)")
	tcheck(t, ok, "comments around tokens")
	tcompare(t, m.AddrSpec, AddrSpec{"pete", "silly.test"})

	m, ok = ParseMailbox("a@[127.0.0.1]")
	tcheck(t, ok, "domain literal")
	tcompare(t, m.Domain, "[127.0.0.1]")

	// Obsolete route, accepted and discarded.
	m, ok = ParseMailbox("<@a.example,@b.example:c@d.example>")
	tcheck(t, ok, "obsolete route")
	tcompare(t, m.AddrSpec, AddrSpec{"c", "d.example"})

	// Encoded word in display name.
	m, ok = ParseMailbox("=?ISO-8859-1?Q?Andr=E9?= Pirard <PIRARD@vm1.ulg.ac.be>")
	tcheck(t, ok, "encoded word in display name")
	tcompare(t, m.Name, "André Pirard")

	_, ok = ParseMailbox("not an address")
	tcompare(t, ok, false)
}

func TestMailboxList(t *testing.T) {
	l, ok := ParseMailboxList("a@b, c@d")
	tcheck(t, ok, "mailbox list")
	tcompare(t, l, []Mailbox{{AddrSpec: AddrSpec{"a", "b"}}, {AddrSpec: AddrSpec{"c", "d"}}})

	// Empty elements are tolerated.
	l, ok = ParseMailboxList(",a@b,, c@d,")
	tcheck(t, ok, "empty elements")
	tcompare(t, len(l), 2)

	// An unparseable element becomes the sentinel.
	l, ok = ParseMailboxList("not an address")
	tcheck(t, ok, "sentinel recovery")
	tcompare(t, l, []Mailbox{SentinelMailbox()})
	tcompare(t, l[0].IsSentinel(), true)

	l, ok = ParseMailboxList("a@b, garbage garbage, c@d")
	tcheck(t, ok, "sentinel in the middle")
	tcompare(t, len(l), 3)
	tcompare(t, l[1], SentinelMailbox())

	_, ok = ParseMailboxList("")
	tcompare(t, ok, false)
}

func TestAddressList(t *testing.T) {
	l, ok := ParseAddressList("Ed Jones <c@a.test>, joe@where.test, John <jdoe@one.test>")
	tcheck(t, ok, "address list")
	tcompare(t, len(l), 3)
	tcompare(t, *l[0].Mailbox, Mailbox{Name: "Ed Jones", AddrSpec: AddrSpec{"c", "a.test"}})
	tcompare(t, *l[1].Mailbox, Mailbox{AddrSpec: AddrSpec{"joe", "where.test"}})

	// Group syntax.
	l, ok = ParseAddressList("A Group: Ed Jones <c@a.test>, joe@where.test;, final@x.test")
	tcheck(t, ok, "group")
	tcompare(t, len(l), 2)
	if l[0].Group == nil {
		t.Fatalf("expected group, got %v", l[0])
	}
	tcompare(t, l[0].Group.Name, "A Group")
	tcompare(t, len(l[0].Group.Mailboxes), 2)
	tcompare(t, *l[1].Mailbox, Mailbox{AddrSpec: AddrSpec{"final", "x.test"}})

	// Empty group.
	l, ok = ParseAddressList("Undisclosed recipients:;")
	tcheck(t, ok, "empty group")
	tcompare(t, len(l), 1)
	tcompare(t, len(l[0].Group.Mailboxes), 0)

	// Bcc is commonly empty.
	l, ok = ParseAddressListNullable("")
	tcompare(t, ok, true)
	tcompare(t, len(l), 0)
}

func TestAddrSpecString(t *testing.T) {
	tcompare(t, AddrSpec{"john", "example.com"}.String(), "john@example.com")
	tcompare(t, AddrSpec{"john smith", "example.com"}.String(), `"john smith"@example.com`)
	tcompare(t, AddrSpec{`a"b`, "example.com"}.String(), `"a\"b"@example.com`)
	tcompare(t, SentinelAddrSpec().String(), "unknown@unknown")
}

func TestReturnPath(t *testing.T) {
	spec, ok := ParseReturnPath("<john@example.com>")
	tcheck(t, ok, "return path")
	tcompare(t, *spec, AddrSpec{"john", "example.com"})

	spec, ok = ParseReturnPath("<>")
	tcheck(t, ok, "null return path")
	if spec != nil {
		t.Fatalf("expected nil addr-spec for null path")
	}

	_, ok = ParseReturnPath("garbage here")
	tcompare(t, ok, false)
}

func TestReceived(t *testing.T) {
	r, ok := ParseReceived("from mail.example.com (mail.example.com [192.0.2.1]) by mx.example.org; Fri, 21 Nov 1997 09:55:06 -0600")
	tcheck(t, ok, "received")
	tcompare(t, r.Info, "from mail.example.com (mail.example.com [192.0.2.1]) by mx.example.org")
	tcompare(t, r.Date.Year(), 1997)

	_, ok = ParseReceived("no date here")
	tcompare(t, ok, false)
}
