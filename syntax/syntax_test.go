package syntax

import (
	"testing"
)

func tcompare(t *testing.T, got, exp any) {
	t.Helper()
	if got != exp {
		t.Fatalf("got %v, expected %v", got, exp)
	}
}

func TestFWS(t *testing.T) {
	p := New("\r\n world")
	tcompare(t, p.FWS(), true)
	tcompare(t, p.Remainder(), "world")

	p = New(" \r\n \r\n world")
	tcompare(t, p.FWS(), true)
	tcompare(t, p.Remainder(), "world")

	p = New(" world")
	tcompare(t, p.FWS(), true)
	tcompare(t, p.Remainder(), "world")

	// A line break not followed by whitespace is not folding.
	p = New("\r\nFrom: test")
	tcompare(t, p.FWS(), false)
	tcompare(t, p.Remainder(), "\r\nFrom: test")
}

func TestCFWS(t *testing.T) {
	p := New("(A nice \\) chap) <pete@silly.test>")
	tcompare(t, p.CFWS(), true)
	tcompare(t, p.Remainder(), "<pete@silly.test>")

	p = New("(double (comment) is fun) wouch")
	tcompare(t, p.CFWS(), true)
	tcompare(t, p.Remainder(), "wouch")

	p = New("(=?US-ASCII?Q?Keith_Moore?=)")
	tcompare(t, p.CFWS(), true)
	tcompare(t, p.Empty(), true)

	// Unbalanced comment does not consume.
	p = New("(oops")
	tcompare(t, p.CFWS(), false)
	tcompare(t, p.Remainder(), "(oops")
}

func TestAtom(t *testing.T) {
	p := New("hello world")
	s, ok := p.Atom()
	tcompare(t, ok, true)
	tcompare(t, s, "hello")
	tcompare(t, p.Remainder(), " world")

	p = New("a.b.c rest")
	s, ok = p.DotAtom()
	tcompare(t, ok, true)
	tcompare(t, s, "a.b.c")

	// No trailing dot.
	p = New("a.b. rest")
	s, ok = p.DotAtom()
	tcompare(t, ok, true)
	tcompare(t, s, "a.b")
	tcompare(t, p.Remainder(), ". rest")
}

func TestQuotedString(t *testing.T) {
	p := New(`"hello \"world\"" rest`)
	s, ok := p.QuotedString()
	tcompare(t, ok, true)
	tcompare(t, s, `hello "world"`)
	tcompare(t, p.Remainder(), " rest")

	// Folding whitespace collapses inside.
	p = New("\"a\r\n b\"")
	s, ok = p.QuotedString()
	tcompare(t, ok, true)
	tcompare(t, s, "a b")

	// Unterminated.
	p = New(`"oops`)
	_, ok = p.QuotedString()
	tcompare(t, ok, false)
	tcompare(t, p.Remainder(), `"oops`)
}

func TestDomainLiteral(t *testing.T) {
	p := New("[127.0.0.1] rest")
	s, ok := p.DomainLiteral()
	tcompare(t, ok, true)
	tcompare(t, s, "[127.0.0.1]")

	p = New("[IPv6:2001:db8::1]")
	s, ok = p.DomainLiteral()
	tcompare(t, ok, true)
	tcompare(t, s, "[IPv6:2001:db8::1]")
}

func TestEncodedWord(t *testing.T) {
	p := New("=?ISO-8859-1?Q?Andr=E9?= rest")
	s, ok := p.EncodedWord()
	tcompare(t, ok, true)
	tcompare(t, s, "André")
	tcompare(t, p.Remainder(), " rest")

	p = New("=?US-ASCII?Q?Keith_Moore?=")
	s, ok = p.EncodedWord()
	tcompare(t, ok, true)
	tcompare(t, s, "Keith Moore")

	p = New("=?UTF-8?B?aGVsbG8=?=")
	s, ok = p.EncodedWord()
	tcompare(t, ok, true)
	tcompare(t, s, "hello")

	// Unknown charset: consumed, returned undecoded.
	p = New("=?X-NO-SUCH?Q?abc?=")
	s, ok = p.EncodedWord()
	tcompare(t, ok, true)
	tcompare(t, s, "=?X-NO-SUCH?Q?abc?=")

	// Not an encoded word.
	p = New("=?broken")
	_, ok = p.EncodedWord()
	tcompare(t, ok, false)
	tcompare(t, p.Remainder(), "=?broken")
}

func TestPhrase(t *testing.T) {
	p := New("John Q. Public <")
	s, ok := p.Phrase()
	tcompare(t, ok, true)
	tcompare(t, s, "John Q. Public")
	tcompare(t, p.Remainder(), " <")

	p = New(`"Giant; \"Big\" Box" <`)
	s, ok = p.Phrase()
	tcompare(t, ok, true)
	tcompare(t, s, `Giant; "Big" Box`)

	p = New("=?ISO-8859-1?Q?Andr=E9?= Pirard <")
	s, ok = p.Phrase()
	tcompare(t, ok, true)
	tcompare(t, s, "André Pirard")
}

func TestUnstructured(t *testing.T) {
	tcompare(t, New("hello\r\n world").Unstructured(), "hello world")
	tcompare(t, New("  x  ").Unstructured(), "x")
	// Whitespace between adjacent encoded words is dropped.
	tcompare(t, New("=?ISO-8859-1?B?SWYgeW91IGNhbiByZWFkIHRoaXMgeW8=?=\r\n =?ISO-8859-2?B?dSB1bmRlcnN0YW5kIHRoZSBleGFtcGxlLg==?=").Unstructured(),
		"If you can read this you understand the example.")
	tcompare(t, New("plain =?UTF-8?Q?encoded?= tail").Unstructured(), "plain encoded tail")
}
