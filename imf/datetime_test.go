package imf

import (
	"testing"
	"time"
)

func tdate(t *testing.T, s string, exp time.Time) {
	t.Helper()
	got, ok := ParseDateTime(s)
	if !ok {
		t.Fatalf("parsing %q: no match", s)
	}
	if !got.Equal(exp) {
		t.Fatalf("parsing %q: got %v, expected %v", s, got, exp)
	}
	_, gotoff := got.Zone()
	_, expoff := exp.Zone()
	if gotoff != expoff {
		t.Fatalf("parsing %q: got zone offset %d, expected %d", s, gotoff, expoff)
	}
}

func tdatefail(t *testing.T, s string) {
	t.Helper()
	if _, ok := ParseDateTime(s); ok {
		t.Fatalf("parsing %q: expected no match", s)
	}
}

func tz(offset int) *time.Location {
	if offset == 0 {
		return time.UTC
	}
	return time.FixedZone("", offset)
}

func TestDateTimeStrict(t *testing.T) {
	tdate(t, "Fri, 21 Nov 1997 09:55:06 -0600", time.Date(1997, 11, 21, 9, 55, 6, 0, tz(-6*3600)))
	tdate(t, "Tue, 1 Jul 2003 10:52:37 +0200", time.Date(2003, 7, 1, 10, 52, 37, 0, tz(2*3600)))
}

func TestDateTimeObsolete(t *testing.T) {
	// Two-digit years.
	tdate(t, "21 Nov 97 09:55:06 GMT", time.Date(1997, 11, 21, 9, 55, 6, 0, tz(0)))
	tdate(t, "21 Nov 23 09:55:06Z", time.Date(2023, 11, 21, 9, 55, 6, 0, tz(0)))
	// Three-digit year.
	tdate(t, "21 Nov 103 09:55:06 UT", time.Date(2003, 11, 21, 9, 55, 6, 0, tz(0)))
	// Missing seconds, folded whitespace, trailing comment.
	tdate(t, "Thu,\r\n 13\r\n Feb\r\n 1969\r\n 23:32\r\n -0330 (Newfoundland Time)",
		time.Date(1969, 2, 13, 23, 32, 0, 0, tz(-(3*3600+30*60))))
	// Comments between time digits.
	tdate(t, "Fri, 21 Nov 1997 09(comment):   55  :  06 -0600", time.Date(1997, 11, 21, 9, 55, 6, 0, tz(-6*3600)))
	// Named USA zone.
	tdate(t, "21 Nov 2023 4:4:4 CST", time.Date(2023, 11, 21, 4, 4, 4, 0, tz(-6*3600)))
	// Unknown alphanumeric zone means +0000.
	tdate(t, "21 Nov 2023 07:07:07 XXX", time.Date(2023, 11, 21, 7, 7, 7, 0, tz(0)))
}

func TestDateTimeMilitaryZones(t *testing.T) {
	east := []string{"a", "B", "c", "D", "e", "F", "g", "H", "i", "K", "l", "M"}
	for i, z := range east {
		tdate(t, "1 Jan 22 08:00:00 "+z, time.Date(2022, 1, 1, 8, 0, 0, 0, tz((i+1)*3600)))
	}
	west := []string{"N", "O", "P", "q", "r", "s", "T", "U", "V", "w", "x", "y"}
	for i, z := range west {
		tdate(t, "1 Jan 22 08:00:00 "+z, time.Date(2022, 1, 1, 8, 0, 0, 0, tz(-(i+1)*3600)))
	}
	tdate(t, "1 Jan 22 08:00:00 Z", time.Date(2022, 1, 1, 8, 0, 0, 0, tz(0)))
}

func TestDateTimeInvalid(t *testing.T) {
	tdatefail(t, "")
	tdatefail(t, "not a date")
	tdatefail(t, "32 Jan 2022 08:00:00 +0000")
	tdatefail(t, "30 Feb 2022 08:00:00 +0000")
	tdatefail(t, "1 Januark 2022 08:00:00 +0000")
	tdatefail(t, "1 Jan 2022 08:00:00")       // Missing zone.
	tdatefail(t, "1 Jan 2022 08:00:00 -060")  // Short numeric zone.
	tdatefail(t, "1 Jan 2 08:00:00 +0000")    // One-digit year.
	tdatefail(t, "1 Jan 2022 08:00:00 +0000 trailing")
}
