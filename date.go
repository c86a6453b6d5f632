package imap

import (
	"fmt"
	"time"
)

// InternalDateLayout is the Go reference-time layout for an IMAP
// date-time (RFC 3501 section 3.3): day-month-year hour:minute:second
// zone, e.g. "17-Jul-1996 02:44:25 -0700".
const InternalDateLayout = "02-Jan-2006 15:04:05 -0700"

// DateLayout is the Go reference-time layout for a bare IMAP date (RFC
// 3501 section 9, "date" production), e.g. "17-Jul-1996". The day is
// zero-padded by Go's layout; the wire form accepts one-or-two-digit days
// and this package emits two digits, which RFC 3501 explicitly allows
// ("SP" padding is also legal but digits are simpler and round-trip
// identically once parsed).
const DateLayout = "02-Jan-2006"

// FormatInternalDate renders t as an IMAP INTERNALDATE value, without
// the surrounding quotes used on the wire.
func FormatInternalDate(t time.Time) string {
	return t.Format(InternalDateLayout)
}

// FormatDate renders t as a bare IMAP date (SEARCH SINCE/BEFORE/ON,
// APPEND date-time's date part).
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseInternalDate parses an IMAP INTERNALDATE value (without
// surrounding quotes).
func ParseInternalDate(s string) (time.Time, error) {
	t, err := time.Parse(InternalDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("imap: invalid internal date %q: %w", s, err)
	}
	return t, nil
}

// ParseDate parses a bare IMAP date value.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("imap: invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatTimeZone renders a UTC offset as "+HHMM"/"-HHMM", zero-padded to
// four digits as required by the zone production in RFC 3501 section 9.
func FormatTimeZone(offsetSeconds int) string {
	sign := byte('+')
	if offsetSeconds < 0 {
		sign = '-'
		offsetSeconds = -offsetSeconds
	}
	hh := offsetSeconds / 3600
	mm := (offsetSeconds % 3600) / 60
	return fmt.Sprintf("%c%02d%02d", sign, hh, mm)
}
