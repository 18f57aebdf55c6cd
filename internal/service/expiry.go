package service

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var expiryPattern = regexp.MustCompile(`^(\d+)([smhdwy])$`)

// millisecond factors per unit; d/w/y are calendar approximations
// (no leap-year adjustment).
var unitMillis = map[byte]int64{
	's': 1000,
	'm': 60 * 1000,
	'h': 60 * 60 * 1000,
	'd': 24 * 60 * 60 * 1000,
	'w': 7 * 24 * 60 * 60 * 1000,
	'y': 365 * 24 * 60 * 60 * 1000,
}

// Expiry is a parsed duration string of the form <number><unit> where unit
// is one of s, m, h, d, w, y. Token expiry claims, cookie max-age and
// absolute database timestamps are all derived from the same parsed value
// so the three can never drift apart.
type Expiry struct {
	value int64
	unit  byte
}

func ParseExpiry(s string) (Expiry, error) {
	m := expiryPattern.FindStringSubmatch(s)
	if m == nil {
		return Expiry{}, fmt.Errorf("%w: expiry %q must match <number><s|m|h|d|w|y>", ErrMisconfigured, s)
	}
	value, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Expiry{}, fmt.Errorf("%w: expiry %q overflows", ErrMisconfigured, s)
	}
	return Expiry{value: value, unit: m[2][0]}, nil
}

func (e Expiry) Milliseconds() int64 {
	return e.value * unitMillis[e.unit]
}

func (e Expiry) Duration() time.Duration {
	return time.Duration(e.Milliseconds()) * time.Millisecond
}

// Time returns the absolute expiry timestamp for something issued at from.
func (e Expiry) Time(from time.Time) time.Time {
	return from.Add(e.Duration())
}

func (e Expiry) String() string {
	return fmt.Sprintf("%d%c", e.value, e.unit)
}
