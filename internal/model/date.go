package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage layout of calendar dates.
const DateLayout = "2006-01-02"

// daysBeforeUnixEpoch is the number of days from 0001-01-01 to 1970-01-01.
const daysBeforeUnixEpoch = 719162

// Date is a calendar date with no time of day, held as UTC midnight.
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month and day. Out-of-range values are
// normalised the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses "YYYY-MM-DD". A trailing time part (RFC 3339) is
// accepted and dropped.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return DateOf(t), nil
		}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DayNumber counts days since 0001-01-01.
func (d Date) DayNumber() int {
	secs := d.t.Unix()
	days := secs / 86400
	if secs%86400 < 0 {
		days--
	}
	return int(days) + daysBeforeUnixEpoch
}

func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) Time() time.Time { return d.t }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }
func (d Date) String() string { return d.t.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected a string", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan reads DATE columns; the MySQL driver yields time.Time with parseTime=true.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v.UTC())
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}

// DateRange is a half-open stay [CheckIn, CheckOut).
type DateRange struct {
	CheckIn  Date
	CheckOut Date
}

// Nights is the integer day difference between check-out and check-in.
func (r DateRange) Nights() int { return r.CheckOut.DayNumber() - r.CheckIn.DayNumber() }

// Valid reports whether check-out falls strictly after check-in.
func (r DateRange) Valid() bool { return r.CheckOut.After(r.CheckIn) }

// Overlaps reports whether two stays share at least one night.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.CheckIn.Before(o.CheckOut) && r.CheckOut.After(o.CheckIn)
}
