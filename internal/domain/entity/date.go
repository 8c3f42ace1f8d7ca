package entity

import (
	"fmt"
	"time"
)

// Date is a calendar date without time of day
type Date struct {
	Year  int        `json:"year" bson:"year"`
	Month time.Month `json:"month" bson:"month"`
	Day   int        `json:"day" bson:"day"`
}

// Date layouts accepted from configuration and files
const (
	DateLayoutISO    = "2006-01-02"
	DateLayoutDotted = "02.01.2006"
)

// DateOf returns the UTC calendar date of t
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// DateFromUnix returns the UTC calendar date of a unix timestamp in seconds
func DateFromUnix(sec int64) Date {
	return DateOf(time.Unix(sec, 0))
}

// ParseDate accepts YYYY-MM-DD or DD.MM.YYYY
func ParseDate(s string) (Date, error) {
	for _, layout := range []string{DateLayoutISO, DateLayoutDotted} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or DD.MM.YYYY", s)
}

// IsZero reports whether d is unset
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Time returns midnight UTC of d
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats d as DD.MM.YYYY, the layout of the output dataset
func (d Date) String() string {
	return d.Format(DateLayoutDotted)
}

// Format formats d with a time layout
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}
