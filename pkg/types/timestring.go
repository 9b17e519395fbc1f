package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// timeLayout is the canonical wire format for a time of day.
const timeLayout = "15:04"

// storageLayout is the format used when writing to a TIME column.
const storageLayout = "15:04:05"

// ErrInvalidTimeString is returned when a value cannot be parsed as HH:MM.
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString is a time of day without a date, kept as "HH:MM".
// It maps to a Postgres TIME column: values are normalized to HH:MM:SS on
// write and truncated back to HH:MM on read.
type TimeString string

// NewTimeString builds a TimeString from the time-of-day part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString parses "HH:MM" or "HH:MM:SS" into a TimeString.
func NewTimeStringFromString(s string) (TimeString, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return TimeString(t.Format(timeLayout)), nil
	}
	if t, err := time.Parse(storageLayout, s); err == nil {
		return TimeString(t.Format(timeLayout)), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
}

// String returns the value in HH:MM form.
func (ts TimeString) String() string {
	return string(ts)
}

// IsZero reports whether the value is unset.
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// Validate checks that the value parses as HH:MM.
func (ts TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(ts)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return nil
}

// Minutes returns the value as minutes since midnight.
func (ts TimeString) Minutes() (int, error) {
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AddMinutes returns the value shifted forward by the given number of
// minutes. The result stays within one day; 23:50 + 30 wraps to 00:20.
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return TimeString(t.Add(time.Duration(minutes) * time.Minute).Format(timeLayout)), nil
}

// IsBefore reports whether ts is strictly earlier in the day than other.
func (ts TimeString) IsBefore(other TimeString) bool {
	return string(ts) < string(other)
}

// IsAfter reports whether ts is strictly later in the day than other.
func (ts TimeString) IsAfter(other TimeString) bool {
	return string(ts) > string(other)
}

// OnBoundary reports whether the value falls on a step-minute boundary
// counted from midnight.
func (ts TimeString) OnBoundary(stepMinutes int) bool {
	m, err := ts.Minutes()
	if err != nil || stepMinutes <= 0 {
		return false
	}
	return m%stepMinutes == 0
}

// Value implements driver.Valuer, normalizing HH:MM to HH:MM:SS.
func (ts TimeString) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return t.Format(storageLayout), nil
}

// Scan implements sql.Scanner for TIME columns.
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ts = ""
		return nil
	case time.Time:
		*ts = TimeString(v.Format(timeLayout))
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidTimeString, src)
	}
}
