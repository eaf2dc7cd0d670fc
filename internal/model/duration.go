package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field identifies one unit of a Duration.
type Field int

const (
	FieldHours Field = iota
	FieldMinutes
	FieldSeconds
)

// Fields lists every Field in display order.
var Fields = []Field{FieldHours, FieldMinutes, FieldSeconds}

// ParseField resolves a field name as sent by an edit event.
// Both long ("minutes") and short ("m") names are accepted.
func ParseField(name string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hours", "hour", "h":
		return FieldHours, true
	case "minutes", "minute", "m":
		return FieldMinutes, true
	case "seconds", "second", "s":
		return FieldSeconds, true
	default:
		return 0, false
	}
}

// String returns the long name of the field.
func (f Field) String() string {
	switch f {
	case FieldHours:
		return "hours"
	case FieldMinutes:
		return "minutes"
	case FieldSeconds:
		return "seconds"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Max returns the largest nominal value of the field.
func (f Field) Max() int {
	if f == FieldHours {
		return 23
	}
	return 59
}

// Duration is a countdown value split into hours, minutes and seconds.
type Duration struct {
	Hours   int `json:"hours" mapstructure:"hours"`
	Minutes int `json:"minutes" mapstructure:"minutes"`
	Seconds int `json:"seconds" mapstructure:"seconds"`
}

// NewDuration builds a Duration from its three units.
func NewDuration(hours, minutes, seconds int) Duration {
	return Duration{Hours: hours, Minutes: minutes, Seconds: seconds}
}

// DurationFromSeconds splits a total number of seconds into units.
// Hours are not capped at 23.
func DurationFromSeconds(total int) Duration {
	if total < 0 {
		total = 0
	}
	return Duration{
		Hours:   total / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

// ParseDuration parses "HH:MM:SS", "MM:SS" or "SS". Units may exceed
// their nominal range but must be non-negative integers.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}, fmt.Errorf("empty duration")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return Duration{}, fmt.Errorf("invalid duration %q: too many components", s)
	}

	values := make([]int, 3)
	offset := 3 - len(parts)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Duration{}, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		if n < 0 {
			return Duration{}, fmt.Errorf("invalid duration %q: negative component", s)
		}
		values[offset+i] = n
	}

	return Duration{Hours: values[0], Minutes: values[1], Seconds: values[2]}, nil
}

// String renders the duration as zero-padded HH:MM:SS.
func (d Duration) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", d.Hours, d.Minutes, d.Seconds)
}

// Get returns the value of a single field.
func (d Duration) Get(f Field) int {
	switch f {
	case FieldHours:
		return d.Hours
	case FieldMinutes:
		return d.Minutes
	default:
		return d.Seconds
	}
}

// With returns a copy of d with one field replaced.
func (d Duration) With(f Field, v int) Duration {
	switch f {
	case FieldHours:
		d.Hours = v
	case FieldMinutes:
		d.Minutes = v
	case FieldSeconds:
		d.Seconds = v
	}
	return d
}

// Clamp forces every field into its nominal range.
func (d Duration) Clamp() Duration {
	for _, f := range Fields {
		v := d.Get(f)
		if v < 0 {
			v = 0
		}
		if v > f.Max() {
			v = f.Max()
		}
		d = d.With(f, v)
	}
	return d
}

// Valid reports whether every field is inside its nominal range.
func (d Duration) Valid() bool {
	return d == d.Clamp()
}

// IsZero reports whether the countdown has nothing left.
func (d Duration) IsZero() bool {
	return d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}

// TotalSeconds returns the represented number of seconds.
func (d Duration) TotalSeconds() int {
	return d.Hours*3600 + d.Minutes*60 + d.Seconds
}

// Std converts the value to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.TotalSeconds()) * time.Second
}
