package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// RSVP represents a guest's attendance reply
type RSVP struct {
	ID                  string     `json:"id"`
	GuestName           string     `json:"guest_name"`
	Email               *string    `json:"email"`
	Phone               *string    `json:"phone"`
	Attendance          Attendance `json:"attendance"`
	GuestCount          int        `json:"guest_count"`
	DietaryRestrictions *string    `json:"dietary_restrictions"`
	Message             *string    `json:"message"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (r RSVP) Key() string        { return r.ID }
func (r RSVP) Created() time.Time { return r.CreatedAt }

// Attendance is the closed set of RSVP answers
type Attendance uint8

const (
	Attending Attendance = iota + 1
	NotAttending
	Maybe
)

// Attendances lists every valid attendance value in display order
var Attendances = []Attendance{Attending, NotAttending, Maybe}

// ParseAttendance maps the wire value to an Attendance
func ParseAttendance(s string) (Attendance, error) {
	switch s {
	case "attending":
		return Attending, nil
	case "not_attending":
		return NotAttending, nil
	case "maybe":
		return Maybe, nil
	}
	return 0, fmt.Errorf("unknown attendance %q", s)
}

func (a Attendance) String() string {
	switch a {
	case Attending:
		return "attending"
	case NotAttending:
		return "not_attending"
	case Maybe:
		return "maybe"
	}
	return fmt.Sprintf("Attendance(%d)", uint8(a))
}

// Valid reports whether a is one of the known values
func (a Attendance) Valid() bool {
	return a >= Attending && a <= Maybe
}

func (a Attendance) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid attendance %d", uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Attendance) UnmarshalText(b []byte) error {
	v, err := ParseAttendance(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Value stores the attendance as its wire string
func (a Attendance) Value() (driver.Value, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid attendance %d", uint8(a))
	}
	return a.String(), nil
}

func (a *Attendance) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	}
	return fmt.Errorf("cannot scan %T into Attendance", src)
}
