// Package schedule knows the shop's business hours.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Opening windows in minutes since midnight, both ends inclusive.
const (
	morningOpen  = 8 * 60
	morningClose = 15 * 60
	eveningOpen  = 17*60 + 30
	eveningClose = 21 * 60
)

// HoursText is how the schedule is shown to customers.
const HoursText = "08-15hs y 17:30-21hs (Lun-Sáb)"

var (
	ErrClosedDay    = errors.New("shop closed on sundays")
	ErrClosedHours  = errors.New("pickup time outside business hours")
	ErrTimeRequired = errors.New("pickup time required")
	ErrInvalidTime  = errors.New("pickup time must be HH:MM")
)

// Reason returns the customer-facing text for a pickup rejection.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrClosedDay):
		return "Lo sentimos, los domingos permanecemos cerrados."
	case errors.Is(err, ErrClosedHours):
		return "El local está cerrado a esta hora. (Horarios: 08-15hs y 17:30-21hs)"
	case errors.Is(err, ErrTimeRequired):
		return "Elegí un horario de retiro."
	case errors.Is(err, ErrInvalidTime):
		return "El horario debe tener el formato HH:MM."
	default:
		return err.Error()
	}
}

// Validator checks pickup requests against the shop's hours in its timezone.
type Validator struct {
	loc *time.Location
}

func NewValidator(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.Local
	}
	return &Validator{loc: loc}
}

func (v *Validator) Location() *time.Location { return v.loc }

// CheckDay rejects the whole day when the shop is closed, before any time is entered.
func (v *Validator) CheckDay(now time.Time) error {
	if now.In(v.loc).Weekday() == time.Sunday {
		return ErrClosedDay
	}
	return nil
}

// Validate checks a same-day pickup time. The closed-day rule wins over
// every other reason.
func (v *Validator) Validate(now time.Time, pickup string) error {
	if err := v.CheckDay(now); err != nil {
		return err
	}
	if pickup == "" {
		return ErrTimeRequired
	}
	minutes, err := ParseClock(pickup)
	if err != nil {
		return err
	}
	if !InWindows(minutes) {
		return ErrClosedHours
	}
	return nil
}

// IsOpen reports whether the shop is serving at now.
func (v *Validator) IsOpen(now time.Time) bool {
	local := now.In(v.loc)
	if local.Weekday() == time.Sunday {
		return false
	}
	return InWindows(local.Hour()*60 + local.Minute())
}

// StatusText is the banner shown next to the shop name.
func (v *Validator) StatusText(now time.Time) string {
	if v.IsOpen(now) {
		return "Abierto ahora"
	}
	return "Cerrado ahora"
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func InWindows(minutes int) bool {
	return (minutes >= morningOpen && minutes <= morningClose) ||
		(minutes >= eveningOpen && minutes <= eveningClose)
}
