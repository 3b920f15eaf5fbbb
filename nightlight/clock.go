package nightlight

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/enyium/semreg"
)

// ClockTime is a wall-clock time of day with minute precision. The zero
// value is midnight.
type ClockTime struct {
	hour   uint8
	minute uint8
}

// ClockTimeFrame is a daily time window. Equal start and end mean a
// zero-length window, not a full day.
type ClockTimeFrame struct {
	Start ClockTime
	End   ClockTime
}

// Meridiem is the half of day a 12-hour clock reading belongs to.
type Meridiem int

const (
	AM Meridiem = iota
	PM
)

func (m Meridiem) String() string {
	if m == PM {
		return "pm"
	}
	return "am"
}

var errBadClockTime = errors.New("invalid clock time or frame")

// ClockTimeOf validates a 24-hour clock reading.
func ClockTimeOf(hour, minute int) (ClockTime, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, false
	}
	return ClockTime{hour: uint8(hour), minute: uint8(minute)}, true
}

// ClockTimeWithMeridiem validates a 12-hour clock reading. 12am maps to
// hour zero, pm adds twelve to hours below it.
func ClockTimeWithMeridiem(hour, minute int, m Meridiem) (ClockTime, bool) {
	if hour < 0 || hour > 12 {
		return ClockTime{}, false
	}
	switch {
	case m == AM && hour == 12:
		hour = 0
	case m == PM && hour < 12:
		hour += 12
	}
	return ClockTimeOf(hour, minute)
}

func (t ClockTime) Hour() int { return int(t.hour) }

func (t ClockTime) Minute() int { return int(t.minute) }

// HourMeridiem returns the hour as a 12-hour clock would show it.
func (t ClockTime) HourMeridiem() (int, Meridiem) {
	switch {
	case t.hour == 0:
		return 12, AM
	case t.hour == 12:
		return 12, PM
	case t.hour > 12:
		return int(t.hour) - 12, PM
	default:
		return int(t.hour), AM
	}
}

func (t ClockTime) IsMidnight() bool {
	return t.hour == 0 && t.minute == 0
}

// Format renders "hh:mm", or "hh:mmam"/"hh:mmpm" when use12HourClock is set.
func (t ClockTime) Format(use12HourClock bool) string {
	if use12HourClock {
		hour, m := t.HourMeridiem()
		return fmt.Sprintf("%02d:%02d%s", hour, t.minute, m)
	}
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

func (t ClockTime) String() string {
	return t.Format(false)
}

// ParseClockTime accepts "h:mm" with an optional am/pm suffix in any case
// directly after the minutes.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.ToLower(s)
	hourStr, rest, found := strings.Cut(s, ":")
	if !found {
		return ClockTime{}, errBadClockTime
	}

	meridiem, hasMeridiem := AM, false
	if minuteStr, stripped := strings.CutSuffix(rest, "am"); stripped {
		rest, hasMeridiem = minuteStr, true
	} else if minuteStr, stripped := strings.CutSuffix(rest, "pm"); stripped {
		rest, meridiem, hasMeridiem = minuteStr, PM, true
	}

	hour, err := strconv.ParseUint(hourStr, 10, 8)
	if err != nil {
		return ClockTime{}, errBadClockTime
	}
	minute, err := strconv.ParseUint(rest, 10, 8)
	if err != nil {
		return ClockTime{}, errBadClockTime
	}

	var t ClockTime
	var valid bool
	if hasMeridiem {
		t, valid = ClockTimeWithMeridiem(int(hour), int(minute), meridiem)
	} else {
		t, valid = ClockTimeOf(int(hour), int(minute))
	}
	if !valid {
		return ClockTime{}, errBadClockTime
	}
	return t, nil
}

func (f ClockTimeFrame) Format(use12HourClock bool) string {
	return f.Start.Format(use12HourClock) + "-" + f.End.Format(use12HourClock)
}

func (f ClockTimeFrame) String() string {
	return f.Format(false)
}

// ParseClockTimeFrame accepts "start-end" with both halves in ParseClockTime
// syntax.
func ParseClockTimeFrame(s string) (ClockTimeFrame, error) {
	startStr, endStr, found := strings.Cut(s, "-")
	if !found {
		return ClockTimeFrame{}, errBadClockTime
	}
	start, err := ParseClockTime(startStr)
	if err != nil {
		return ClockTimeFrame{}, err
	}
	end, err := ParseClockTime(endStr)
	if err != nil {
		return ClockTimeFrame{}, err
	}
	return ClockTimeFrame{Start: start, End: end}, nil
}

// readClockTime consumes the binary form: hour behind an 0e marker, minutes
// behind a 2e marker, either absent when zero.
func readClockTime(c *semreg.ByteSeq) (ClockTime, error) {
	var hour, minute uint8
	var err error
	if c.AssertConst(0x0e) == nil {
		if hour, err = c.ReadUint8(); err != nil {
			return ClockTime{}, err
		}
	}
	if c.AssertConst(0x2e) == nil {
		if minute, err = c.ReadUint8(); err != nil {
			return ClockTime{}, err
		}
	}
	t, valid := ClockTimeOf(int(hour), int(minute))
	if !valid {
		return ClockTime{}, c.Err(semreg.ErrValueNotInRange)
	}
	return t, nil
}

func pushClockTime(c *semreg.ByteSeq, t ClockTime) {
	if t.hour != 0 {
		c.PushConst(0x0e)
		c.PushUint8(t.hour)
	}
	if t.minute != 0 {
		c.PushConst(0x2e)
		c.PushUint8(t.minute)
	}
}
