package models

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrUnparsableSchedule is returned when a match's date/time strings do not
// form a recognizable moment. Callers treat it as "no reminder", never fatal.
var ErrUnparsableSchedule = errors.New("unparsable match schedule")

// ScheduledAt parses the match's free-form date/time into a concrete moment
// in the given location. Accepted forms are "d/m" (current year implied) or
// "d/m/y" for the date, and "HH:MM" or "HHhMM" for the time.
func (m *Match) ScheduledAt(now time.Time, loc *time.Location) (time.Time, error) {
	ts := strings.ToLower(strings.TrimSpace(m.Time))
	ts = strings.ReplaceAll(ts, "h", ":")
	hm := strings.Split(ts, ":")
	if len(hm) != 2 {
		return time.Time{}, ErrUnparsableSchedule
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hm[0]))
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, ErrUnparsableSchedule
	}
	minute, err := strconv.Atoi(strings.TrimSpace(hm[1]))
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, ErrUnparsableSchedule
	}

	parts := strings.Split(strings.TrimSpace(m.Date), "/")
	var day, month, year int
	switch len(parts) {
	case 2:
		year = now.In(loc).Year()
	case 3:
		year, err = strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return time.Time{}, ErrUnparsableSchedule
		}
		if year < 100 {
			year += 2000
		}
	default:
		return time.Time{}, ErrUnparsableSchedule
	}
	day, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, ErrUnparsableSchedule
	}
	month, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, ErrUnparsableSchedule
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc), nil
}
