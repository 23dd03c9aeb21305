// Package timeofday is a wall-clock time without a date, stored as seconds
// since midnight so comparisons are numeric rather than lexicographic.
package timeofday

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type TimeOfDay int32

const (
	Midnight  TimeOfDay = 0
	EndOfDay  TimeOfDay = 23*3600 + 59*60
)

func New(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60)
}

func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// Parse accepts "HH:MM", "HH:MM:SS" or an ISO datetime, in which case the
// component after 'T' is used and any fraction or zone suffix is ignored.
func Parse(s string) (TimeOfDay, error) {
	raw := strings.TrimSpace(s)
	if idx := strings.IndexByte(raw, 'T'); idx >= 0 {
		raw = raw[idx+1:]
	}
	end := 0
	for end < len(raw) && (raw[end] == ':' || (raw[end] >= '0' && raw[end] <= '9')) {
		end++
	}
	raw = raw[:end]

	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("timeofday: invalid value %q", s)
	}

	limits := []int{23, 59, 59}
	values := make([]int, 3)
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 {
			return 0, fmt.Errorf("timeofday: invalid value %q", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("timeofday: invalid value %q", s)
		}
		values[i] = n
	}

	return TimeOfDay(values[0]*3600 + values[1]*60 + values[2]), nil
}

// MustParse panics on invalid input. Only for constants and tests.
func MustParse(s string) TimeOfDay {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

// Plus adds m minutes without wrapping at midnight, so a cutoff past the end
// of the day stays later than every same-day time. String renders it as
// 24:30 and so on.
func (t TimeOfDay) Plus(m int) TimeOfDay {
	return t + TimeOfDay(m*60)
}

// TruncateMinute drops the seconds.
func (t TimeOfDay) TruncateMinute() TimeOfDay {
	return t - t%60
}

func (t TimeOfDay) Before(o TimeOfDay) bool { return t < o }
func (t TimeOfDay) After(o TimeOfDay) bool  { return t > o }

func (t TimeOfDay) String() string {
	if t.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On places the time of day on the given date in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc)
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second()), nil
}

func (t *TimeOfDay) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*t = FromTime(x)
		return nil
	case []byte:
		return t.parseInto(string(x))
	case string:
		return t.parseInto(x)
	case nil:
		*t = Midnight
		return nil
	default:
		return fmt.Errorf("timeofday: unsupported Scan type %T", v)
	}
}

func (t *TimeOfDay) parseInto(s string) error {
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parseInto(s)
}

// GormDataType keeps AutoMigrate on a TIME column instead of an integer.
func (TimeOfDay) GormDataType() string {
	return "time"
}
