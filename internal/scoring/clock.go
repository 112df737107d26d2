package scoring

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrMalformedTime = errors.New("malformed clock time")

var clockLayouts = []string{"15:04:05", "15:04"}

// ParseClock parses a time of day such as "23:00:00 PM" or "07:30:00 AM" and returns the
// offset from midnight. A trailing AM/PM converts 12-hour values; when the hour is already
// above 12 the marker is redundant and ignored.
func ParseClock(raw string) (time.Duration, error) {
	s := strings.ToUpper(normalizeLabel(raw))
	if isBlank(s) {
		return 0, fmt.Errorf("%w: empty", ErrMalformedTime)
	}

	meridiem := ""
	if strings.HasSuffix(s, "AM") || strings.HasSuffix(s, "PM") {
		meridiem = s[len(s)-2:]
		s = strings.TrimSpace(s[:len(s)-2])
	}

	var (
		t   time.Time
		err error
	)
	for _, layout := range clockLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			break
		}
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, raw)
	}

	hour := t.Hour()
	switch meridiem {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 12 {
			hour += 12
		}
	}
	return time.Duration(hour)*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// timeInBed is the clock distance from bed time forward to rising time, wrapping midnight.
func timeInBed(bed, rise time.Duration) time.Duration {
	d := rise - bed
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}
