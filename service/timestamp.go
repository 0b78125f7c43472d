package service

import (
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// maxUnixSeconds is the largest magnitude read as seconds; anything larger is milliseconds
	maxUnixSeconds = 9_999_999_999

	// maxUnixMillis bounds representable instants to +/-100,000,000 days from the epoch
	maxUnixMillis = 8_640_000_000_000_000
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// TimestampResolver normalizes submission timestamps into instants
type TimestampResolver struct {
	now func() time.Time
}

// NewTimestampResolver creates a resolver that falls back to the clock's current instant
func NewTimestampResolver(clock *Clock) *TimestampResolver {
	return &TimestampResolver{now: clock.Now}
}

// Resolve converts raw into an instant. It never fails: unrecognized input
// resolves to the current instant and is logged.
func (r *TimestampResolver) Resolve(raw string) time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		log.Warn("Submission has no timestamp, using current time")
		return r.now()
	}

	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		if t, ok := fromUnix(n); ok {
			return t
		}
	}

	if t, ok := fromDecimalSeconds(value); ok {
		return t
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}

	log.WithField("timestamp", raw).Warn("Unrecognized timestamp format, using current time")
	return r.now()
}

func fromUnix(n int64) (time.Time, bool) {
	if n >= -maxUnixSeconds && n <= maxUnixSeconds {
		return time.Unix(n, 0).UTC(), true
	}
	if n < -maxUnixMillis || n > maxUnixMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(n).UTC(), true
}

// fromDecimalSeconds reads "<seconds>.<fraction>" without going through a float
func fromDecimalSeconds(value string) (time.Time, bool) {
	whole, frac, found := strings.Cut(value, ".")
	if !found || frac == "" || !isDigits(frac) {
		return time.Time{}, false
	}

	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || sec < -maxUnixSeconds || sec > maxUnixSeconds {
		return time.Time{}, false
	}

	if len(frac) > 9 {
		frac = frac[:9]
	}
	nanos, _ := strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
	if strings.HasPrefix(whole, "-") {
		nanos = -nanos
	}
	return time.Unix(sec, nanos).UTC(), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
