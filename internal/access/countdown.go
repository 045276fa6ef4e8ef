package access

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Tier is the urgency band of the remaining-days badge.
type Tier string

const (
	TierNormal  Tier = "normal"
	TierWarning Tier = "warning"
	TierUrgent  Tier = "urgent"
)

const (
	urgentDays  = 3
	warningDays = 7
)

// expiryLayouts are the instant formats the directory has been seen to
// produce, most specific first.
var expiryLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Countdown is the dashboard badge derived from an expiry instant.
type Countdown struct {
	Valid bool
	Days  int
	Tier  Tier
	Until time.Time
}

// Expired is true for a parsable expiry with no whole day left.
func (c Countdown) Expired() bool {
	return c.Valid && c.Days <= 0
}

// Label is the badge headline.
func (c Countdown) Label() string {
	switch {
	case !c.Valid:
		return "Check Date"
	case c.Expired():
		return "Expired"
	}
	return fmt.Sprintf("%d Days", c.Days)
}

// Caption is the line under the headline.
func (c Countdown) Caption() string {
	if !c.Valid {
		return "Date format error"
	}
	return "Until " + c.Until.Format("2 Jan 2006")
}

// ParseExpiry reads an expiry instant in any of the accepted layouts.
func ParseExpiry(expiry string) (time.Time, bool) {
	expiry = strings.TrimSpace(expiry)
	if expiry == "" {
		return time.Time{}, false
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, expiry); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Remaining computes the countdown at now. Days is the ceiling of the
// remaining time in 24h units, so any partial day counts as a full one.
func Remaining(now time.Time, expiry string) Countdown {
	until, ok := ParseExpiry(expiry)
	if !ok {
		return Countdown{Tier: TierUrgent}
	}

	days := int(math.Ceil(until.Sub(now).Hours() / 24))
	return Countdown{
		Valid: true,
		Days:  days,
		Tier:  tierFor(days),
		Until: until,
	}
}

func tierFor(days int) Tier {
	switch {
	case days <= urgentDays:
		return TierUrgent
	case days <= warningDays:
		return TierWarning
	}
	return TierNormal
}
