package booking

import (
	"strconv"
	"strings"
	"time"

	"github.com/synap5e/homehero-web/internal/httperr"
)

// DefaultLeadTime is how far ahead a booking or reschedule must be placed.
const DefaultLeadTime = 2 * time.Hour

// ValidateCancel requires a reason; nothing is sent without one.
func ValidateCancel(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return httperr.Invalid("reason", "required", "Please provide a reason for cancellation.")
	}
	return nil
}

// ValidateReschedule checks both required fields and the lead time.
func ValidateReschedule(when time.Time, reason string, now time.Time, lead time.Duration) error {
	ve := &httperr.ValidationError{}
	if when.IsZero() {
		ve.Add("new_date_time", "required", "Please select new date and time.")
	} else if err := ValidateLeadTime(when, now, lead); err != nil {
		ve.Add("new_date_time", "too_soon", leadTimeMessage(lead))
	}
	if strings.TrimSpace(reason) == "" {
		ve.Add("reason", "required", "Please provide a reason for rescheduling.")
	}
	return ve.OrNil()
}

// ValidateLeadTime rejects times earlier than now+lead.
func ValidateLeadTime(when, now time.Time, lead time.Duration) error {
	if lead <= 0 {
		lead = DefaultLeadTime
	}
	if when.Before(now.Add(lead)) {
		return httperr.Invalid("date_time", "too_soon", leadTimeMessage(lead))
	}
	return nil
}

func leadTimeMessage(lead time.Duration) string {
	if lead <= 0 {
		lead = DefaultLeadTime
	}
	return "Please select a date and time at least " + humanDuration(lead) + " from now."
}

func humanDuration(d time.Duration) string {
	if d%time.Hour == 0 {
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return strconv.Itoa(h) + " hours"
	}
	return strconv.Itoa(int(d/time.Minute)) + " minutes"
}
