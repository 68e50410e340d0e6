package review

import (
	"strings"

	"github.com/synap5e/homehero-web/internal/httperr"
)

const (
	MinRating = 1
	MaxRating = 5

	// MaxImages caps how many photos one review may carry.
	MaxImages = 5

	MaxCommentLength = 1000
)

type Draft struct {
	BookingID string
	Rating    int
	Comment   string
	Images    int
}

// Validate runs the form checks; eligibility of the booking is a booking guard.
func (d Draft) Validate() error {
	ve := &httperr.ValidationError{}
	if strings.TrimSpace(d.BookingID) == "" {
		ve.Add("booking_id", "required", "Please select a completed booking to leave a review.")
	}
	if d.Rating < MinRating || d.Rating > MaxRating {
		ve.Add("rating", "required", "Please select a rating.")
	}
	if len(d.Comment) > MaxCommentLength {
		ve.Add("comment", "too_long", "Comments are limited to 1000 characters.")
	}
	if d.Images > MaxImages {
		ve.Add("files", "too_many", "You can attach up to 5 photos.")
	}
	return ve.OrNil()
}
