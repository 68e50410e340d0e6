package models

type Review struct {
	ReviewID  string    `json:"review_id"`
	BookingID string    `json:"booking_id,omitempty"`
	Booking   *Booking  `json:"booking,omitempty"`
	Customer  *User     `json:"customer,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Images    []string  `json:"images"`
	CreatedAt Timestamp `json:"created_at"`
}
