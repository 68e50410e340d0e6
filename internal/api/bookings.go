package api

import (
	"context"
	"net/http"
	"time"

	"github.com/synap5e/homehero-web/internal/models"
)

type CreateBookingRequest struct {
	ProviderID          string  `json:"provider_id"`
	ServiceType         string  `json:"service_type"`
	DateTime            string  `json:"date_time"`
	SpecialInstructions string  `json:"special_instructions"`
	EstimatedPrice      float64 `json:"estimated_price"`
}

type respondRequest struct {
	Status string `json:"status"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type rescheduleRequest struct {
	NewDateTime string `json:"new_date_time"`
	Reason      string `json:"reason"`
}

// FormatDateTime renders times the way the API expects them in payloads.
func FormatDateTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	out := &models.Booking{}
	if err := c.doJSON(ctx, http.MethodPost, "/bookings/", nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MyBookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	if err := c.doJSON(ctx, http.MethodGet, "/bookings/my-bookings", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PendingBookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	if err := c.doJSON(ctx, http.MethodGet, "/bookings/provider/pending", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	out := &models.Booking{}
	if err := c.doJSON(ctx, http.MethodGet, "/bookings/"+pathID(id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BookingStatus(ctx context.Context, id string) (*models.BookingStatusResult, error) {
	out := &models.BookingStatusResult{}
	if err := c.doJSON(ctx, http.MethodGet, "/bookings/"+pathID(id)+"/status", nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CanCancel(ctx context.Context, id string) (*models.CanCancelResult, error) {
	out := &models.CanCancelResult{}
	if err := c.doJSON(ctx, http.MethodGet, "/bookings/"+pathID(id)+"/can-cancel", nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RespondBooking sends the provider's decision ("accepted" or "declined").
func (c *Client) RespondBooking(ctx context.Context, id, decision string) (*models.Booking, error) {
	out := &models.Booking{}
	if err := c.doJSON(ctx, http.MethodPost, "/bookings/"+pathID(id)+"/respond", nil, respondRequest{Status: decision}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelBooking is a DELETE carrying the reason in its body.
func (c *Client) CancelBooking(ctx context.Context, id, reason string) error {
	return c.doJSON(ctx, http.MethodDelete, "/bookings/"+pathID(id), nil, cancelRequest{Reason: reason}, nil)
}

func (c *Client) RescheduleBooking(ctx context.Context, id string, when time.Time, reason string) (*models.Booking, error) {
	out := &models.Booking{}
	req := rescheduleRequest{NewDateTime: FormatDateTime(when), Reason: reason}
	if err := c.doJSON(ctx, http.MethodPut, "/bookings/"+pathID(id)+"/reschedule", nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CompleteBooking(ctx context.Context, id string) (*models.Booking, error) {
	out := &models.Booking{}
	if err := c.doJSON(ctx, http.MethodPost, "/bookings/"+pathID(id)+"/complete", nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
