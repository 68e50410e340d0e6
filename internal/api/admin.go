package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/synap5e/homehero-web/internal/models"
)

func pageQuery(skip, limit int) url.Values {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func (c *Client) AdminUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	var out []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/admin/users", pageQuery(skip, limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminProviders(ctx context.Context, skip, limit int) ([]models.ProviderProfile, error) {
	var out []models.ProviderProfile
	if err := c.doJSON(ctx, http.MethodGet, "/admin/providers", pageQuery(skip, limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ApproveProvider(ctx context.Context, providerID string) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/providers/"+pathID(providerID)+"/approve", nil, nil, nil)
}

func (c *Client) AdminBookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	if err := c.doJSON(ctx, http.MethodGet, "/admin/bookings", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
