package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/synap5e/homehero-web/internal/models"
)

type ProviderProfileRequest struct {
	Services        []string `json:"services"`
	Pricing         float64  `json:"pricing"`
	ExperienceYears int      `json:"experience_years"`
	ServiceRadius   float64  `json:"service_radius"`
	Availability    *bool    `json:"availability,omitempty"`
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

type pricingRequest struct {
	Pricing float64 `json:"pricing"`
}

// ListProviders is the basic listing, GET /providers/.
func (c *Client) ListProviders(ctx context.Context, query url.Values) ([]models.ProviderProfile, error) {
	var out []models.ProviderProfile
	if err := c.doJSON(ctx, http.MethodGet, "/providers/", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchProviders runs the filtered search with an already composed query.
func (c *Client) SearchProviders(ctx context.Context, query url.Values) ([]models.ProviderProfile, error) {
	var out []models.ProviderProfile
	if err := c.doJSON(ctx, http.MethodGet, "/providers/search", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProvider(ctx context.Context, id string) (*models.ProviderProfile, error) {
	out := &models.ProviderProfile{}
	if err := c.doJSON(ctx, http.MethodGet, "/providers/"+pathID(id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MyProviderProfile(ctx context.Context) (*models.ProviderProfile, error) {
	out := &models.ProviderProfile{}
	if err := c.doJSON(ctx, http.MethodGet, "/providers/me", nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProviderProfile(ctx context.Context, req ProviderProfileRequest) (*models.ProviderProfile, error) {
	out := &models.ProviderProfile{}
	if err := c.doJSON(ctx, http.MethodPost, "/providers/", nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateProviderProfile(ctx context.Context, req ProviderProfileRequest) (*models.ProviderProfile, error) {
	out := &models.ProviderProfile{}
	if err := c.doJSON(ctx, http.MethodPut, "/providers/me", nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateAvailability(ctx context.Context, available bool) error {
	return c.doJSON(ctx, http.MethodPut, "/providers/availability", nil, availabilityRequest{Available: available}, nil)
}

func (c *Client) UpdatePricing(ctx context.Context, pricing float64) error {
	return c.doJSON(ctx, http.MethodPut, "/providers/pricing", nil, pricingRequest{Pricing: pricing}, nil)
}
