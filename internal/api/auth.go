package api

import (
	"context"
	"net/http"

	"github.com/synap5e/homehero-web/internal/models"
)

type LoginRequest struct {
	EmailOrPhone string `json:"email_or_phone"`
	Password     string `json:"password"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
	Location string `json:"location"`
	Pincode  string `json:"pincode"`
}

type UpdateUserRequest struct {
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
}

type locationRequest struct {
	Location string `json:"location"`
	Pincode  string `json:"pincode"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	out := &LoginResponse{}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	out := &models.User{}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	out := &models.User{}
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateMe(ctx context.Context, req UpdateUserRequest) (*models.User, error) {
	out := &models.User{}
	if err := c.doJSON(ctx, http.MethodPut, "/users/me", nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateLocation(ctx context.Context, location, pincode string) error {
	return c.doJSON(ctx, http.MethodPost, "/users/location", nil, locationRequest{Location: location, Pincode: pincode}, nil)
}
