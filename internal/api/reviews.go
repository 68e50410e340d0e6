package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/synap5e/homehero-web/internal/models"
)

type CreateReviewRequest struct {
	BookingID string   `json:"booking_id"`
	Rating    int      `json:"rating"`
	Comment   string   `json:"comment,omitempty"`
	Images    []string `json:"images"`
}

// Upload is one file sent as part of a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type messageResponse struct {
	Message string `json:"message"`
}

type uploadResponse struct {
	URLs []string `json:"urls"`
}

// CreateReview returns the backend's acknowledgement message.
func (c *Client) CreateReview(ctx context.Context, req CreateReviewRequest) (string, error) {
	if req.Images == nil {
		req.Images = []string{}
	}
	out := &messageResponse{}
	if err := c.doJSON(ctx, http.MethodPost, "/reviews/", nil, req, out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ProviderReviews(ctx context.Context, providerID string) ([]models.Review, error) {
	var out []models.Review
	if err := c.doJSON(ctx, http.MethodGet, "/reviews/provider/"+pathID(providerID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MyReviews(ctx context.Context) ([]models.Review, error) {
	var out []models.Review
	if err := c.doJSON(ctx, http.MethodGet, "/reviews/my-reviews", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetReview(ctx context.Context, id string) (*models.Review, error) {
	out := &models.Review{}
	if err := c.doJSON(ctx, http.MethodGet, "/reviews/"+pathID(id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadReviewImages posts files as multipart "files" parts and returns
// the hosted URLs in upload order.
func (c *Client) UploadReviewImages(ctx context.Context, files []Upload) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.Filename))
		if f.ContentType != "" {
			h.Set("Content-Type", f.ContentType)
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/reviews/images", nil), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	out := &uploadResponse{}
	if err := c.do(req, out); err != nil {
		return nil, err
	}
	return out.URLs, nil
}
