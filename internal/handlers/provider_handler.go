package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/api"
	"github.com/synap5e/homehero-web/internal/audit"
	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/httpresp"
	"github.com/synap5e/homehero-web/internal/models"
	"github.com/synap5e/homehero-web/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type ProviderHandler struct {
	Base
	audit audit.Recorder
}

func NewProviderHandler(base Base, recorder audit.Recorder) *ProviderHandler {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &ProviderHandler{Base: base, audit: recorder}
}

// ======================================================
// REQUESTS
// ======================================================

type ProfileRequest struct {
	Services        []string `json:"services" validate:"min=1,dive,hh_category"`
	Pricing         float64  `json:"pricing" validate:"gte=0"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0,lte=60"`
	ServiceRadius   float64  `json:"service_radius" validate:"gte=0"`
	Availability    *bool    `json:"availability"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type PricingRequest struct {
	Pricing *float64 `json:"pricing" validate:"required,gte=0"`
}

type providerDetail struct {
	Provider      *models.ProviderProfile `json:"provider"`
	Reviews       []models.Review         `json:"reviews"`
	ReviewCount   int                     `json:"review_count"`
	AverageRating float64                 `json:"average_rating"`
}

// ======================================================
// PUBLIC PROFILE
// ======================================================

// Get shows a provider with its reviews. A failing reviews call leaves
// the profile usable.
func (h *ProviderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	client := h.client(c)

	p, err := client.GetProvider(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	reviews, err := client.ProviderReviews(ctx, p.ProviderID)
	if err != nil {
		if httperr.IsKind(err, httperr.KindUnauthorized) {
			h.fail(c, err)
			return
		}
		h.Log.Debug("provider reviews unavailable", zap.String("provider_id", p.ProviderID), zap.Error(err))
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	c.JSON(http.StatusOK, providerDetail{
		Provider:      p,
		Reviews:       reviews,
		ReviewCount:   len(reviews),
		AverageRating: averageRating(reviews),
	})
}

func averageRating(rs []models.Review) float64 {
	if len(rs) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rs {
		sum += r.Rating
	}
	return float64(sum) / float64(len(rs))
}

// ======================================================
// SELF MANAGEMENT
// ======================================================

func (h *ProviderHandler) MyProfile(c *gin.Context) {
	p, err := h.client(c).MyProviderProfile(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *ProviderHandler) CreateProfile(c *gin.Context) {
	req, ok := h.bindProfile(c)
	if !ok {
		return
	}

	p, err := h.client(c).CreateProviderProfile(c.Request.Context(), req)
	h.record(c, "provider.profile.create", p, err)
	if err != nil {
		h.fail(c, err)
		return
	}

	s := h.session(c)
	s.ProviderID = p.ProviderID
	if err := h.Sessions.Update(c.Request.Context(), s); err != nil {
		h.Log.Warn("session update failed", zap.Error(err))
	}
	httpresp.Created(c, p)
}

func (h *ProviderHandler) UpdateProfile(c *gin.Context) {
	req, ok := h.bindProfile(c)
	if !ok {
		return
	}

	p, err := h.client(c).UpdateProviderProfile(c.Request.Context(), req)
	h.record(c, "provider.profile.update", p, err)
	if err != nil {
		h.fail(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *ProviderHandler) bindProfile(c *gin.Context) (api.ProviderProfileRequest, bool) {
	var req ProfileRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return api.ProviderProfileRequest{}, false
	}
	if err := validators.Struct(req); err != nil {
		h.fail(c, err)
		return api.ProviderProfileRequest{}, false
	}
	return api.ProviderProfileRequest{
		Services:        req.Services,
		Pricing:         req.Pricing,
		ExperienceYears: req.ExperienceYears,
		ServiceRadius:   req.ServiceRadius,
		Availability:    req.Availability,
	}, true
}

func (h *ProviderHandler) UpdateAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validators.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	err := h.client(c).UpdateAvailability(c.Request.Context(), *req.Available)
	h.record(c, "provider.availability", nil, err)
	if err != nil {
		h.fail(c, err)
		return
	}
	httpresp.OK(c, gin.H{"available": *req.Available})
}

func (h *ProviderHandler) UpdatePricing(c *gin.Context) {
	var req PricingRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validators.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	err := h.client(c).UpdatePricing(c.Request.Context(), *req.Pricing)
	h.record(c, "provider.pricing", nil, err)
	if err != nil {
		h.fail(c, err)
		return
	}
	httpresp.OK(c, gin.H{"pricing": *req.Pricing})
}

func (h *ProviderHandler) record(c *gin.Context, action string, p *models.ProviderProfile, err error) {
	s := h.session(c)
	id := s.ProviderID
	if p != nil {
		id = p.ProviderID
	}
	writeAudit(h.audit, s, action, "provider", id, err)
}
