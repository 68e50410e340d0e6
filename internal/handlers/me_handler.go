package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/api"
	"github.com/synap5e/homehero-web/internal/models"
	"github.com/synap5e/homehero-web/internal/validators"
)

type MeHandler struct {
	Base
}

func NewMeHandler(base Base) *MeHandler {
	return &MeHandler{Base: base}
}

type UpdateMeRequest struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone    string `json:"phone" validate:"omitempty,hh_phone"`
	Location string `json:"location" validate:"omitempty,hh_location"`
	Pincode  string `json:"pincode"`
}

type UpdateLocationRequest struct {
	Location string `json:"location" validate:"required,hh_location"`
	Pincode  string `json:"pincode"`
}

// GetMe refreshes the user snapshot from the API.
func (h *MeHandler) GetMe(c *gin.Context) {
	me, err := h.client(c).Me(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.remember(c, *me)
	c.JSON(http.StatusOK, me)
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validators.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	me, err := h.client(c).UpdateMe(c.Request.Context(), api.UpdateUserRequest{
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
		Pincode:  req.Pincode,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.remember(c, *me)
	c.JSON(http.StatusOK, me)
}

// UpdateLocation picks one of the fixed locations; an empty pincode takes
// the location's own.
func (h *MeHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validators.Struct(req); err != nil {
		h.fail(c, err)
		return
	}
	if req.Pincode == "" {
		loc, _ := models.LocationByName(req.Location)
		req.Pincode = loc.Pincode
	}

	ctx := c.Request.Context()
	if err := h.client(c).UpdateLocation(ctx, req.Location, req.Pincode); err != nil {
		h.fail(c, err)
		return
	}

	s := h.session(c)
	user := s.User
	user.Location = req.Location
	user.Pincode = req.Pincode
	h.remember(c, user)
	c.JSON(http.StatusOK, user)
}

// remember writes the user snapshot back to the session. user_type never
// changes after registration.
func (h *MeHandler) remember(c *gin.Context, u models.User) {
	s := h.session(c)
	u.UserType = s.User.UserType
	s.User = u
	if err := h.Sessions.Update(c.Request.Context(), s); err != nil {
		h.Log.Warn("session update failed", zap.Error(err))
	}
}
