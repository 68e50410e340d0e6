package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/api"
	"github.com/synap5e/homehero-web/internal/audit"
	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/middleware"
	"github.com/synap5e/homehero-web/internal/search"
	"github.com/synap5e/homehero-web/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AuthHandler struct {
	Base
	searches *search.Registry
	audit    audit.Recorder
}

func NewAuthHandler(base Base, searches *search.Registry, recorder audit.Recorder) *AuthHandler {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &AuthHandler{Base: base, searches: searches, audit: recorder}
}

// ======================================================
// REQUESTS
// ======================================================

type LoginRequest struct {
	EmailOrPhone string `json:"email_or_phone" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,hh_email"`
	Phone           string `json:"phone" validate:"required,hh_phone"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	UserType        string `json:"user_type" validate:"required,oneof=customer provider"`
	Location        string `json:"location" validate:"required,hh_location"`
	Pincode         string `json:"pincode"`
}

// ======================================================
// LOGIN
// ======================================================

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	req.EmailOrPhone = strings.TrimSpace(req.EmailOrPhone)
	if err := validators.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	resp, err := h.API.Login(ctx, api.LoginRequest{
		EmailOrPhone: req.EmailOrPhone,
		Password:     req.Password,
	})
	if err != nil {
		// A 401 here is bad credentials, not an expired session.
		if httperr.IsKind(err, httperr.KindUnauthorized) {
			msg := "Invalid credentials."
			if ae, ok := httperr.AsAPIError(err); ok && ae.Status != 0 && ae.Message != httperr.DefaultMessage(httperr.KindUnauthorized) {
				msg = ae.Message
			}
			httperr.Unauthorized(c, "invalid_credentials", msg)
			return
		}
		h.fail(c, err)
		return
	}

	s, err := h.Sessions.Create(ctx, resp.AccessToken, resp.User)
	if err != nil {
		h.fail(c, err)
		return
	}

	if me, err := h.API.For(s).Me(ctx); err == nil {
		s.User = *me
		if err := h.Sessions.Update(ctx, s); err != nil {
			h.Log.Warn("session update failed", zap.Error(err))
		}
	}

	h.Cookie.Set(c, s.ID, int(time.Until(s.ExpiresAt).Seconds()))
	writeAudit(h.audit, s, "auth.login", "user", s.User.UserID, nil)

	c.JSON(http.StatusOK, gin.H{
		"user":       s.User,
		"role":       s.User.UserType,
		"expires_at": s.ExpiresAt,
	})
}

// ======================================================
// REGISTER
// ======================================================

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validators.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.API.Register(c.Request.Context(), api.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		UserType: req.UserType,
		Location: req.Location,
		Pincode:  req.Pincode,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ======================================================
// LOGOUT
// ======================================================

func (h *AuthHandler) Logout(c *gin.Context) {
	if s, ok := middleware.SessionFrom(c); ok {
		s.Invalidate(c.Request.Context())
		h.searches.Remove(s.ID)
	}
	h.Cookie.Clear(c)
	c.Status(http.StatusNoContent)
}
