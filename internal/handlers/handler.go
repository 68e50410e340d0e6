package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/api"
	domain "github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/middleware"
	"github.com/synap5e/homehero-web/internal/session"
)

// ======================================================
// SHARED
// ======================================================

// Base is embedded by every handler that talks to the HomeHero API on
// behalf of the signed-in browser.
type Base struct {
	API      *api.Client
	Sessions *session.Manager
	Cookie   middleware.Cookie
	Log      *zap.Logger
}

// session returns the request's session. Routes using it sit behind
// RequireSession, so a miss is a wiring error.
func (b *Base) session(c *gin.Context) *session.Session {
	s, _ := middleware.SessionFrom(c)
	return s
}

// client is the API client bound to the request's session.
func (b *Base) client(c *gin.Context) *api.Client {
	return b.API.For(b.session(c))
}

// viewer resolves the acting user. Providers get their profile id filled
// in once and cached on the session. Only an unauthorized answer is
// returned; a provider without a profile is still a viewer.
func (b *Base) viewer(c *gin.Context) (domain.Viewer, error) {
	s := b.session(c)
	if s.Role() == domain.RoleProvider && s.ProviderID == "" {
		if err := b.resolveProviderID(c.Request.Context(), s); err != nil {
			return domain.Viewer{}, err
		}
	}
	return s.Viewer(), nil
}

func (b *Base) resolveProviderID(ctx context.Context, s *session.Session) error {
	profile, err := b.API.For(s).MyProviderProfile(ctx)
	switch {
	case err == nil:
	case httperr.IsKind(err, httperr.KindUnauthorized):
		return err
	case httperr.IsKind(err, httperr.KindNotFound):
		return nil
	default:
		b.Log.Debug("provider profile lookup failed", zap.Error(err))
		return nil
	}

	s.ProviderID = profile.ProviderID
	if err := b.Sessions.Update(ctx, s); err != nil {
		b.Log.Warn("session update failed", zap.Error(err))
	}
	return nil
}

// fail writes err for the browser. An unauthorized answer from the API
// has already invalidated the session, so the cookie goes with it.
func (b *Base) fail(c *gin.Context, err error) {
	if httperr.IsKind(err, httperr.KindUnauthorized) {
		b.Cookie.Clear(c)
	}
	httperr.Respond(c, b.Log.With(zap.String("request_id", middleware.RequestIDFrom(c))), err)
}

// bind decodes the JSON body; a malformed body is a single form error.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return httperr.Invalid("_", "invalid_body", "The request body could not be read.")
	}
	return nil
}
