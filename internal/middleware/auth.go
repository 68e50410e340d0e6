package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/session"
)

const ContextSession = "session"

// Cookie carries the session id between browser and server.
type Cookie struct {
	Name   string
	Secure bool
}

func (ck Cookie) Set(c *gin.Context, id string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ck.Name, id, maxAge, "/", "", ck.Secure, true)
}

func (ck Cookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ck.Name, "", -1, "/", "", ck.Secure, true)
}

// SessionMiddleware attaches the session named by the cookie. Unknown or
// expired ids clear the cookie and the request continues anonymously.
func SessionMiddleware(mgr *session.Manager, ck Cookie, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(ck.Name)
		if err != nil || id == "" {
			c.Next()
			return
		}

		s, err := mgr.Load(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(ContextSession, s)
		case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
			ck.Clear(c)
		default:
			log.Error("session load failed", zap.Error(err), zap.String("request_id", RequestIDFrom(c)))
			ck.Clear(c)
		}
		c.Next()
	}
}

// SessionFrom returns the session attached by SessionMiddleware.
func SessionFrom(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok && s != nil
}

func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := SessionFrom(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{
				Code:     "unauthenticated",
				Message:  "Please log in to continue.",
				Redirect: httperr.LoginPath,
			})
			return
		}
		c.Next()
	}
}

// RequireRole admits only sessions whose user_type is one of roles.
func RequireRole(log *zap.Logger, roles ...booking.Role) gin.HandlerFunc {
	allowed := make(map[booking.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		s, ok := SessionFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{
				Code:     "unauthenticated",
				Message:  "Please log in to continue.",
				Redirect: httperr.LoginPath,
			})
			return
		}
		if _, ok := allowed[s.Role()]; !ok {
			log.Warn("role not allowed",
				zap.String("role", s.User.UserType),
				zap.String("path", c.FullPath()),
				zap.String("request_id", RequestIDFrom(c)),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, httperr.HTTPError{
				Code:    "forbidden",
				Message: httperr.DefaultMessage(httperr.KindForbidden),
			})
			return
		}
		c.Next()
	}
}
