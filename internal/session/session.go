package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/models"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// Session is everything the server keeps for a signed-in browser: the
// backend token and the user snapshot returned at login.
type Session struct {
	ID        string      `json:"id"`
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`

	// ProviderID is filled lazily for providers once their profile is known.
	ProviderID string `json:"provider_id,omitempty"`

	store Store
	gone  atomic.Bool
}

func (s *Session) Role() booking.Role {
	r, _ := booking.ParseRole(s.User.UserType)
	return r
}

func (s *Session) Viewer() booking.Viewer {
	return booking.Viewer{UserID: s.User.UserID, Role: s.Role(), ProviderID: s.ProviderID}
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Valid is false once the session has been invalidated through this handle.
func (s *Session) Valid() bool {
	return !s.gone.Load()
}

// Invalidate removes the session from its store. It reports true only for
// the single caller whose delete actually removed it; every other caller,
// on this handle or a concurrently loaded one, gets false.
func (s *Session) Invalidate(ctx context.Context) bool {
	if s.gone.Swap(true) {
		return false
	}
	if s.store == nil {
		return true
	}
	removed, err := s.store.Delete(ctx, s.ID)
	if err != nil {
		return false
	}
	return removed
}

// Store persists sessions by id.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	// Delete reports whether this call removed an existing entry.
	Delete(ctx context.Context, id string) (bool, error)
}

type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

// Create stores a fresh session for a successful login. The TTL is the
// shorter of the configured TTL and the token's own expiry.
func (m *Manager) Create(ctx context.Context, token string, user models.User) (*Session, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	if exp, ok := TokenExpiry(token); ok && exp.Before(expires) {
		expires = exp
	}
	if !expires.After(now) {
		return nil, ErrExpired
	}

	s := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      user,
		ExpiresAt: expires,
		store:     m.store,
	}
	if err := m.store.Save(ctx, s, expires.Sub(now)); err != nil {
		return nil, err
	}
	return s, nil
}

// Load fetches a session and drops it if its token has already expired.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store = m.store
	if s.Expired(m.now()) {
		_, _ = m.store.Delete(ctx, id)
		return nil, ErrExpired
	}
	return s, nil
}

// Update rewrites the stored user snapshot, keeping the remaining TTL.
func (m *Manager) Update(ctx context.Context, s *Session) error {
	ttl := s.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return ErrExpired
	}
	return m.store.Save(ctx, s, ttl)
}

// TokenExpiry reads the exp claim without verifying the signature; the
// backend owns the key and remains the judge of validity.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
