package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/api"
	"github.com/synap5e/homehero-web/internal/audit"
	"github.com/synap5e/homehero-web/internal/config"
	"github.com/synap5e/homehero-web/internal/inflight"
	"github.com/synap5e/homehero-web/internal/middleware"
	"github.com/synap5e/homehero-web/internal/search"
	"github.com/synap5e/homehero-web/internal/session"
)

// ======================================================
// FAKE HOMEHERO API
// ======================================================

type upstream struct {
	mu      sync.Mutex
	hits    map[string]int
	queries []string
	status  string
	canCxl  bool
	noProf  bool
	expired bool
}

func (u *upstream) hit(r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.hits[r.Method+" "+r.URL.Path]++
}

func (u *upstream) count(key string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[key]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var users = map[string]map[string]any{
	"tok-customer": {"user_id": "u-c", "name": "Asha", "user_type": "customer", "location": "Panaji"},
	"tok-provider": {"user_id": "u-p", "name": "Ravi", "user_type": "provider", "location": "Margao"},
	"tok-admin":    {"user_id": "u-a", "name": "Admin", "user_type": "admin"},
}

func newUpstream(t *testing.T) (*upstream, *httptest.Server) {
	u := &upstream{hits: map[string]int{}, status: "pending", canCxl: true}
	mux := http.NewServeMux()

	token := func(r *http.Request) string {
		return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			u.hit(r)
			u.mu.Lock()
			expired := u.expired
			u.mu.Unlock()
			if _, ok := users[token(r)]; !ok || expired {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
				return
			}
			h(w, r)
		}
	}
	booking := func() map[string]any {
		u.mu.Lock()
		defer u.mu.Unlock()
		return map[string]any{
			"booking_id":      "b-1",
			"customer_id":     "u-c",
			"provider_id":     "p-1",
			"service_type":    "plumber",
			"date_time":       "2030-01-01T10:00:00",
			"estimated_price": 500,
			"status":          u.status,
		}
	}

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		u.hit(r)
		var body api.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		tok := "tok-" + strings.SplitN(body.EmailOrPhone, "@", 2)[0]
		user, ok := users[tok]
		if !ok || body.Password != "secret123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": tok, "token_type": "bearer", "user": user})
	})
	mux.HandleFunc("GET /api/users/me", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, users[token(r)])
	}))
	mux.HandleFunc("GET /api/providers/me", authed(func(w http.ResponseWriter, r *http.Request) {
		if u.noProf {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Provider profile not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"provider_id": "p-1", "rating": 4.5, "availability": true})
	}))
	mux.HandleFunc("GET /api/providers/search", authed(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.queries = append(u.queries, r.URL.RawQuery)
		u.mu.Unlock()
		writeJSON(w, http.StatusOK, []map[string]any{{"provider_id": "p-1", "services": []string{"plumber"}}})
	}))
	mux.HandleFunc("GET /api/bookings/my-bookings", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{booking()})
	}))
	mux.HandleFunc("GET /api/bookings/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, booking())
	}))
	mux.HandleFunc("GET /api/bookings/{id}/can-cancel", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"can_cancel": u.canCxl, "reason": "policy"})
	}))
	mux.HandleFunc("DELETE /api/bookings/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.status = "cancelled"
		u.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Booking cancelled"})
	}))
	mux.HandleFunc("POST /api/reviews/{$}", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Review created"})
	}))
	mux.HandleFunc("PUT /api/providers/availability", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Availability updated"})
	}))
	mux.HandleFunc("GET /api/admin/users", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{users["tok-customer"], users["tok-provider"]})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return u, srv
}

// ======================================================
// APP UNDER TEST
// ======================================================

type app struct {
	router *gin.Engine
	up     *upstream
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	up, srv := newUpstream(t)
	cfg := &config.Config{
		APIBaseURL:      srv.URL + "/api",
		APITimeout:      2 * time.Second,
		SessionTTL:      time.Hour,
		SessionCookie:   "hh_session",
		SearchDebounce:  time.Hour,
		LeadTime:        2 * time.Hour,
		Timezone:        "Asia/Kolkata",
		AllowedOrigins:  []string{"http://localhost:5173"},
		RateLimitPerMin: 1000,
	}
	log := zap.NewNop()
	reg := search.NewRegistry(cfg.SearchDebounce, 0, log)

	r := gin.New()
	RegisterRoutes(r, cfg, Infra{
		API:      api.NewClient(cfg.APIBaseURL, cfg.APITimeout, log),
		Sessions: session.NewManager(session.NewMemoryStore(), cfg.SessionTTL),
		Searches: reg,
		Guard:    inflight.New(),
		Limiter:  middleware.NewLimiter(cfg.RateLimitPerMin),
		Recorder: audit.Nop{},
		Log:      log,
	})
	return &app{router: r, up: up}
}

func (a *app) do(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *app) login(t *testing.T, who string) *http.Cookie {
	t.Helper()
	w := a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email_or_phone": who + "@homehero.in",
		"password":       "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, ck := range w.Result().Cookies() {
		if ck.Name == "hh_session" && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// ======================================================
// TESTS
// ======================================================

func TestHealth(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	a := newApp(t)
	ck := a.login(t, "customer")
	assert.True(t, ck.HttpOnly)

	w := a.do(http.MethodGet, "/api/me", nil, ck)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Asha", decode(t, w)["name"])
}

func TestLogin_BadCredentials(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email_or_phone": "customer@homehero.in",
		"password":       "wrong",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, "invalid_credentials", body["error_code"])
	assert.Equal(t, "Invalid credentials", body["message"])
	assert.Empty(t, w.Result().Cookies())
}

func TestLogin_MissingFields(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodPost, "/api/auth/login", map[string]string{}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 0, a.up.count("POST /api/auth/login"))
}

func TestSecuredRoutes_RequireSession(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodGet, "/api/dashboard", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", decode(t, w)["redirect"])
}

func TestUpstream401_InvalidatesSession(t *testing.T) {
	a := newApp(t)
	ck := a.login(t, "customer")

	a.up.mu.Lock()
	a.up.expired = true
	a.up.mu.Unlock()

	w := a.do(http.MethodGet, "/api/bookings", nil, ck)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, "session_expired", body["error_code"])
	assert.Equal(t, "/login", body["redirect"])
	assert.Contains(t, w.Header().Get("Set-Cookie"), "hh_session=;")

	// The stored session is gone; the old cookie is now anonymous.
	w = a.do(http.MethodGet, "/api/bookings", nil, ck)
	assert.Equal(t, "unauthenticated", decode(t, w)["error_code"])
}

func TestUpstream401_ProviderLookupKeepsRedirect(t *testing.T) {
	for _, path := range []string{"/api/dashboard", "/api/bookings"} {
		t.Run(path, func(t *testing.T) {
			a := newApp(t)
			ck := a.login(t, "provider")
			a.up.mu.Lock()
			a.up.expired = true
			a.up.mu.Unlock()

			w := a.do(http.MethodGet, path, nil, ck)
			require.Equal(t, http.StatusUnauthorized, w.Code)
			body := decode(t, w)
			assert.Equal(t, "session_expired", body["error_code"])
			assert.Equal(t, "/login", body["redirect"])
			assert.Equal(t, 1, a.up.count("GET /api/providers/me"))
			assert.Equal(t, 0, a.up.count("GET /api/bookings/my-bookings"))
		})
	}
}

func TestAdminRoutes_ForbiddenForCustomer(t *testing.T) {
	a := newApp(t)
	ck := a.login(t, "customer")

	w := a.do(http.MethodGet, "/api/admin/users", nil, ck)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, a.up.count("GET /api/admin/users"))

	w = a.do(http.MethodGet, "/api/admin/users", nil, a.login(t, "admin"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["total"])
}

func TestProviderAvailability(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodPut, "/api/provider/availability", map[string]bool{"available": false}, a.login(t, "customer"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	ck := a.login(t, "provider")
	w = a.do(http.MethodPut, "/api/provider/availability", map[string]any{}, ck)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 0, a.up.count("PUT /api/providers/availability"))

	w = a.do(http.MethodPut, "/api/provider/availability", map[string]bool{"available": false}, ck)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, decode(t, w)["available"])
	assert.Equal(t, 1, a.up.count("PUT /api/providers/availability"))
}

func TestActivity_DisabledWithoutDatabase(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodGet, "/api/admin/activity", nil, a.login(t, "admin"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBookingDetail_Actions(t *testing.T) {
	a := newApp(t)
	ck := a.login(t, "customer")

	w := a.do(http.MethodGet, "/api/bookings/b-1", nil, ck)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []any{"cancel", "reschedule"}, decode(t, w)["actions"])

	a.up.mu.Lock()
	a.up.canCxl = false
	a.up.mu.Unlock()

	w = a.do(http.MethodGet, "/api/bookings/b-1", nil, ck)
	assert.Equal(t, []any{"reschedule"}, decode(t, w)["actions"])
}

func TestBookingDetail_ProviderSeesRespond(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodGet, "/api/bookings/b-1", nil, a.login(t, "provider"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []any{"accept", "decline"}, decode(t, w)["actions"])
	assert.Equal(t, 0, a.up.count("GET /api/bookings/b-1/can-cancel"))
}

func TestCancel_RequiresReasonBeforeAnyCall(t *testing.T) {
	a := newApp(t)
	ck := a.login(t, "customer")

	w := a.do(http.MethodPost, "/api/bookings/b-1/cancel", map[string]string{"reason": "  "}, ck)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 0, a.up.count("GET /api/bookings/b-1"))
	assert.Equal(t, 0, a.up.count("DELETE /api/bookings/b-1"))
}

func TestCancel_SendsOneDeleteAndReturnsFreshState(t *testing.T) {
	a := newApp(t)
	ck := a.login(t, "customer")

	w := a.do(http.MethodPost, "/api/bookings/b-1/cancel", map[string]string{"reason": "Plans changed"}, ck)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "cancelled", body["status"])
	assert.Empty(t, body["actions"])
	assert.Equal(t, 1, a.up.count("DELETE /api/bookings/b-1"))
}

func TestComplete_ForbiddenWhilePending(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodPost, "/api/bookings/b-1/complete", nil, a.login(t, "provider"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_state", decode(t, w)["error_code"])
}

func TestReview_OnlyForCompleted(t *testing.T) {
	a := newApp(t)
	ck := a.login(t, "customer")

	var buf bytes.Buffer
	buf.WriteString("booking_id=b-1&rating=5&comment=great")
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", &buf)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(ck)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "booking_not_eligible", decode(t, w)["error_code"])
	assert.Equal(t, 0, a.up.count("POST /api/reviews/"))
}

func TestSearch_Flow(t *testing.T) {
	a := newApp(t)
	ck := a.login(t, "customer")

	w := a.do(http.MethodPost, "/api/search", nil, ck)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPut, "/api/search/filters", map[string]any{"location": "Atlantis"}, ck)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPut, "/api/search/filters", map[string]any{"service": "plumber", "min_rating": 4.0}, ck)
	require.Equal(t, http.StatusAccepted, w.Code)

	w = a.do(http.MethodPost, "/api/search", nil, ck)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode(t, w)
	assert.Equal(t, true, st["has_searched"])
	assert.Len(t, st["results"], 1)

	a.up.mu.Lock()
	assert.Equal(t, []string{"min_rating=4.0&service=plumber"}, a.up.queries)
	a.up.mu.Unlock()

	w = a.do(http.MethodDelete, "/api/search", nil, ck)
	require.Equal(t, http.StatusOK, w.Code)
	st = decode(t, w)
	assert.Equal(t, false, st["has_searched"])
	assert.Empty(t, st["results"])
	assert.Equal(t, 1, a.up.count("GET /api/providers/search"))
}

func TestDashboard_ProviderWithoutProfile(t *testing.T) {
	a := newApp(t)
	a.up.noProf = true

	w := a.do(http.MethodGet, "/api/dashboard", nil, a.login(t, "provider"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["needs_profile"])
	assert.Equal(t, "provider", body["role"])
}

func TestLogout_DropsSession(t *testing.T) {
	a := newApp(t)
	ck := a.login(t, "customer")

	w := a.do(http.MethodPost, "/api/auth/logout", nil, ck)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, "/api/me", nil, ck)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
