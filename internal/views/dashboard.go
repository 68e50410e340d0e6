package views

import (
	"context"
	"sort"
	"time"

	domain "github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/models"
)

const recentLimit = 5

// Source is what dashboards read from the HomeHero API.
type Source interface {
	MyBookings(ctx context.Context) ([]models.Booking, error)
	PendingBookings(ctx context.Context) ([]models.Booking, error)
	MyProviderProfile(ctx context.Context) (*models.ProviderProfile, error)
	AdminUsers(ctx context.Context, skip, limit int) ([]models.User, error)
	AdminProviders(ctx context.Context, skip, limit int) ([]models.ProviderProfile, error)
	AdminBookings(ctx context.Context) ([]models.Booking, error)
}

// Dashboard builds the landing page for one role.
type Dashboard interface {
	Role() domain.Role
	Build(ctx context.Context, src Source, v domain.Viewer, busy BusyFunc, now time.Time) (any, error)
}

var dashboards = map[domain.Role]Dashboard{
	domain.RoleCustomer: customerDashboard{},
	domain.RoleProvider: providerDashboard{},
	domain.RoleAdmin:    adminDashboard{},
}

func DashboardFor(role domain.Role) (Dashboard, bool) {
	d, ok := dashboards[role]
	return d, ok
}

type StatusCounts map[string]int

func countByStatus(bs []models.Booking) StatusCounts {
	counts := StatusCounts{}
	for _, s := range domain.Statuses() {
		counts[string(s)] = 0
	}
	for _, b := range bs {
		counts[b.Status]++
	}
	return counts
}

func recent(bs []models.Booking, n int) []models.Booking {
	sorted := make([]models.Booking, len(bs))
	copy(sorted, bs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt.Time)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ---------------- customer ----------------

type CustomerDashboard struct {
	Role           domain.Role       `json:"role"`
	TotalBookings  int               `json:"total_bookings"`
	ActiveBookings int               `json:"active_bookings"`
	Completed      int               `json:"completed"`
	ByStatus       StatusCounts      `json:"by_status"`
	Recent         []BookingView     `json:"recent"`
	Categories     []string          `json:"categories"`
	Locations      []models.Location `json:"locations"`
}

type customerDashboard struct{}

func (customerDashboard) Role() domain.Role { return domain.RoleCustomer }

func (customerDashboard) Build(ctx context.Context, src Source, v domain.Viewer, busy BusyFunc, _ time.Time) (any, error) {
	bs, err := src.MyBookings(ctx)
	if err != nil {
		return nil, err
	}

	counts := countByStatus(bs)
	return &CustomerDashboard{
		Role:           domain.RoleCustomer,
		TotalBookings:  len(bs),
		ActiveBookings: counts[string(domain.StatusPending)] + counts[string(domain.StatusAccepted)],
		Completed:      counts[string(domain.StatusCompleted)],
		ByStatus:       counts,
		Recent:         BookingViews(recent(bs, recentLimit), v, busy),
		Categories:     models.ServiceCategories,
		Locations:      models.Locations,
	}, nil
}

// ---------------- provider ----------------

type ProviderDashboard struct {
	Role            domain.Role             `json:"role"`
	Profile         *models.ProviderProfile `json:"profile"`
	NeedsProfile    bool                    `json:"needs_profile"`
	TotalBookings   int                     `json:"total_bookings"`
	Completed       int                     `json:"completed"`
	MonthlyEarnings float64                 `json:"monthly_earnings"`
	Rating          float64                 `json:"rating"`
	Pending         []BookingView           `json:"pending"`
}

type providerDashboard struct{}

func (providerDashboard) Role() domain.Role { return domain.RoleProvider }

func (providerDashboard) Build(ctx context.Context, src Source, v domain.Viewer, busy BusyFunc, now time.Time) (any, error) {
	out := &ProviderDashboard{Role: domain.RoleProvider}

	profile, err := src.MyProviderProfile(ctx)
	switch {
	case err == nil:
		out.Profile = profile
		out.Rating = profile.Rating
		if v.ProviderID == "" {
			v.ProviderID = profile.ProviderID
		}
	case httperr.IsKind(err, httperr.KindNotFound):
		out.NeedsProfile = true
	default:
		return nil, err
	}

	if out.NeedsProfile {
		out.Pending = []BookingView{}
		return out, nil
	}

	all, err := src.MyBookings(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := src.PendingBookings(ctx)
	if err != nil {
		return nil, err
	}

	out.TotalBookings = len(all)
	for _, b := range all {
		if b.Status != string(domain.StatusCompleted) {
			continue
		}
		out.Completed++
		if sameMonth(b.DateTime.Time, now) {
			out.MonthlyEarnings += b.EstimatedPrice
		}
	}
	out.Pending = BookingViews(pending, v, busy)
	return out, nil
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// ---------------- admin ----------------

type AdminDashboard struct {
	Role             domain.Role   `json:"role"`
	TotalUsers       int           `json:"total_users"`
	TotalProviders   int           `json:"total_providers"`
	PendingApprovals int           `json:"pending_approvals"`
	TotalBookings    int           `json:"total_bookings"`
	ByStatus         StatusCounts  `json:"by_status"`
	Recent           []BookingView `json:"recent"`
}

type adminDashboard struct{}

func (adminDashboard) Role() domain.Role { return domain.RoleAdmin }

func (adminDashboard) Build(ctx context.Context, src Source, v domain.Viewer, busy BusyFunc, _ time.Time) (any, error) {
	users, err := src.AdminUsers(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	providers, err := src.AdminProviders(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	bs, err := src.AdminBookings(ctx)
	if err != nil {
		return nil, err
	}

	pending := 0
	for _, p := range providers {
		if !p.IsApproved {
			pending++
		}
	}

	return &AdminDashboard{
		Role:             domain.RoleAdmin,
		TotalUsers:       len(users),
		TotalProviders:   len(providers),
		PendingApprovals: pending,
		TotalBookings:    len(bs),
		ByStatus:         countByStatus(bs),
		Recent:           BookingViews(recent(bs, recentLimit), v, busy),
	}, nil
}
