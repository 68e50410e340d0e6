package models

type ProviderProfile struct {
	ProviderID      string   `json:"provider_id"`
	User            *User    `json:"user,omitempty"`
	Services        []string `json:"services"`
	Pricing         float64  `json:"pricing"`
	ExperienceYears int      `json:"experience_years"`
	ServiceRadius   float64  `json:"service_radius"`
	Availability    bool     `json:"availability"`
	Rating          float64  `json:"rating"`
	IsApproved      bool     `json:"is_approved"`
	TotalBookings   int      `json:"total_bookings"`
}

// DisplayName falls back to the provider id when the nested user is absent.
func (p *ProviderProfile) DisplayName() string {
	if p.User != nil && p.User.Name != "" {
		return p.User.Name
	}
	return p.ProviderID
}

// Offers reports whether the provider lists the service category.
func (p *ProviderProfile) Offers(category string) bool {
	for _, s := range p.Services {
		if s == category {
			return true
		}
	}
	return false
}
