package models

type Booking struct {
	BookingID           string           `json:"booking_id"`
	CustomerID          string           `json:"customer_id,omitempty"`
	ProviderID          string           `json:"provider_id,omitempty"`
	Customer            *User            `json:"customer,omitempty"`
	Provider            *ProviderProfile `json:"provider,omitempty"`
	ServiceType         string           `json:"service_type"`
	DateTime            Timestamp        `json:"date_time"`
	EstimatedPrice      float64          `json:"estimated_price"`
	SpecialInstructions string           `json:"special_instructions,omitempty"`
	Status              string           `json:"status"`
	CreatedAt           Timestamp        `json:"created_at"`
}

// CustomerUserID resolves the customer from either the flat id or the nested user.
func (b *Booking) CustomerUserID() string {
	if b.CustomerID != "" {
		return b.CustomerID
	}
	if b.Customer != nil {
		return b.Customer.UserID
	}
	return ""
}

// ProviderProfileID resolves the provider from either the flat id or the nested profile.
func (b *Booking) ProviderProfileID() string {
	if b.ProviderID != "" {
		return b.ProviderID
	}
	if b.Provider != nil {
		return b.Provider.ProviderID
	}
	return ""
}

// ProviderUserID is the user id behind the assigned provider profile, if known.
func (b *Booking) ProviderUserID() string {
	if b.Provider != nil && b.Provider.User != nil {
		return b.Provider.User.UserID
	}
	return ""
}

type CanCancelResult struct {
	CanCancel bool   `json:"can_cancel"`
	Reason    string `json:"reason,omitempty"`
}

type BookingStatusResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}
