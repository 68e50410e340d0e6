package models

type User struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	UserType  string    `json:"user_type"`
	Location  string    `json:"location"`
	Pincode   string    `json:"pincode"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}
