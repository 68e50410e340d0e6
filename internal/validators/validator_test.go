package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synap5e/homehero-web/internal/httperr"
)

type signup struct {
	Name     string   `json:"name" validate:"required,min=3"`
	Email    string   `json:"email" validate:"required,hh_email"`
	Phone    string   `json:"phone" validate:"required,hh_phone"`
	Password string   `json:"password" validate:"required,min=8"`
	Location string   `json:"location" validate:"required,hh_location"`
	Services []string `json:"services" validate:"omitempty,dive,hh_category"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(signup{
		Name:     "Asha Naik",
		Email:    "asha@example.in",
		Phone:    "9876543210",
		Password: "longenough",
		Location: "Panaji",
		Services: []string{"plumber"},
	})
	assert.NoError(t, err)
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(signup{
		Name:     "Al",
		Email:    "not-an-email",
		Phone:    "12345",
		Password: "short",
		Location: "Goa City",
		Services: []string{"astronaut"},
	})
	require.Error(t, err)

	for _, field := range []string{"name", "email", "phone", "password", "location"} {
		assert.True(t, httperr.HasField(err, field), field)
	}

	var ve *httperr.ValidationError
	require.ErrorAs(t, err, &ve)
	for _, f := range ve.Fields {
		if f.Field == "phone" {
			assert.Equal(t, "Invalid phone number (10 digits)", f.Message)
		}
		if f.Field == "password" {
			assert.Equal(t, "Password must be at least 8 characters", f.Message)
		}
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("a.b+c@mail.co.in"))
	assert.False(t, IsEmail("a@b"))
	assert.True(t, LooksLikeEmail("a@b.in"))
	assert.False(t, LooksLikeEmail("9876543210"))
}
