package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/synap5e/homehero-web/internal/httperr"
)

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{"missing rating", Draft{BookingID: "b-1"}, "rating"},
		{"rating too high", Draft{BookingID: "b-1", Rating: 6}, "rating"},
		{"missing booking", Draft{Rating: 4}, "booking_id"},
		{"long comment", Draft{BookingID: "b-1", Rating: 4, Comment: strings.Repeat("a", 1001)}, "comment"},
		{"too many images", Draft{BookingID: "b-1", Rating: 4, Images: 6}, "files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, httperr.HasField(tt.draft.Validate(), tt.field))
		})
	}

	assert.NoError(t, Draft{BookingID: "b-1", Rating: 5, Comment: "great", Images: 2}.Validate())
}
