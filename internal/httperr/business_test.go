package httperr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBusinessCode_Unwraps(t *testing.T) {
	err := fmt.Errorf("cancel b-1: %w", ErrBusiness("not_a_participant"))

	code, ok := BusinessCode(err)
	require.True(t, ok)
	assert.Equal(t, "not_a_participant", code)
	assert.True(t, IsBusiness(err, "not_a_participant"))
	assert.False(t, IsBusiness(err, "invalid_state"))

	_, ok = BusinessCode(ErrBusy)
	assert.False(t, ok)
}

func TestBusinessError_Message(t *testing.T) {
	assert.Equal(t, "Only completed bookings can be reviewed.", BusinessError{Code: "booking_not_eligible"}.Message())
	assert.Equal(t, "This action is not available.", BusinessError{Code: "something_new"}.Message())
}

func TestRespond_BusinessIsConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	Respond(c, zap.NewNop(), ErrBusiness("invalid_state"))

	require.Equal(t, http.StatusConflict, w.Code)
	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_state", body.Code)
	assert.Equal(t, "This booking can no longer be changed that way.", body.Message)
}
