package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginPath is where the browser is sent once its session is invalidated.
const LoginPath = "/login"

// ErrBusy is returned while another mutating call for the same entity is in flight.
var ErrBusy = errors.New("action_in_progress")

type HTTPError struct {
	Code     string       `json:"error_code"`
	Message  string       `json:"message"`
	Fields   []FieldError `json:"fields,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// Respond writes err using the error class it belongs to. Every handler
// funnels failures through here so the browser sees one error shape.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, HTTPError{
			Code:    "validation_failed",
			Message: "Please correct the highlighted fields.",
			Fields:  ve.Fields,
		})
		return
	}

	if errors.Is(err, ErrBusy) {
		Write(c, http.StatusConflict, "action_in_progress", "Please wait for the current action to finish.")
		return
	}

	var be BusinessError
	if errors.As(err, &be) {
		Write(c, http.StatusConflict, be.Code, be.Message())
		return
	}

	if ae, ok := AsAPIError(err); ok {
		respondAPI(c, log, ae)
		return
	}

	log.Error("unhandled error", zap.Error(err), zap.String("path", c.FullPath()))
	Internal(c, "internal_error", "Something went wrong. Please try again.")
}

func respondAPI(c *gin.Context, log *zap.Logger, ae *APIError) {
	switch ae.Kind {
	case KindUnauthorized:
		body := HTTPError{Code: "session_expired", Message: ae.Message}
		if ae.Redirect {
			body.Redirect = LoginPath
		}
		c.JSON(http.StatusUnauthorized, body)
	case KindForbidden:
		log.Warn("access forbidden", zap.String("path", c.Request.URL.Path))
		Write(c, http.StatusForbidden, "forbidden", DefaultMessage(KindForbidden))
	case KindNotFound:
		Write(c, http.StatusNotFound, "not_found", ae.Message)
	case KindConflict:
		Write(c, http.StatusConflict, "conflict", ae.Message)
	case KindRejected:
		Write(c, http.StatusBadRequest, "rejected", ae.Message)
	case KindTimeout:
		log.Warn("upstream timeout", zap.Error(ae))
		Write(c, http.StatusGatewayTimeout, "timeout", ae.Message)
	case KindNetwork:
		log.Warn("upstream unreachable", zap.Error(ae))
		Write(c, http.StatusBadGateway, "network_error", ae.Message)
	default:
		log.Error("upstream server error", zap.Error(ae))
		Write(c, http.StatusBadGateway, "server_error", ae.Message)
	}
}
