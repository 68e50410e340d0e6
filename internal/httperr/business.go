package httperr

import "errors"

// BusinessError is a rule the booking lifecycle refused. Code is what the
// browser switches on; it is never a transport failure.
type BusinessError struct {
	Code string
}

var businessMessages = map[string]string{
	"invalid_state":        "This booking can no longer be changed that way.",
	"not_allowed_for_role": "Your account type cannot perform this action.",
	"not_a_participant":    "You are not part of this booking.",
	"booking_not_eligible": "Only completed bookings can be reviewed.",
	"provider_unavailable": "This provider is not taking bookings right now.",
}

const fallbackBusinessMessage = "This action is not available."

func (e BusinessError) Error() string {
	return "business rule: " + e.Code
}

// Message is the user-facing text for the code.
func (e BusinessError) Message() string {
	if msg, ok := businessMessages[e.Code]; ok {
		return msg
	}
	return fallbackBusinessMessage
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	c, ok := BusinessCode(err)
	return ok && c == code
}

// BusinessCode unwraps err to its rule code.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
