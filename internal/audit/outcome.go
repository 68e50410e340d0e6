package audit

import (
	"errors"

	"github.com/synap5e/homehero-web/internal/httperr"
)

// OutcomeOf classifies the result of an attempted action. Attempts refused
// before reaching the API are "rejected"; everything else that failed is
// "failed".
func OutcomeOf(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if _, ok := httperr.BusinessCode(err); ok {
		return OutcomeRejected
	}
	if httperr.IsValidation(err) || errors.Is(err, httperr.ErrBusy) {
		return OutcomeRejected
	}
	return OutcomeFailed
}
