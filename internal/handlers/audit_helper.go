package handlers

import (
	"github.com/synap5e/homehero-web/internal/audit"
	"github.com/synap5e/homehero-web/internal/session"
)

// writeAudit records an action taken directly by a handler. Use cases
// record their own.
func writeAudit(
	r audit.Recorder,
	s *session.Session,
	action string,
	entity string,
	entityID string,
	err error,
) {
	r.Dispatch(audit.Event{
		UserID:   s.User.UserID,
		Role:     s.User.UserType,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Outcome:  audit.OutcomeOf(err),
	})
}
