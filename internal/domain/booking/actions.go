package booking

import "sort"

type Action string

const (
	ActionReschedule Action = "reschedule"
	ActionCancel     Action = "cancel"
	ActionAccept     Action = "accept"
	ActionDecline    Action = "decline"
	ActionComplete   Action = "complete"
	ActionReview     Action = "review"
)

// ActionSet is the set of actions a viewer may trigger on a booking.
type ActionSet map[Action]struct{}

func NewActionSet(actions ...Action) ActionSet {
	s := make(ActionSet, len(actions))
	for _, a := range actions {
		s[a] = struct{}{}
	}
	return s
}

func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

// List returns the actions in a stable order for rendering.
func (s ActionSet) List() []Action {
	out := make([]Action, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Decision is the value a provider sends when responding to a pending booking.
type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionDeclined Decision = "declined"
)

func ParseDecision(s string) (Decision, bool) {
	switch Decision(s) {
	case DecisionAccepted, DecisionDeclined:
		return Decision(s), true
	}
	return "", false
}

// Action maps a decision onto the transition it requests.
func (d Decision) Action() Action {
	if d == DecisionAccepted {
		return ActionAccept
	}
	return ActionDecline
}
