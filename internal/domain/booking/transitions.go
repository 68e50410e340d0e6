package booking

// Transition is one allowed edge: Actor may apply Action while the booking is in From.
type Transition struct {
	From   Status
	Actor  Role
	Action Action
	To     Status
}

// The backend enforces the same table; this copy only decides which
// affordances are shown. Review is listed so the table is the single
// source for every booking affordance, although it does not move the status.
var transitionsTable = []Transition{
	{From: StatusPending, Actor: RoleProvider, Action: ActionAccept, To: StatusAccepted},
	{From: StatusPending, Actor: RoleProvider, Action: ActionDecline, To: StatusDeclined},
	{From: StatusPending, Actor: RoleCustomer, Action: ActionCancel, To: StatusCancelled},
	{From: StatusPending, Actor: RoleCustomer, Action: ActionReschedule, To: StatusPending},

	{From: StatusAccepted, Actor: RoleCustomer, Action: ActionCancel, To: StatusCancelled},
	{From: StatusAccepted, Actor: RoleCustomer, Action: ActionReschedule, To: StatusAccepted},
	{From: StatusAccepted, Actor: RoleProvider, Action: ActionComplete, To: StatusCompleted},

	{From: StatusCompleted, Actor: RoleCustomer, Action: ActionReview, To: StatusCompleted},
}

// AllowedActions returns every action role may take on a booking in status.
func AllowedActions(status Status, role Role) ActionSet {
	set := NewActionSet()
	for _, tr := range transitionsTable {
		if tr.From == status && tr.Actor == role {
			set[tr.Action] = struct{}{}
		}
	}
	return set
}

// TransitionFor looks up the edge for status+action regardless of actor.
func TransitionFor(from Status, action Action) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Action == action {
			return tr, true
		}
	}
	return Transition{}, false
}

// Next is the state the backend is expected to report after action succeeds.
func Next(from Status, action Action) (Status, bool) {
	tr, ok := TransitionFor(from, action)
	if !ok {
		return "", false
	}
	return tr.To, true
}
