package pos

type Status string

const (
	StatusPreparing Status = "preparing"
	StatusServed    Status = "served"
	StatusBilled    Status = "billed"
	StatusCancelled Status = "cancelled"
)

// AllStatuses in display order.
var AllStatuses = []Status{StatusPreparing, StatusServed, StatusBilled, StatusCancelled}

var validNext = map[Status]map[Status]bool{
	StatusPreparing: {StatusServed: true, StatusBilled: true, StatusCancelled: true},
	StatusServed:    {StatusBilled: true, StatusCancelled: true},
	StatusBilled:    {},
	StatusCancelled: {},
}

func ValidStatus(s Status) bool {
	_, ok := validNext[s]
	return ok
}

// IsTerminal reports whether no further transition may leave s.
func IsTerminal(s Status) bool { return len(validNext[s]) == 0 }

// TransitionPolicy tunes the edges of the status graph per deployment.
// Billing straight from the kitchen (preparing -> billed, skipping the serve
// confirmation) is a cashier-workflow choice, so it is a flag rather than a
// hard-coded edge.
type TransitionPolicy struct {
	AllowDirectBilling bool
}

var DefaultPolicy = TransitionPolicy{AllowDirectBilling: true}

func (p TransitionPolicy) CanTransition(from, to Status) bool {
	if !validNext[from][to] {
		return false
	}
	if from == StatusPreparing && to == StatusBilled && !p.AllowDirectBilling {
		return false
	}
	return true
}

// OriginsFor lists every status from which `to` is reachable in one step.
// The store uses this set as the compare half of its compare-and-set update.
func (p TransitionPolicy) OriginsFor(to Status) []Status {
	var out []Status
	for _, from := range AllStatuses {
		if p.CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}
