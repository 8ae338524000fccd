package pos

import "time"

// The kitchen display flags a ticket once it has been preparing longer than
// this. Tuned per deployment via config.
const DefaultUrgentAfter = 15 * time.Minute

// Ticket is one kitchen-display card: the preparing order plus how long it
// has been waiting.
type Ticket struct {
	Order          Order `json:"order"`
	ElapsedMinutes int   `json:"elapsed_minutes"`
	Urgent         bool  `json:"urgent"`
}

// KitchenQueue projects the preparing orders into tickets, preserving source
// order. It holds no state and mutates nothing; marking a ticket served goes
// through the lifecycle manager like any other transition.
func KitchenQueue(orders []Order, now time.Time, urgentAfter time.Duration) []Ticket {
	if urgentAfter <= 0 {
		urgentAfter = DefaultUrgentAfter
	}
	var out []Ticket
	for _, o := range orders {
		if o.Status != StatusPreparing {
			continue
		}
		mins := int(now.Sub(o.CreatedAt) / time.Minute)
		out = append(out, Ticket{
			Order:          o,
			ElapsedMinutes: mins,
			Urgent:         mins > int(urgentAfter/time.Minute),
		})
	}
	return out
}
