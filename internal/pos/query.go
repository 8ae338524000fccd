package pos

import (
	"strconv"
	"strings"
)

// StatusAll matches every status in SearchOrders.
const StatusAll = "all"

// SearchOrders filters without mutating or re-sorting: text matches as a
// substring of the decimal order number or a case-insensitive substring of
// the customer name; empty text matches everything. statusFilter "" or "all"
// matches every status, anything else is exact equality.
func SearchOrders(orders []Order, text, statusFilter string) []Order {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if text != "" {
			byNumber := strings.Contains(strconv.FormatInt(o.Number, 10), text)
			byName := o.CustomerName != "" && strings.Contains(strings.ToLower(o.CustomerName), lower)
			if !byNumber && !byName {
				continue
			}
		}
		if statusFilter != "" && statusFilter != StatusAll && o.Status != Status(statusFilter) {
			continue
		}
		out = append(out, o)
	}
	return out
}
