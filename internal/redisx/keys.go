package redisx

import "time"

const (
	// Cached order status for terminal polls: pos:order_status:{order_id}
	KeyOrderStatus = "pos:order_status:%s"

	// Event dedup in sinks: pos:dedup:{service}:{event_id}
	KeyDedup = "pos:dedup:%s:%s"
)

var (
	// Short TTL: terminals refetch every few seconds, so a stale entry only
	// survives until the next successful refresh.
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
