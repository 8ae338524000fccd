package pos

const (
	TopicOrderCreated       = "pos.order.created"
	TopicOrderStatusChanged = "pos.order.status"
)

// Partition key = order id, so events for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
