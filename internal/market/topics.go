package market

const (
	TopicOrderPlaced   = "order.placed"
	TopicStatusChanged = "order.status.changed"
)

// Partition key = order_id so all events of one order stay ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
