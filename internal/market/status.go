package market

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the five recognized statuses. Any valid
// status may be set by the shop owner at any time; there is no adjacency rule.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Notifies reports whether entering s triggers a buyer notification.
// pending is the initial state, never a seller-triggered transition.
func (s Status) Notifies() bool {
	return s.Valid() && s != StatusPending
}

// NotifType is the notification type tag for a transition into s,
// e.g. "order_shipped".
func (s Status) NotifType() string {
	return "order_" + string(s)
}
