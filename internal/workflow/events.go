package workflow

// Entity names used in change events.
const (
	EntityDelivery = "delivery_request"
	EntityGatePass = "gate_pass"
)

// Event describes one entity state transition. Events are fire-and-forget;
// delivery to interested clients is not guaranteed.
type Event struct {
	Entity    string `json:"entity"`
	ID        uint   `json:"id"`
	NewStatus string `json:"new_status"`
}

// Notifier fans change events out to an external realtime layer.
type Notifier interface {
	Publish(Event)
}

// NopNotifier discards events. Used in tests and before the hub is wired.
type NopNotifier struct{}

func (NopNotifier) Publish(Event) {}
