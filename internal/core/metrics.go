package core

// Metrics receives counters from the hub. Implementations must be safe
// for use from the hub goroutine and HTTP handlers at the same time.
type Metrics interface {
	ConnectionOpened()
	ConnectionClosed()
	RoomsActive(n int)
	EventRelayed(kind string)
	DeliveryDropped(reason string)
}

// Drop reasons reported through Metrics.DeliveryDropped.
const (
	DropUnknownTarget = "unknown_target"
	DropSelfTarget    = "self_target"
	DropSlowConsumer  = "slow_consumer"
	DropStaleClient   = "stale_client"
)

type nopMetrics struct{}

func (nopMetrics) ConnectionOpened()      {}
func (nopMetrics) ConnectionClosed()      {}
func (nopMetrics) RoomsActive(int)        {}
func (nopMetrics) EventRelayed(string)    {}
func (nopMetrics) DeliveryDropped(string) {}
