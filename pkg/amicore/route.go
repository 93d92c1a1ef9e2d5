package amicore

import "fmt"

// Route says where Ingest sent a record.
type Route uint8

const (
	// RouteFanout means the record went to category subscribers.
	RouteFanout Route = iota

	// RouteCorrelated means an open correlation consumed the record.
	RouteCorrelated

	// RouteRejected means an unknown event was refused by policy.
	RouteRejected
)

func (r Route) String() string {
	switch r {
	case RouteFanout:
		return "fanout"
	case RouteCorrelated:
		return "correlated"
	case RouteRejected:
		return "rejected"
	default:
		return fmt.Sprintf("route(%d)", uint8(r))
	}
}
