// Package event defines the parsed record that flows through the core.
//
// # Records
//
// A Record is one event delivered by the transport: a classified kind, the
// header fields in wire order, and an optional correlation token. Records
// are immutable once built; accessors return copies.
//
//	rec, err := event.FromName(taxonomy.Default(), "AorDetail", event.Fields{
//	    {Name: "ActionID", Value: "7"},
//	    {Name: "ObjectName", Value: "alice"},
//	})
//	// rec.Token() == "7", taken from the ActionID field
//
// Field lookups ignore case, matching how the protocol peer treats header
// names. Duplicate header names are kept in order.
//
// # Filters
//
// Filters select records by field content. Comparisons fail closed: a
// missing field or a value that does not convert makes the filter false.
//
//	f := event.And(
//	    event.Named("QueueMemberStatus"),
//	    event.Header("Paused").Int().Eq(1),
//	    event.Header("Queue").Lower().Eq("support"),
//	)
//
// # Handlers
//
// Subscribers implement Handler. HandlerFunc adapts plain functions and
// ChainMiddleware composes cross-cutting wrappers such as LoggingMiddleware.
package event
