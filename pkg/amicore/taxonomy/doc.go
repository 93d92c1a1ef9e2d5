// Package taxonomy holds the closed table of manager-protocol event names.
//
// # Overview
//
// Every event name the core understands is bound to exactly one Category
// and one Role. The table is fixed at build time and the Registry built
// from it is immutable, so lookups need no locking:
//
//	reg := taxonomy.Default()
//	kind, err := reg.Classify("AgentsComplete")
//	// kind.Category == taxonomy.CategoryQueue
//	// kind.Role == taxonomy.RoleListTerminator
//
// # Roles
//
// Roles drive list correlation without inspecting event payloads:
//
//   - RoleStandalone: a single notification. It may answer a request on its
//     own when the request initiator names it as an expected terminator.
//   - RoleListEntry: one item of a correlated burst.
//   - RoleListTerminator: closes a correlated burst.
//   - RoleUnsolicited: a state change notification, never correlated.
//
// # Unknown names
//
// Classify fails with ErrUnknownEvent for names not in the table. A new name
// indicates a protocol version mismatch, so callers choose whether to
// tolerate it (see Unknown) or reject it. CategoryFromPrivilege maps the
// Privilege header of such an event to a category hint for that decision.
package taxonomy
