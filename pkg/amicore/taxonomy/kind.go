package taxonomy

import "fmt"

// Role is the part a kind plays in list correlation.
type Role uint8

const (
	// RoleStandalone is a single notification. It closes a correlation only
	// when the initiator lists it as an expected terminator.
	RoleStandalone Role = iota

	// RoleListEntry is one record of a correlated burst.
	RoleListEntry

	// RoleListTerminator closes a correlated burst.
	RoleListTerminator

	// RoleUnsolicited is never correlated and always fanned out.
	RoleUnsolicited
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleStandalone:
		return "standalone"
	case RoleListEntry:
		return "list_entry"
	case RoleListTerminator:
		return "list_terminator"
	case RoleUnsolicited:
		return "unsolicited"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Correlatable reports whether records of this role may be consumed by a
// pending correlation.
func (r Role) Correlatable() bool {
	return r != RoleUnsolicited
}

// Kind is a named event bound to one category and one role.
type Kind struct {
	Name     string
	Category Category
	Role     Role
}

// Unknown returns the kind used for names missing from the taxonomy.
// It is unsolicited and lives in CategoryUnknown.
func Unknown(name string) Kind {
	return Kind{Name: name, Category: CategoryUnknown, Role: RoleUnsolicited}
}

// Known reports whether the kind came from the taxonomy.
func (k Kind) Known() bool {
	return k.Category.Concrete()
}

// String returns "Name(category/role)".
func (k Kind) String() string {
	return fmt.Sprintf("%s(%s/%s)", k.Name, k.Category, k.Role)
}

// RoleOf returns the role of a kind.
func RoleOf(k Kind) Role {
	return k.Role
}

// CategoryOf returns the category of a kind.
func CategoryOf(k Kind) Category {
	return k.Category
}

func entry(name string, c Category) Kind      { return Kind{Name: name, Category: c, Role: RoleListEntry} }
func terminator(name string, c Category) Kind { return Kind{Name: name, Category: c, Role: RoleListTerminator} }
func standalone(name string, c Category) Kind { return Kind{Name: name, Category: c, Role: RoleStandalone} }
func unsolicited(name string, c Category) Kind {
	return Kind{Name: name, Category: c, Role: RoleUnsolicited}
}
