package identity

// Role is a user's authorization level
type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r.rank() > 0
}

// AtLeast reports whether r grants at least the privileges of other
func (r Role) AtLeast(other Role) bool {
	return r.rank() > 0 && r.rank() >= other.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleStaff:
		return 1
	case RoleManager:
		return 2
	case RoleAdmin:
		return 3
	}
	return 0
}
