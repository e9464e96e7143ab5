package domain

// Role enumerates the staff roles carried by bearer tokens.
type Role string

const (
	RoleAnalyst Role = "ANALYST"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAnalyst, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Principal is the caller identity extracted from a verified token.
type Principal struct {
	SubjectID string
	Role      Role
	UnitID    *string
}
