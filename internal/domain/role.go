package domain

// Role type to distinguish who holds a session token.
type Role string

const (
	// RoleStaff is the only role that can register or remove records.
	RoleStaff Role = "staff"
)
