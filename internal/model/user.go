package model

// Roles known to the courier API.
const (
	RoleCustomer   = "customer"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// User represents a user account as the courier API reports it.
type User struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// AuthResult is the payload returned by a successful login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
