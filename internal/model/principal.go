package model

// Role classifies an authenticated account. The value is stored on the
// account row and copied into the session principal at login; changing a
// role requires a new login.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// Principal is the authenticated identity attached to a session. It is
// immutable for the lifetime of the session.
type Principal struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// HomePath returns the landing page for a role. Unknown roles fall back to
// the public home page.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin/films"
	case RoleStaff:
		return "/staff/offers"
	case RoleCustomer:
		return "/customer/dashboard"
	default:
		return "/"
	}
}
