package models

// Role classifies a logged-in user and controls which navigation
// destinations render.
type Role string

const (
	// RoleAdmin can manage users, sites, and all requests.
	RoleAdmin Role = "Admin"
	// RoleTechnician can submit requests and review their own history.
	RoleTechnician Role = "Technician"
	// RoleOutsider can only submit access requests.
	RoleOutsider Role = "Outsider"
)

// ParseRole normalizes a wire role value. The backend historically
// stored outsiders under the label "User"; both spellings map to
// RoleOutsider. Anything unrecognized yields the empty role, which the
// navigation gate treats as anonymous.
func ParseRole(s string) Role {
	switch s {
	case "Admin":
		return RoleAdmin
	case "Technician":
		return RoleTechnician
	case "Outsider", "User":
		return RoleOutsider
	}
	return ""
}

// Roles lists the selectable roles in user-form order.
func Roles() []Role {
	return []Role{RoleOutsider, RoleAdmin, RoleTechnician}
}

// User is an account in the key management system.
type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}
