package model

// Identity is the signed-in user as issued by the backend at login.
type Identity struct {
	UserID     string `json:"_id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profile_pic"`
	Token      string `json:"token"`
	Role       string `json:"role"`
}

// Roles.
const (
	RoleAdmin    = "admin"
	RoleInvestor = "investor"
)

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	levels := map[string]int{
		RoleAdmin:    2,
		RoleInvestor: 1,
	}
	return levels[role] >= levels[minimum] && levels[minimum] > 0
}
