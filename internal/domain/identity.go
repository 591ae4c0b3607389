package domain

import "strings"

// Identity is the authenticated operator as held by the console for one session.
type Identity struct {
	AccountID int64  `json:"accountId" validate:"required"`
	Role      string `json:"role" validate:"required"`
	RoleID    int64  `json:"roleId"`
	RoleName  string `json:"roleName"`
	UserName  string `json:"userName"`
}

// NormalizedRole returns the role in its canonical lower-case form.
func (i Identity) NormalizedRole() string {
	return NormalizeRole(i.Role)
}

// NormalizeRole canonicalises a role name for comparison.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// Credentials are the login form values forwarded to the back office.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"rememberMe"`
}

// LoginResult is what a successful back-office login yields.
type LoginResult struct {
	Token    string
	Identity Identity
}
