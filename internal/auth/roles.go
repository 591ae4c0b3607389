package auth

import "github.com/spec-kit/freight-console/internal/domain"

// Built-in console roles. The back office may return any casing.
const (
	RoleAdmin      = "admin"
	RoleAccounting = "accounting"
	RoleOperations = "operations"
	RoleSales      = "sales"
	RoleAgency     = "agency"
)

// HasRole reports whether role is a member of allowed, ignoring case.
func HasRole(role string, allowed []string) bool {
	role = domain.NormalizeRole(role)
	if role == "" {
		return false
	}
	for _, candidate := range allowed {
		if domain.NormalizeRole(candidate) == role {
			return true
		}
	}
	return false
}

// NormalizeRoles lower-cases, trims and dedupes a role list, preserving order.
func NormalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(roles))
	var normalized []string
	for _, role := range roles {
		role = domain.NormalizeRole(role)
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		normalized = append(normalized, role)
	}
	return normalized
}
