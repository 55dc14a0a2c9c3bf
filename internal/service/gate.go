package service

import "github.com/stemsi/attendance-portal/internal/model"

// Access is a principal an endpoint admits.
type Access int

const (
	// AccessAdmin admits any caller holding the admin role.
	AccessAdmin Access = iota + 1
	// AccessSelf admits the caller when they own the target resource.
	AccessSelf
)

// Authorize decides whether claims may act on a resource owned by targetOwnerID.
// It returns nil to allow and ErrAccessDenied otherwise.
func Authorize(claims *Claims, targetOwnerID string, allowed ...Access) error {
	if claims == nil {
		return ErrUnauthenticated
	}

	for _, a := range allowed {
		switch a {
		case AccessAdmin:
			if isAdminRole(claims.Role) {
				return nil
			}
		case AccessSelf:
			if claims.UserID != "" && claims.UserID == targetOwnerID {
				return nil
			}
		}
	}
	return ErrAccessDenied
}

// ForbidSelfDelete rejects a destructive action the caller aims at their own account.
func ForbidSelfDelete(claims *Claims, targetOwnerID string) error {
	if claims == nil {
		return ErrUnauthenticated
	}
	if claims.UserID == targetOwnerID {
		return ErrSelfActionForbidden
	}
	return nil
}

func isAdminRole(r model.Role) bool {
	switch r {
	case model.RoleAdmin:
		return true
	case model.RoleUser:
		return false
	default:
		return false
	}
}
