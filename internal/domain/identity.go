package domain

import "fmt"

type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleSeller   Role = "seller"
	RoleOperator Role = "operator"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBuyer, RoleSeller, RoleOperator:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: role %q", ErrInvalidInput, s)
	}
}

// Identity is the authenticated caller, resolved once at request entry.
type Identity struct {
	ID    string
	Email string
	Role  Role
}

// CanShop reports whether the identity may own a cart and check out.
func (i Identity) CanShop() bool {
	return i.Role == RoleBuyer
}
