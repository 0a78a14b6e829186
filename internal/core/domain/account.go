package domain

import (
	"errors"
	"fmt"
	"time"
)

// Role is the closed set of authorities an account can hold.
type Role uint8

const (
	RoleAdministrator Role = iota + 1
	RoleMerchant
	RoleSupport
)

var (
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUnknownRole        = errors.New("unknown role")
	ErrInvalidRoleTarget  = errors.New("role cannot be assigned")
	ErrRoleUnchanged      = errors.New("role already assigned")
	ErrInvalidLockTarget  = errors.New("administrator cannot be locked")
	ErrAccountConflict    = errors.New("account was modified concurrently")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")
	ErrForbidden          = errors.New("access forbidden")
)

// Roles lists every defined role in declaration order.
var Roles = []Role{RoleAdministrator, RoleMerchant, RoleSupport}

func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "ADMINISTRATOR"
	case RoleMerchant:
		return "MERCHANT"
	case RoleSupport:
		return "SUPPORT"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleMerchant, RoleSupport:
		return true
	default:
		return false
	}
}

// Assignable reports whether an existing account may be moved to r through a
// role change. ADMINISTRATOR is only ever granted by the bootstrap policy.
func (r Role) Assignable() bool {
	switch r {
	case RoleMerchant, RoleSupport:
		return true
	default:
		return false
	}
}

// Lockable reports whether an account holding r may be locked.
func (r Role) Lockable() bool {
	return r != RoleAdministrator
}

// ParseRole resolves an exact, case-sensitive role name.
func ParseRole(name string) (Role, error) {
	for _, r := range Roles {
		if r.String() == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, name)
}

// MarshalText renders the role by name so JSON and BSON carry "MERCHANT"
// rather than a number.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Account is a registered principal.
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Locked       bool      `json:"locked"`
	Version      int64     `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BootstrapAssignment decides role and lock state for a new account. Only an
// account created into an empty store is elevated and left unlocked.
func BootstrapAssignment(storeEmpty bool) (Role, bool) {
	if storeEmpty {
		return RoleAdministrator, false
	}
	return RoleMerchant, true
}

// CanChangeRoleTo validates a role change for the account.
func (a *Account) CanChangeRoleTo(next Role) error {
	if !next.Valid() {
		return ErrUnknownRole
	}
	if !next.Assignable() {
		return ErrInvalidRoleTarget
	}
	if a.Role == next {
		return ErrRoleUnchanged
	}
	return nil
}

// CanSetLock validates a lock change for the account. Unlocking is always
// permitted.
func (a *Account) CanSetLock(lock bool) error {
	if lock && !a.Role.Lockable() {
		return ErrInvalidLockTarget
	}
	return nil
}

// HasAnyRole reports whether the account holds one of roles.
func (a *Account) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
