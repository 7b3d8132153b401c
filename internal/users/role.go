package users

import "fmt"

// Role is the closed set of account roles
type Role string

const (
	RoleUser  Role = "user"
	RoleGuide Role = "guide"
	RoleAdmin Role = "admin"
)

// ParseRole accepts only the known roles
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleGuide, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}

// CanSelfRegister reports whether the role may be chosen at sign-up
func (r Role) CanSelfRegister() bool {
	switch r {
	case RoleUser, RoleGuide:
		return true
	case RoleAdmin:
		return false
	default:
		return false
	}
}
