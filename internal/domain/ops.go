package domain

import "time"

// RoleOps grants access to the operational cache endpoints.
const RoleOps = "ops"

// Principal is the caller identified by a verified token.
type Principal struct {
	Subject string
	Roles   []string
}

// HasRole reports whether p carries role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenIssuer mints signed bearer tokens for operators.
type TokenIssuer interface {
	Issue(subject string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier validates a bearer token and returns its principal.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}
