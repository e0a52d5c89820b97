package models

// Principal is the caller identity resolved once per request from the
// bearer token.
type Principal struct {
	UserID uint
	Role   Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
