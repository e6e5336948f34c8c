package auth

// Principal is the ephemeral authenticated-identity view attached to a
// request by the authentication filter. It is a projection of the stored
// user (never the entity itself): no password hash, never mutated, never
// persisted, discarded at request end.
type Principal struct {
	ID       uint64   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the principal carries the named role.
func (p *Principal) HasRole(name string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}
