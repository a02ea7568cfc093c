package application

// AuthorizeOwner is the single-owner authorization rule: a principal may only
// touch a resource whose owner id matches its own. No roles, no delegation.
func AuthorizeOwner(p *Principal, resourceOwnerID string) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if p.ID != resourceOwnerID {
		return ErrForbidden
	}
	return nil
}
