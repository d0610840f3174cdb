package service

import "github.com/carjai/marketplace-client/internal/core/domain"

// ResolveIdentity picks the identity the UI acts as. Both sides can look
// authenticated while a mutual logout is still in flight; the admin wins.
func ResolveIdentity(user UserState, admin AdminState) domain.Identity {
	switch {
	case admin.Authenticated && admin.Admin != nil:
		return domain.Identity{Kind: domain.IdentityAdmin, Admin: admin.Admin, Session: admin.Session}
	case user.Authenticated && user.User != nil:
		return domain.Identity{Kind: domain.IdentityUser, User: user.User, Roles: user.Roles, Profiles: user.Profiles}
	default:
		return domain.Identity{Kind: domain.IdentityAnonymous}
	}
}
