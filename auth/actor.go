package auth

// Actor is the chat-platform identity performing a command, as asserted by
// the gateway's token. Role ids are the actor's chat roles.
type Actor struct {
	UserID  string
	RoleIDs []string
}

func (a Actor) HasRole(roleID string) bool {
	for _, id := range a.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// IsOrgaOrAdmin reports whether the actor is one of the designated
// organizers or holds the admin role. Every administrative command gates
// on this check before touching state.
func IsOrgaOrAdmin(a Actor, orgaUserIDs []string, adminRoleID string) bool {
	for _, id := range orgaUserIDs {
		if id == a.UserID {
			return true
		}
	}
	return adminRoleID != "" && a.HasRole(adminRoleID)
}
