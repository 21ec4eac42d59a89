package scopes

// Scope strings granted to users and embedded in bearer tokens.
const (
	AdminMaster     = "admin:master"
	Admin           = "admin"
	MasterModerator = "master_moderator"
	Moderator       = "moderator"
	User            = "user"
)

// UserType is the display classification derived from a scope set.
type UserType string

const (
	TypeAdmin           UserType = "admin"
	TypeMasterModerator UserType = "master_moderator"
	TypeModerator       UserType = "moderator"
	TypeUser            UserType = "user"
)

// Requires reports whether tokenScopes satisfies the requirement. Passing an
// empty required list means any authenticated caller qualifies. A caller
// needs only one of the listed scopes, not all of them.
func Requires(tokenScopes, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, need := range required {
		for _, have := range tokenScopes {
			if have == need {
				return true
			}
		}
	}
	return false
}

// UserTypeFromScopes classifies a scope set for display. Precedence is
// admin, then master_moderator, then moderator, then user, so holding only
// master_moderator classifies as master_moderator.
func UserTypeFromScopes(userScopes []string) UserType {
	switch {
	case contains(userScopes, Admin) || contains(userScopes, AdminMaster):
		return TypeAdmin
	case contains(userScopes, MasterModerator):
		return TypeMasterModerator
	case contains(userScopes, Moderator):
		return TypeModerator
	default:
		return TypeUser
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
