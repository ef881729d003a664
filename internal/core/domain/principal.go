package domain

// AdminPrincipalID is the identity carried by the static admin principal.
const AdminPrincipalID = "admin"

// PrincipalKind tags which variant a Principal holds.
type PrincipalKind int

const (
	// PrincipalAdmin is recognised from token claims alone.
	PrincipalAdmin PrincipalKind = iota + 1
	// PrincipalStoredUser is backed by a user record.
	PrincipalStoredUser
)

func (k PrincipalKind) String() string {
	switch k {
	case PrincipalAdmin:
		return "admin"
	case PrincipalStoredUser:
		return "stored_user"
	default:
		return "unknown"
	}
}

// Principal is the authenticated identity attached to a request.
// User is non-nil only for PrincipalStoredUser.
type Principal struct {
	Kind     PrincipalKind
	Username string
	User     *User
}

// NewAdminPrincipal returns the static admin principal for username.
func NewAdminPrincipal(username string) *Principal {
	return &Principal{Kind: PrincipalAdmin, Username: username}
}

// NewUserPrincipal wraps a stored user record.
func NewUserPrincipal(u *User) *Principal {
	return &Principal{Kind: PrincipalStoredUser, Username: u.Username, User: u}
}

func (p *Principal) ID() string {
	if p.Kind == PrincipalStoredUser && p.User != nil {
		return p.User.ID
	}
	return AdminPrincipalID
}

func (p *Principal) Role() Role {
	if p.Kind == PrincipalAdmin {
		return RoleAdmin
	}
	if p.User != nil {
		return p.User.Role
	}
	return ""
}

// HasRole reports whether the principal carries any of roles.
func (p *Principal) HasRole(roles ...Role) bool {
	r := p.Role()
	for _, want := range roles {
		if r == want {
			return true
		}
	}
	return false
}
