package domain

// IdentityKind distinguishes the two mutually exclusive session types.
type IdentityKind string

const (
	IdentityAnonymous IdentityKind = "anonymous"
	IdentityUser      IdentityKind = "user"
	IdentityAdmin     IdentityKind = "admin"
)

// Identity is the single identity the UI should act as.
type Identity struct {
	Kind     IdentityKind  `json:"kind"`
	User     *User         `json:"user,omitempty"`
	Roles    *Roles        `json:"roles,omitempty"`
	Profiles *Profiles     `json:"profiles,omitempty"`
	Admin    *Admin        `json:"admin,omitempty"`
	Session  *AdminSession `json:"session,omitempty"`
}

// UserSession is the data payload of GET /api/auth/me.
type UserSession struct {
	User     User     `json:"user"`
	Roles    Roles    `json:"roles"`
	Profiles Profiles `json:"profiles"`
}

// AdminMe is the data payload of GET <admin>/auth/me. Session may be absent.
type AdminMe struct {
	Admin   Admin         `json:"admin"`
	Session *AdminSession `json:"session"`
}
