package users

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// AppUser is a dashboard account. It is keyed by the identity provider's
// subject id and stored with these exact field names.
type AppUser struct {
	UID         string  `json:"uid"`
	Email       string  `json:"email"`
	DisplayName string  `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
	Role        Role    `json:"role"`
	Status      Status  `json:"status"`
	GroupID     string  `json:"groupId,omitempty"`
	CreatedAt   int64   `json:"createdAt"`
}

func (u AppUser) IsAdmin() bool    { return u.Role == RoleAdmin }
func (u AppUser) IsApproved() bool { return u.Status == StatusApproved }

// Identity is what the identity provider tells us about a signed-in person.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// Partitioned splits a user list by status, keeping list order in each part.
type Partitioned struct {
	Pending  []AppUser `json:"pending"`
	Approved []AppUser `json:"approved"`
	Rejected []AppUser `json:"rejected"`
}

// Patch is a partial update. Nil fields are left untouched; ClearGroup
// removes the group assignment.
type Patch struct {
	DisplayName *string
	Role        *Role
	Status      *Status
	GroupID     *string
	ClearGroup  bool
}

func (p Patch) empty() bool {
	return p.DisplayName == nil && p.Role == nil && p.Status == nil && p.GroupID == nil && !p.ClearGroup
}

// fields renders the patch with stored field names.
func (p Patch) fields() map[string]any {
	m := map[string]any{}
	if p.DisplayName != nil {
		m["displayName"] = *p.DisplayName
	}
	if p.Role != nil {
		m["role"] = string(*p.Role)
	}
	if p.Status != nil {
		m["status"] = string(*p.Status)
	}
	if p.ClearGroup {
		m["groupId"] = nil
	} else if p.GroupID != nil {
		m["groupId"] = *p.GroupID
	}
	return m
}

func (p Patch) apply(u *AppUser) {
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.ClearGroup {
		u.GroupID = ""
	} else if p.GroupID != nil {
		u.GroupID = *p.GroupID
	}
}
