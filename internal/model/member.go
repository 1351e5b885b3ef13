package model

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// Membership is a user's association with a workspace. User may be nil
// when the snapshot carries no profile.
type Membership struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	WorkspaceID string       `json:"workspaceId"`
	Role        Role         `json:"role"`
	User        *UserProfile `json:"user,omitempty"`
}

func (m *Membership) Name() string {
	if m == nil || m.User == nil {
		return ""
	}
	return m.User.Name
}

func (m *Membership) Email() string {
	if m == nil || m.User == nil {
		return ""
	}
	return m.User.Email
}

func (m *Membership) Image() string {
	if m == nil || m.User == nil {
		return ""
	}
	return m.User.Image
}
