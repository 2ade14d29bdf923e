// Package models defines the client-side data model of the Handluz app:
// the authenticated Identity, the closed role enumeration, and the
// permission view derived from it.
package models

// Role is the closed set of member roles stored on the remote profile.
// Values match the role column of the profiles table.
type Role string

const (
	RoleUser    Role = "usuario"
	RoleAthlete Role = "atleta"
	RoleBoard   Role = "diretoria"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a stored role string to the closed enumeration.
// Absent or unrecognized values fall back to RoleUser.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAthlete, RoleBoard, RoleAdmin:
		return Role(s)
	default:
		return RoleUser
	}
}

// ValidRole reports whether s is exactly one of the four role values.
// Unlike ParseRole it has no fallback; use it to validate user input before
// a role is written, so a typo cannot silently demote a member.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleUser, RoleAthlete, RoleBoard, RoleAdmin:
		return true
	default:
		return false
	}
}

// Identity is the in-memory record of the currently authenticated member.
// It is a client-side projection of the remote profile row; the auth manager
// is its only writer. The boolean flags mirror Role for legacy read paths
// and are always recomputed from it, never stored independently.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      Role   `json:"role"`
	IsBoard   bool   `json:"is_board"`
	IsAthlete bool   `json:"is_athlete"`
	IsUser    bool   `json:"is_user"`
	PushToken string `json:"push_token,omitempty"`
}

// ApplyRole sets the role and recomputes the mirrored flags.
func (i *Identity) ApplyRole(r Role) {
	i.Role = r
	i.IsBoard = r == RoleBoard
	i.IsAthlete = r == RoleAthlete
	i.IsUser = r == RoleUser
}

// Permissions is the capability view derived from a role. It is never
// persisted; recompute it from the current role on every read.
type Permissions struct {
	IsBoardOrAdmin   bool
	CanViewEncrypted bool
}

// DerivePermissions is a pure function of the role. Board members and
// administrators get both capabilities; everyone else gets neither.
func DerivePermissions(r Role) Permissions {
	elevated := r == RoleBoard || r == RoleAdmin
	return Permissions{
		IsBoardOrAdmin:   elevated,
		CanViewEncrypted: elevated,
	}
}
