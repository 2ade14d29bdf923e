// Package remote reads and updates the club's hosted backend tables.
//
// The backend is a plain relational store: a profiles table keyed by id with
// a unique email column, and a one-to-many passwords table holding credential
// rows per profile. This package owns the table shapes; authentication policy
// (which row wins, how values are compared) lives in the services package.
package remote

import "context"

// Profile mirrors one row of the profiles table.
type Profile struct {
	ID        string
	Email     string
	FullName  string
	Role      string
	PushToken string
	AvatarURL string
}

// Store is the client's view of the backend tables.
type Store interface {
	// ProfileByEmail returns the profile whose email matches exactly.
	// Zero or multiple matching rows both report common.ErrNotFound.
	ProfileByEmail(ctx context.Context, email string) (*Profile, error)

	// ProfileByID returns the profile row for id, or common.ErrNotFound.
	ProfileByID(ctx context.Context, id string) (*Profile, error)

	// LatestPassword returns the stored secret of the most recently created
	// password row for the profile, or common.ErrNotFound when none exist.
	LatestPassword(ctx context.Context, profileID string) (string, error)

	// UpdatePushToken persists the device push token on the profile row.
	UpdatePushToken(ctx context.Context, id, token string) error

	// UpdateRole changes the stored role of the profile row.
	UpdateRole(ctx context.Context, id, role string) error

	// UpdateAvatarURL persists the public URL of the uploaded profile photo.
	UpdateAvatarURL(ctx context.Context, id, url string) error

	// Close releases the underlying connection pool.
	Close() error
}
