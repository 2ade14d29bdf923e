package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/BrasserTech/handluz/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and signs in through the auth manager. The
// user-facing failure message comes from the manager's snapshot, so unknown
// emails and wrong passwords read identically here.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.SignIn(ctx, email, string(password)); err != nil {
		_, _, msg := a.auth.Snapshot()
		printlnFn("Login failed:", msg)
		return err
	}

	user, _, _ := a.auth.Snapshot()
	printlnFn("Welcome,", user.FullName)
	return nil
}

// Logout signs out and wipes the persisted session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		return err
	}
	printlnFn("Logged out")
	return nil
}

// WhoAmI prints the current identity and its derived permissions.
func (a *App) WhoAmI(ctx context.Context) error {
	user, _, _ := a.auth.Snapshot()
	if user == nil {
		printlnFn("Not logged in")
		return nil
	}

	perms := a.auth.Permissions()
	printlnFn(fmt.Sprintf("%s <%s> role=%s board-or-admin=%v encrypted-docs=%v",
		user.FullName, user.Email, user.Role, perms.IsBoardOrAdmin, perms.CanViewEncrypted))
	return nil
}

// Refresh re-reads the remote profile so role changes made elsewhere take
// effect without re-login.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.auth.RefreshProfile(ctx); err != nil {
		printlnFn("Refresh failed, keeping current profile")
		return err
	}
	return a.WhoAmI(ctx)
}

// Avatar uploads the image at path and records its public URL on the
// profile.
func (a *App) Avatar(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Cannot read file:", err.Error())
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := a.uploader.Upload(ctx, data, contentType)
	if err != nil {
		printlnFn("Upload failed:", err.Error())
		return err
	}

	if err := a.auth.UpdateAvatar(ctx, url); err != nil {
		printlnFn("Could not save photo to profile")
		return err
	}

	printlnFn("Profile photo updated:", url)
	return nil
}

// SetRole changes a member's role. Board members and administrators only.
func (a *App) SetRole(ctx context.Context, email, role string) error {
	if err := a.auth.SetMemberRole(ctx, email, role); err != nil {
		printlnFn("Role change failed:", err.Error())
		return err
	}
	printlnFn("Role of", email, "set to", role)
	return nil
}
