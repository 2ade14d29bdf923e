package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole_KnownValues(t *testing.T) {
	assert.Equal(t, RoleAthlete, ParseRole("atleta"))
	assert.Equal(t, RoleBoard, ParseRole("diretoria"))
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleUser, ParseRole("usuario"))
}

func TestParseRole_UnknownFallsBackToUser(t *testing.T) {
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("presidente"))
}

func TestValidRole(t *testing.T) {
	for _, s := range []string{"usuario", "atleta", "diretoria", "admin"} {
		assert.True(t, ValidRole(s), s)
	}
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("presidente"))
	assert.False(t, ValidRole("Admin"))
}

func TestApplyRole_RecomputesFlags(t *testing.T) {
	tests := []struct {
		role      Role
		isBoard   bool
		isAthlete bool
		isUser    bool
	}{
		{RoleUser, false, false, true},
		{RoleAthlete, false, true, false},
		{RoleBoard, true, false, false},
		{RoleAdmin, false, false, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			var id Identity
			id.ApplyRole(tc.role)
			assert.Equal(t, tc.isBoard, id.IsBoard)
			assert.Equal(t, tc.isAthlete, id.IsAthlete)
			assert.Equal(t, tc.isUser, id.IsUser)
		})
	}
}

// The permission view is a pure function of the role: board members and
// admins get both capabilities, nobody else gets either, and no other
// Identity field can influence the result.
func TestDerivePermissions(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAthlete, RoleBoard, RoleAdmin} {
		p := DerivePermissions(r)
		elevated := r == RoleBoard || r == RoleAdmin
		assert.Equal(t, elevated, p.IsBoardOrAdmin, "role %s", r)
		assert.Equal(t, elevated, p.CanViewEncrypted, "role %s", r)
	}
}
