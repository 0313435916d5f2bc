package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidIdent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"user", true},
		{"User_2", true},
		{"", false},
		{"2fa", false},
		{"../etc", false},
		{"user-list", false},
		{"a.b", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validIdent(tt.in), tt.in)
	}
}

func TestValidController(t *testing.T) {
	t.Parallel()

	assert.True(t, validController("user"))
	assert.True(t, validController("admin.user"))
	assert.False(t, validController("admin..user"))
	assert.False(t, validController(".user"))
	assert.False(t, validController(""))
}

func TestCamel(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"user":            "User",
		"user_profile":    "UserProfile",
		"userProfile":     "UserProfile",
		"admin.user_list": "Admin.UserList",
		"index":           "Index",
	}
	for in, want := range tests {
		assert.Equal(t, want, camel(in), in)
	}
}

func TestFoldName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "admin", foldName("ADMIN"))
	assert.Equal(t, "admin", foldName("Admin"))
}
