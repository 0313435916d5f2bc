package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type userController struct{ n int }

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	calls := 0
	r.Register("Admin", "", "user_profile", func() any {
		calls++
		return &userController{n: calls}
	})
	r.Register("admin", "", "", func() any { return nil })
	r.Register("admin", "", "nil", nil)

	require.True(t, r.Has("admin", DefaultLayer, "UserProfile"))
	require.True(t, r.Has("ADMIN", "", "user_profile"))
	require.False(t, r.Has("index", "", "user_profile"))
	require.False(t, r.Has("admin", "service", "user_profile"))

	a := r.New("admin", "", "userProfile").(*userController)
	b := r.New("admin", "", "userProfile").(*userController)
	require.NotSame(t, a, b, "every lookup builds a fresh instance")
	require.Nil(t, r.New("admin", "", "missing"))

	require.Equal(t, []string{"admin/controller/UserProfile"}, r.Names())
}

func TestControllerName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "user", controllerName("user", "controller", false))
	require.Equal(t, "user_controller", controllerName("user", "controller", true))
	require.Equal(t, "user_controller", controllerName("user", "", true))
	require.Equal(t, "UserController", camel(controllerName("user", "controller", true)))
}
