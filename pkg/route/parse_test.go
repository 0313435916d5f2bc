package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/dispatch"
	"github.com/dmitrymomot/anvil/pkg/route"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		opts       route.ParseOptions
		want       dispatch.Path
		positional []string
		named      map[string]string
	}{
		{
			name:       "single module",
			path:       "/user/show/5",
			want:       dispatch.Path{"", "user", "show"},
			positional: []string{"5"},
			named:      map[string]string{},
		},
		{
			name:       "multi module",
			path:       "admin/user/edit/id/3",
			opts:       route.ParseOptions{MultiModule: true},
			want:       dispatch.Path{"admin", "user", "edit"},
			positional: []string{"id", "3"},
			named:      map[string]string{"id": "3"},
		},
		{
			name:  "bound module omits module segment",
			path:  "/index/login",
			opts:  route.ParseOptions{MultiModule: true, Bound: true},
			want:  dispatch.Path{"", "index", "login"},
			named: map[string]string{},
		},
		{
			name:  "empty path",
			path:  "/",
			opts:  route.ParseOptions{MultiModule: true},
			want:  dispatch.Path{},
			named: map[string]string{},
		},
		{
			name:  "module only",
			path:  "blog",
			opts:  route.ParseOptions{MultiModule: true},
			want:  dispatch.Path{"blog", "", ""},
			named: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := route.ParseURL(tt.path, "/", tt.opts)
			assert.Equal(t, tt.want, got.Path)
			assert.Equal(t, tt.positional, got.Positional)
			assert.Equal(t, tt.named, got.Named)
		})
	}
}

func TestParseURL_Deterministic(t *testing.T) {
	t.Parallel()

	opts := route.ParseOptions{MultiModule: true}
	for _, path := range []string{"", "a", "a/b", "a/b/c", "a/b/c/d/e/f", "//x//"} {
		first := route.ParseURL(path, "/", opts)
		for range 5 {
			require.Equal(t, first, route.ParseURL(path, "/", opts), path)
		}
	}
}

func TestParseURL_AutoSearch(t *testing.T) {
	t.Parallel()

	known := map[string]bool{"admin/user.profile": true, "admin/user": true}
	exists := func(module, controller string) bool { return known[module+"/"+controller] }

	got := route.ParseURL("admin/User/Profile/edit/9", "/", route.ParseOptions{
		MultiModule: true,
		AutoSearch:  true,
		Exists:      exists,
	})
	assert.Equal(t, dispatch.Path{"admin", "user.profile", "edit"}, got.Path)
	assert.Equal(t, []string{"9"}, got.Positional)

	got = route.ParseURL("admin/missing/edit", "/", route.ParseOptions{
		MultiModule: true,
		AutoSearch:  true,
		Exists:      exists,
	})
	assert.Equal(t, dispatch.Path{"admin", "missing", "edit"}, got.Path)
}
