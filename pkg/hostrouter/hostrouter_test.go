package hostrouter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/hostrouter"
)

func TestTable_ExactHost(t *testing.T) {
	t.Parallel()

	table := hostrouter.NewTable[string]()
	table.Set("example.com", "example")
	table.Set("other.com", "other")

	tests := []struct {
		name   string
		host   string
		want   string
		wantOK bool
	}{
		{"exact match", "example.com", "example", true},
		{"exact match other", "other.com", "other", true},
		{"case insensitive", "Example.COM", "example", true},
		{"with port", "example.com:8080", "example", true},
		{"no match", "unknown.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := table.Lookup(tt.host)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTable_WildcardHost(t *testing.T) {
	t.Parallel()

	table := hostrouter.NewTable[string]()
	table.Set("*.example.com", "tenant")
	table.Set("api.example.com", "api")

	tests := []struct {
		name   string
		host   string
		want   string
		wantOK bool
	}{
		{"exact beats wildcard", "api.example.com", "api", true},
		{"wildcard subdomain", "foo.example.com", "tenant", true},
		{"wildcard with port", "bar.example.com:443", "tenant", true},
		{"bare domain is not a subdomain", "example.com", "", false},
		{"nested subdomain", "a.b.example.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := table.Lookup(tt.host)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTable_IPv6Host(t *testing.T) {
	t.Parallel()

	table := hostrouter.NewTable[int]()
	table.Set("[::1]", 6)

	got, ok := table.Lookup("[::1]:8080")
	require.True(t, ok)
	require.Equal(t, 6, got)
}

func TestTable_GetAndPatterns(t *testing.T) {
	t.Parallel()

	table := hostrouter.NewTable[[]string]()
	table.Set("", []string{"ignored"})
	table.Set("  API.example.com ", []string{"a"})
	table.Set("*.example.com", []string{"w"})

	require.Equal(t, 2, table.Len())
	require.ElementsMatch(t, []string{"api.example.com", "*.example.com"}, table.Patterns())

	v, ok := table.Get("*.example.com")
	require.True(t, ok)
	require.Equal(t, []string{"w"}, v)

	_, ok = table.Get("foo.example.com")
	require.False(t, ok)
}
