package internal_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/internal"
)

type greeter interface {
	Greet(name string) string
}

type politeGreeter struct{}

func (politeGreeter) Greet(name string) string { return "hello " + name }

type listQuery struct {
	Page  int      `param:"page"`
	Limit int      `param:"limit" default:"20"`
	Tags  []string `param:"tag,optional"`
	Sort  string   `param:"sort,optional"`
}

type needsID struct {
	ID int `param:"id"`
}

func TestInvoker_Positional(t *testing.T) {
	t.Parallel()

	inv := internal.NewInvoker(nil)
	got, err := inv.Invoke(context.Background(), newRequest("/"), func(id int, slug string) string {
		return slug + "#" + strconv.Itoa(id)
	}, internal.Args{Positional: []string{"5", "post"}})

	require.NoError(t, err)
	require.Equal(t, "post#5", got)
}

func TestInvoker_InjectsContextAndRequest(t *testing.T) {
	t.Parallel()

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	req := newRequest("/")

	inv := internal.NewInvoker(nil)
	got, err := inv.Invoke(ctx, req, func(c context.Context, r *internal.Request) (bool, error) {
		return c.Value(key{}) == "v" && r == req, nil
	}, internal.Args{})

	require.NoError(t, err)
	require.Equal(t, true, got)
}

func TestInvoker_Services(t *testing.T) {
	t.Parallel()

	c := internal.NewContainer()
	internal.Provide[greeter](c, politeGreeter{})

	inv := internal.NewInvoker(c)
	got, err := inv.Invoke(context.Background(), newRequest("/"), func(g greeter, name string) string {
		return g.Greet(name)
	}, internal.Args{Positional: []string{"bob"}})

	require.NoError(t, err)
	require.Equal(t, "hello bob", got)
}

func TestInvoker_StructParams(t *testing.T) {
	t.Parallel()

	inv := internal.NewInvoker(nil)

	t.Run("named, default and optional", func(t *testing.T) {
		t.Parallel()
		got, err := inv.Invoke(context.Background(), newRequest("/"), func(q listQuery) listQuery {
			return q
		}, internal.Args{Named: map[string]any{"page": "2", "tag": []string{"a", "b"}}})

		require.NoError(t, err)
		require.Equal(t, listQuery{Page: 2, Limit: 20, Tags: []string{"a", "b"}}, got)
	})

	t.Run("pointer struct with non-string values", func(t *testing.T) {
		t.Parallel()
		got, err := inv.Invoke(context.Background(), newRequest("/"), func(q *needsID) int {
			return q.ID
		}, internal.Args{Named: map[string]any{"id": 7}})

		require.NoError(t, err)
		require.Equal(t, 7, got)
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()
		_, err := inv.Invoke(context.Background(), newRequest("/"), func(q needsID) {}, internal.Args{})

		require.ErrorIs(t, err, internal.ErrMissingRequiredArgument)
		require.Equal(t, http.StatusInternalServerError, internal.StatusOf(err))
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()
		_, err := inv.Invoke(context.Background(), newRequest("/"), func(q needsID) {}, internal.Args{
			Named: map[string]any{"id": "abc"},
		})

		require.ErrorIs(t, err, internal.ErrInvalidArgument)
		require.Equal(t, http.StatusBadRequest, internal.StatusOf(err))
	})
}

func TestInvoker_Errors(t *testing.T) {
	t.Parallel()

	inv := internal.NewInvoker(nil)
	ctx := context.Background()

	t.Run("missing positional", func(t *testing.T) {
		t.Parallel()
		_, err := inv.Invoke(ctx, newRequest("/"), func(id int) {}, internal.Args{})
		require.ErrorIs(t, err, internal.ErrMissingRequiredArgument)
	})

	t.Run("unbindable type", func(t *testing.T) {
		t.Parallel()
		_, err := inv.Invoke(ctx, newRequest("/"), func(ch chan int) {}, internal.Args{})
		require.ErrorIs(t, err, internal.ErrMissingRequiredArgument)
	})

	t.Run("invalid positional", func(t *testing.T) {
		t.Parallel()
		_, err := inv.Invoke(ctx, newRequest("/"), func(id int) {}, internal.Args{Positional: []string{"x"}})
		require.ErrorIs(t, err, internal.ErrInvalidArgument)
	})

	t.Run("not callable", func(t *testing.T) {
		t.Parallel()
		_, err := inv.Invoke(ctx, newRequest("/"), "nope", internal.Args{})
		require.ErrorIs(t, err, internal.ErrInvalidDispatchDescriptor)
	})

	t.Run("unsupported results", func(t *testing.T) {
		t.Parallel()
		called := false
		_, err := inv.Invoke(ctx, newRequest("/"), func() (int, int) {
			called = true
			return 1, 2
		}, internal.Args{})
		require.ErrorIs(t, err, internal.ErrInvalidDispatchDescriptor)
		require.False(t, called)
	})
}

func TestInvoker_ResultShapes(t *testing.T) {
	t.Parallel()

	inv := internal.NewInvoker(nil)
	ctx := context.Background()
	boom := errors.New("boom")

	tests := []struct {
		name    string
		fn      any
		want    any
		wantErr error
	}{
		{"none", func() {}, nil, nil},
		{"value", func() string { return "v" }, "v", nil},
		{"error nil", func() error { return nil }, nil, nil},
		{"error", func() error { return boom }, nil, boom},
		{"value and error", func() (int, error) { return 3, nil }, 3, nil},
		{"value and failing error", func() (int, error) { return 3, boom }, nil, boom},
		{"typed nil", func() *listQuery { return nil }, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := inv.Invoke(ctx, newRequest("/"), tt.fn, internal.Args{})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
