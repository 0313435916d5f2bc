package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/middlewares"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("test panic")
	})

	t.Run("renders a server error", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		middlewares.Recover()(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotContains(t, rec.Body.String(), "test panic")
	})

	t.Run("passes PanicError to the error handler", func(t *testing.T) {
		t.Parallel()

		var got error
		mw := middlewares.Recover(middlewares.WithRecoverErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
			got = err
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		mw(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusTeapot, rec.Code)
		require.True(t, middlewares.IsPanicError(got))
		require.Equal(t, http.StatusInternalServerError, internal.StatusOf(got))

		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		require.Equal(t, "test panic", pe.Value)
		require.NotEmpty(t, pe.Stack)
	})

	t.Run("stack disabled", func(t *testing.T) {
		t.Parallel()

		var got error
		mw := middlewares.Recover(
			middlewares.WithRecoverDisablePrintStack(),
			middlewares.WithRecoverErrorHandler(func(_ http.ResponseWriter, _ *http.Request, err error) { got = err }),
		)
		mw(panicking).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		require.Nil(t, pe.Stack)
	})

	t.Run("passes through when no panic", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		middlewares.Recover()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("abort handler is re-raised", func(t *testing.T) {
		t.Parallel()

		h := middlewares.Recover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		require.PanicsWithValue(t, http.ErrAbortHandler, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestPanicError(t *testing.T) {
	t.Parallel()

	err := &middlewares.PanicError{Value: "boom"}
	require.Equal(t, "panic: boom", err.Error())
	require.True(t, middlewares.IsPanicError(internal.ErrInternal("x", internal.WithError(err))))
	require.False(t, middlewares.IsPanicError(errors.New("boom")))
}
