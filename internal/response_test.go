package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/internal"
)

func TestNewResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		data        any
		format      string
		contentType string
		body        string
	}{
		{"html", "<p>hi</p>", internal.FormatHTML, "text/html; charset=utf-8", "<p>hi</p>"},
		{"json", map[string]int{"a": 1}, internal.FormatJSON, "application/json", `{"a":1}`},
		{"text", 42, internal.FormatText, "text/plain; charset=utf-8", "42"},
		{"raw bytes", []byte("raw"), internal.FormatRaw, "application/octet-stream", "raw"},
		{"unknown format is html", "x", "xml", "text/html; charset=utf-8", "x"},
		{"nil data", nil, internal.FormatJSON, "application/json", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := internal.NewResponse(tt.data, tt.format)
			require.Equal(t, http.StatusOK, resp.StatusCode())
			require.Equal(t, tt.contentType, resp.ContentType())

			body, err := resp.Body()
			require.NoError(t, err)
			require.Equal(t, tt.body, string(body))
		})
	}
}

func TestResponse_Redirect(t *testing.T) {
	t.Parallel()

	resp := internal.NewResponse("/login", internal.FormatRedirect)
	require.Equal(t, http.StatusFound, resp.StatusCode())
	require.Equal(t, "/login", resp.Header().Get("Location"))

	resp.WithCode(0)
	require.Equal(t, http.StatusFound, resp.StatusCode())
	resp.WithCode(http.StatusMovedPermanently)
	require.Equal(t, http.StatusMovedPermanently, resp.StatusCode())
}

func TestResponse_Write(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	err := internal.NewResponse("created", internal.FormatText).
		WithCode(http.StatusCreated).
		WithHeader("X-Test", "1").
		Write(w)

	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "created", w.Body.String())
	require.Equal(t, "1", w.Header().Get("X-Test"))
	require.Equal(t, "7", w.Header().Get("Content-Length"))
}

func TestResponse_WriteJSONError(t *testing.T) {
	t.Parallel()

	err := internal.NewResponse(make(chan int), internal.FormatJSON).Write(httptest.NewRecorder())
	require.Error(t, err)
}

func TestRespond(t *testing.T) {
	t.Parallel()

	resp := internal.NewResponse("early", internal.FormatText)
	err := fmt.Errorf("wrapped: %w", internal.Respond(resp))

	var re *internal.ResponseError
	require.True(t, errors.As(err, &re))
	require.Same(t, resp, re.Response)
}
