package internal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/anvil/pkg/cache"
	"github.com/dmitrymomot/anvil/pkg/config"
)

// CachedResponse is a stored response of the request cache.
type CachedResponse struct {
	Header http.Header `json:"header,omitempty"`
	Body   []byte      `json:"body,omitempty"`
	Status int         `json:"status"`
}

func (c CachedResponse) response() *Response {
	h := make(http.Header, len(c.Header))
	for k, vs := range c.Header {
		h[k] = append([]string(nil), vs...)
	}
	return &Response{data: c.Body, format: FormatRaw, code: c.Status, header: h}
}

// cached looks up the request cache. On a miss it arms the request so the
// final response is stored. An armed request is not looked up again.
func (a *App) cached(ctx context.Context, req *Request) (*Response, bool) {
	if a.cache == nil || req.cache != nil || req.Method() != http.MethodGet {
		return nil, false
	}
	cfg := a.config.Module(req.Module())
	if !cacheEnabled(cfg.Get("request_cache")) {
		return nil, false
	}
	key := a.cacheKey(req, cfg)
	if key == "" {
		return nil, false
	}

	entry, err := a.cache.Get(ctx, key)
	switch {
	case err == nil:
		a.logger.DebugContext(ctx, "request cache hit", slog.String("key", key))
		req.SetCache("", 0)
		return entry.response(), true
	case !errors.Is(err, cache.ErrNotFound):
		a.logger.WarnContext(ctx, "request cache lookup failed", slog.String("key", key), slog.Any("error", err))
	}

	req.SetCache(key, config.Duration(cfg, "request_cache_expire"))
	return nil, false
}

// cacheKey builds the key from the request_cache setting. "true" keys by URL;
// a string is a template with __MODULE__, __CONTROLLER__, __ACTION__ and
// __URL__ placeholders. Excepted paths yield "".
func (a *App) cacheKey(req *Request, cfg config.Getter) string {
	path := "/" + req.Path()
	for _, prefix := range config.Strings(cfg, "request_cache_except") {
		if prefix != "" && strings.HasPrefix(path, "/"+strings.TrimPrefix(prefix, "/")) {
			return ""
		}
	}

	url := req.URL()
	tmpl, ok := cfg.Get("request_cache").(string)
	if !ok || tmpl == "" || tmpl == "true" {
		return hashKey(url)
	}
	if req.Module() == "" && req.Controller() == "" && strings.Contains(tmpl, "__") &&
		!strings.Contains(tmpl, "__URL__") {
		// Module placeholders are not known before module resolution.
		return ""
	}
	key := strings.NewReplacer(
		"__MODULE__", req.Module(),
		"__CONTROLLER__", req.Controller(),
		"__ACTION__", req.Action(),
		"__URL__", hashKey(url),
	).Replace(tmpl)
	return key
}

// cacheEnabled accepts a bool or a key template.
func cacheEnabled(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		return v != ""
	}
	return false
}

func hashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}

// store saves a 200 response for an armed request.
func (a *App) store(ctx context.Context, req *Request, resp *Response) {
	if a.cache == nil || req.cache == nil || resp.StatusCode() != http.StatusOK {
		return
	}
	body, err := resp.Body()
	if err != nil {
		return
	}
	entry := CachedResponse{Header: resp.Header().Clone(), Body: body, Status: resp.StatusCode()}
	expire := req.cache.expire
	if expire < 0 {
		expire = 0
	}
	if err := a.cache.Set(ctx, req.cache.key, entry, expire); err != nil {
		a.logger.WarnContext(ctx, "request cache store failed", slog.String("key", req.cache.key), slog.Any("error", err))
	}
}

