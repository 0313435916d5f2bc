package internal

import (
	"context"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/anvil/pkg/dispatch"
	"github.com/dmitrymomot/anvil/pkg/hostrouter"
	"github.com/dmitrymomot/anvil/pkg/sanitizer"
)

// Request is the per-request state of one pipeline run. The pipeline sets
// the routing fields once; invocation and logging read them afterwards.
type Request struct {
	raw        *http.Request
	params     map[string]any
	named      map[string]string
	positional []string
	filter     sanitizer.Filter
	dispatch   dispatch.Descriptor
	cache      *cacheDirective
	formErr    error

	module     string
	controller string
	action     string
	langset    string
	bind       string
}

type cacheDirective struct {
	key    string
	expire time.Duration
}

// NewRequest wraps r. Query and form values become the request parameters.
// A malformed query or body is kept as FormError; Run rejects the request.
func NewRequest(r *http.Request) *Request {
	req := &Request{
		raw:    r,
		params: make(map[string]any),
		named:  make(map[string]string),
	}
	req.formErr = r.ParseForm()
	collect(req.params, r.URL.Query())
	collect(req.params, r.PostForm)
	return req
}

func collect(dst map[string]any, values url.Values) {
	for k, vs := range values {
		switch len(vs) {
		case 0:
		case 1:
			dst[k] = vs[0]
		default:
			dst[k] = append([]string(nil), vs...)
		}
	}
}

// FormError returns the error of parsing the query and form body, if any.
func (r *Request) FormError() error { return r.formErr }

// Raw returns the underlying *http.Request.
func (r *Request) Raw() *http.Request { return r.raw }

// Context returns the request context.
func (r *Request) Context() context.Context { return r.raw.Context() }

// Path returns the URL path without surrounding slashes.
func (r *Request) Path() string {
	return strings.Trim(r.raw.URL.Path, "/")
}

// URL returns the request URI including the query string.
func (r *Request) URL() string { return r.raw.URL.RequestURI() }

func (r *Request) Method() string { return r.raw.Method }

// Host returns the host without port.
func (r *Request) Host() string { return hostrouter.GetDomain(r.raw) }

func (r *Request) Header(name string) string { return r.raw.Header.Get(name) }

func (r *Request) Headers() http.Header { return r.raw.Header }

// IsAjax reports an XMLHttpRequest or an explicit _ajax parameter.
func (r *Request) IsAjax() bool {
	if strings.EqualFold(r.raw.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	v, _ := r.params["_ajax"].(string)
	return v != "" && v != "0" && v != "false"
}

// SetFilter sets the filter applied to parameter values on read.
func (r *Request) SetFilter(f sanitizer.Filter) { r.filter = f }

// Params returns query, form and route values merged in that order, with
// the request filter applied.
func (r *Request) Params() map[string]any {
	out := make(map[string]any, len(r.params)+len(r.named))
	maps.Copy(out, r.params)
	for k, v := range r.named {
		out[k] = v
	}
	if r.filter != nil {
		for k, v := range out {
			out[k] = sanitizer.Apply(r.filter, v)
		}
	}
	return out
}

// Param returns a single filtered parameter, or nil.
func (r *Request) Param(name string) any {
	v, ok := r.named[name]
	if ok {
		return r.filtered(v)
	}
	if raw, ok := r.params[name]; ok {
		return r.filtered(raw)
	}
	return nil
}

func (r *Request) filtered(v any) any {
	if r.filter == nil {
		return v
	}
	return sanitizer.Apply(r.filter, v)
}

// SetRouteVars records named and positional route variables.
func (r *Request) SetRouteVars(named map[string]string, positional []string) {
	if r.named == nil {
		r.named = make(map[string]string, len(named))
	}
	maps.Copy(r.named, named)
	r.positional = append(r.positional, positional...)
}

// RouteVars returns the named route variables.
func (r *Request) RouteVars() map[string]any {
	out := make(map[string]any, len(r.named))
	for k, v := range r.named {
		out[k] = r.filtered(v)
	}
	return out
}

// Positional returns the positional route variables.
func (r *Request) Positional() []string {
	return append([]string(nil), r.positional...)
}

func (r *Request) Module() string                { return r.module }
func (r *Request) SetModule(m string)            { r.module = m }
func (r *Request) Controller() string            { return r.controller }
func (r *Request) SetController(c string)        { r.controller = c }
func (r *Request) Action() string                { return r.action }
func (r *Request) SetAction(a string)            { r.action = a }
func (r *Request) Langset() string               { return r.langset }
func (r *Request) SetLangset(l string)           { r.langset = l }
func (r *Request) Bind() string                  { return r.bind }
func (r *Request) Dispatch() dispatch.Descriptor { return r.dispatch }

// SetBind fixes the module binding. An existing binding is kept.
func (r *Request) SetBind(module string) {
	if r.bind == "" {
		r.bind = module
	}
}

// SetDispatch presets the descriptor; the pipeline skips route resolution
// when one is set.
func (r *Request) SetDispatch(d dispatch.Descriptor) { r.dispatch = d }

// SetCache arms the request cache for this run.
func (r *Request) SetCache(key string, expire time.Duration) {
	if key == "" {
		r.cache = nil
		return
	}
	r.cache = &cacheDirective{key: key, expire: expire}
}

// CacheKey returns the armed cache key, or "".
func (r *Request) CacheKey() string {
	if r.cache == nil {
		return ""
	}
	return r.cache.key
}

type requestKey struct{}

// WithRequest stores req in ctx.
func WithRequest(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// RequestFromContext returns the pipeline request stored in ctx.
func RequestFromContext(ctx context.Context) (*Request, bool) {
	req, ok := ctx.Value(requestKey{}).(*Request)
	return req, ok && req != nil
}
