package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Response formats understood by NewResponse.
const (
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatText     = "text"
	FormatRedirect = "redirect"
	FormatRaw      = "raw"
)

var contentTypes = map[string]string{
	FormatHTML: "text/html; charset=utf-8",
	FormatJSON: "application/json",
	FormatText: "text/plain; charset=utf-8",
	FormatRaw:  "application/octet-stream",
}

// Response is the envelope produced by a pipeline run.
type Response struct {
	data   any
	header http.Header
	format string
	code   int
}

// NewResponse wraps data for the given format. Unknown formats render as
// html. A redirect response uses data as the Location and defaults to 302.
func NewResponse(data any, format string) *Response {
	if format != FormatRedirect {
		if _, ok := contentTypes[format]; !ok {
			format = FormatHTML
		}
	}
	resp := &Response{
		data:   data,
		format: format,
		code:   http.StatusOK,
		header: make(http.Header),
	}
	if format == FormatRedirect {
		resp.code = http.StatusFound
		resp.header.Set("Location", fmt.Sprint(data))
		return resp
	}
	resp.header.Set("Content-Type", contentTypes[format])
	return resp
}

// WithCode sets the status code. Zero is ignored.
func (r *Response) WithCode(code int) *Response {
	if code > 0 {
		r.code = code
	}
	return r
}

// WithHeader sets a response header.
func (r *Response) WithHeader(key, value string) *Response {
	r.header.Set(key, value)
	return r
}

func (r *Response) StatusCode() int     { return r.code }
func (r *Response) Format() string      { return r.format }
func (r *Response) Data() any           { return r.data }
func (r *Response) Header() http.Header { return r.header }
func (r *Response) ContentType() string { return r.header.Get("Content-Type") }

// Body renders the response data.
func (r *Response) Body() ([]byte, error) {
	if r.data == nil {
		return nil, nil
	}
	switch r.format {
	case FormatRedirect:
		return nil, nil
	case FormatJSON:
		if raw, ok := r.data.(json.RawMessage); ok {
			return raw, nil
		}
		return json.Marshal(r.data)
	}

	switch v := r.data.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case fmt.Stringer:
		return []byte(v.String()), nil
	default:
		return []byte(fmt.Sprint(v)), nil
	}
}

// Write sends the response to w.
func (r *Response) Write(w http.ResponseWriter) error {
	body, err := r.Body()
	if err != nil {
		return fmt.Errorf("render %s response: %w", r.format, err)
	}
	h := w.Header()
	for k, vs := range r.header {
		h[k] = append([]string(nil), vs...)
	}
	if body != nil {
		h.Set("Content-Length", strconv.Itoa(len(body)))
	}
	w.WriteHeader(r.code)
	if len(body) > 0 {
		_, err = w.Write(body)
	}
	return err
}

// ResponseError carries a finished response up to App.Run, which returns
// it as the run result.
type ResponseError struct {
	Response *Response
}

func (e *ResponseError) Error() string {
	return "response sent early: " + strconv.Itoa(e.Response.StatusCode())
}

// Respond returns an error that ends the current run with resp.
func Respond(resp *Response) error {
	return &ResponseError{Response: resp}
}

func asResponseError(err error) (*Response, bool) {
	var re *ResponseError
	if errors.As(err, &re) && re.Response != nil {
		return re.Response, true
	}
	return nil, false
}
