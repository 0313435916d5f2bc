package dispatch

import (
	"fmt"
	"strings"
)

// Kind is the tag of a dispatch descriptor.
type Kind string

// Descriptor kinds.
const (
	KindRedirect   Kind = "redirect"
	KindModule     Kind = "module"
	KindController Kind = "controller"
	KindMethod     Kind = "method"
	KindFunction   Kind = "function"
	KindResponse   Kind = "response"
)

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindRedirect, KindModule, KindController, KindMethod, KindFunction, KindResponse:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Descriptor is a tagged dispatch target.
type Descriptor interface {
	Kind() Kind
}

// Redirect sends the client to URL. Zero Status means 302.
type Redirect struct {
	URL    string
	Status int
}

func (Redirect) Kind() Kind { return KindRedirect }

// Module resolves a module/controller/action path.
// Convert, when set, overrides the url_convert configuration.
type Module struct {
	Path    Path
	Convert *bool
}

func (Module) Kind() Kind { return KindModule }

// Controller invokes "[module/]controller/action" through the registry.
type Controller struct {
	Name string
	Vars map[string]any
}

func (Controller) Kind() Kind { return KindController }

// Method invokes a bound method value with request parameters merged with Vars.
type Method struct {
	Callable any
	Vars     map[string]any
}

func (Method) Kind() Kind { return KindMethod }

// Function invokes a closure with request parameters only.
type Function struct {
	Callable any
}

func (Function) Kind() Kind { return KindFunction }

// Response carries a pre-built result.
type Response struct {
	Value any
}

func (Response) Kind() Kind { return KindResponse }

// Bool returns a pointer to v, handy for Module.Convert.
func Bool(v bool) *bool { return &v }

// String renders a descriptor for diagnostics.
func String(d Descriptor) string {
	switch v := d.(type) {
	case nil:
		return "<nil>"
	case Redirect:
		return fmt.Sprintf("redirect(%s %d)", v.URL, v.Status)
	case Module:
		return "module(" + v.Path.String() + ")"
	case Controller:
		return "controller(" + v.Name + ")"
	case Method:
		return fmt.Sprintf("method(%T)", v.Callable)
	case Function:
		return fmt.Sprintf("function(%T)", v.Callable)
	case Response:
		return fmt.Sprintf("response(%T)", v.Value)
	default:
		return fmt.Sprintf("%s(%T)", d.Kind(), d)
	}
}
