package internal

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/muir/reflectutils"
)

// Args are the values available to an invoked function.
type Args struct {
	// Named feeds struct fields tagged `param:"name"`.
	Named map[string]any
	// Positional feeds scalar parameters in declaration order.
	Positional []string
}

var (
	contextType = reflect.TypeFor[context.Context]()
	requestType = reflect.TypeFor[*Request]()
	errorType   = reflect.TypeFor[error]()
)

// Invoker calls functions with parameters bound from the request, the
// arguments and the service container.
//
// Parameter binding:
//   - context.Context receives the run context
//   - *Request receives the current request
//   - a type registered in the container receives the service
//   - a struct, or pointer to struct, with `param` tags is filled field by
//     field from Args.Named, then the `default` tag, then the container;
//     a tag option "optional" allows the field to stay empty
//   - a scalar receives the next positional value
//
// Supported results are none, (T), (error) and (T, error).
type Invoker struct {
	container *Container
	setters   sync.Map // reflect.Type -> func(reflect.Value, string) error
}

// NewInvoker creates an invoker resolving services from c. A nil c means an
// empty container.
func NewInvoker(c *Container) *Invoker {
	if c == nil {
		c = NewContainer()
	}
	return &Invoker{container: c}
}

// Invoke calls fn, which is a function value or a reflect.Value of one.
func (inv *Invoker) Invoke(ctx context.Context, req *Request, fn any, args Args) (any, error) {
	v, ok := fn.(reflect.Value)
	if !ok {
		v = reflect.ValueOf(fn)
	}
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, ErrInternal("target is not callable",
			WithError(ErrInvalidDispatchDescriptor),
			WithDetail(fmt.Sprintf("%T", fn)),
		)
	}

	t := v.Type()
	if err := checkResults(t); err != nil {
		return nil, err
	}

	in := make([]reflect.Value, t.NumIn())
	pos := 0
	for i := range t.NumIn() {
		arg, err := inv.bind(ctx, req, t.In(i), args, &pos)
		if err != nil {
			return nil, err
		}
		in[i] = arg
	}

	return results(v.Call(in))
}

func (inv *Invoker) bind(ctx context.Context, req *Request, t reflect.Type, args Args, pos *int) (reflect.Value, error) {
	switch t {
	case contextType:
		return reflect.ValueOf(&ctx).Elem(), nil
	case requestType:
		return reflect.ValueOf(req), nil
	}

	if svc, ok := inv.container.Resolve(t); ok {
		return svc, nil
	}

	if st, isPtr, ok := paramStruct(t); ok {
		ptr, err := inv.fill(st, args.Named)
		if err != nil {
			return reflect.Value{}, err
		}
		if isPtr {
			return ptr, nil
		}
		return ptr.Elem(), nil
	}

	if isScalar(t) && *pos < len(args.Positional) {
		target := reflect.New(t).Elem()
		raw := args.Positional[*pos]
		*pos++
		if err := inv.setString(target, raw); err != nil {
			return reflect.Value{}, invalidArgument(fmt.Sprintf("#%d", *pos), raw, err)
		}
		return target, nil
	}

	return reflect.Value{}, missingArgument(t.String())
}

// fill builds a *st with its param-tagged fields bound.
func (inv *Invoker) fill(st reflect.Type, named map[string]any) (reflect.Value, error) {
	ptr := reflect.New(st)
	model := ptr.Elem()

	var firstErr error
	reflectutils.WalkStructElements(st, func(f reflect.StructField) bool {
		if firstErr != nil {
			return false
		}
		tag, ok := f.Tag.Lookup("param")
		if !ok {
			return true
		}
		name, optional := parseParamTag(tag, f.Name)
		if name == "-" || !f.IsExported() {
			return false
		}
		field, err := model.FieldByIndexErr(f.Index)
		if err != nil {
			firstErr = missingArgument(name)
			return false
		}

		if raw, ok := named[name]; ok {
			if err := inv.assign(field, raw); err != nil {
				firstErr = invalidArgument(name, raw, err)
			}
			return false
		}
		if def, ok := f.Tag.Lookup("default"); ok {
			if err := inv.setString(field, def); err != nil {
				firstErr = invalidArgument(name, def, err)
			}
			return false
		}
		if svc, ok := inv.container.Resolve(f.Type); ok {
			field.Set(svc)
			return false
		}
		if !optional {
			firstErr = missingArgument(name)
		}
		return false
	})
	return ptr, firstErr
}

// assign stores a named value in field, converting as needed.
func (inv *Invoker) assign(field reflect.Value, raw any) error {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return inv.setString(field, v)
	case []string:
		if field.Kind() == reflect.Slice {
			out := reflect.MakeSlice(field.Type(), len(v), len(v))
			for i, s := range v {
				if err := inv.setString(out.Index(i), s); err != nil {
					return err
				}
			}
			field.Set(out)
			return nil
		}
		if len(v) == 0 {
			return nil
		}
		return inv.setString(field, v[len(v)-1])
	}

	rv := reflect.ValueOf(raw)
	switch {
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
		return nil
	case isScalar(rv.Type()) && isScalar(field.Type()) && rv.Type().ConvertibleTo(field.Type()) &&
		rv.Kind() != reflect.String && field.Kind() != reflect.String:
		field.Set(rv.Convert(field.Type()))
		return nil
	}
	return inv.setString(field, fmt.Sprint(raw))
}

func (inv *Invoker) setString(target reflect.Value, s string) error {
	t := target.Type()
	setter, ok := inv.setters.Load(t)
	if !ok {
		fn, err := reflectutils.MakeStringSetter(t)
		if err != nil {
			return err
		}
		setter, _ = inv.setters.LoadOrStore(t, fn)
	}
	return setter.(func(reflect.Value, string) error)(target, s)
}

// paramStruct reports whether t is a struct, or pointer to struct, with at
// least one param-tagged field.
func paramStruct(t reflect.Type) (reflect.Type, bool, bool) {
	isPtr := false
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		isPtr = true
	}
	if t.Kind() != reflect.Struct {
		return nil, false, false
	}
	tagged := false
	reflectutils.WalkStructElements(t, func(f reflect.StructField) bool {
		if _, ok := f.Tag.Lookup("param"); ok {
			tagged = true
			return false
		}
		return !tagged
	})
	return t, isPtr, tagged
}

func parseParamTag(tag, fieldName string) (string, bool) {
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = fieldName
	}
	optional := false
	for opt := range strings.SplitSeq(opts, ",") {
		if strings.TrimSpace(opt) == "optional" {
			optional = true
		}
	}
	return name, optional
}

func isScalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func checkResults(t reflect.Type) error {
	n := t.NumOut()
	if n <= 1 || (n == 2 && t.Out(1) == errorType) {
		return nil
	}
	return ErrInternal("unsupported result signature",
		WithError(ErrInvalidDispatchDescriptor),
		WithDetail(t.String()),
	)
}

func results(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errorType {
			err, _ := out[0].Interface().(error)
			return nil, err
		}
		return value(out[0]), nil
	default:
		err, _ := out[1].Interface().(error)
		if err != nil {
			return nil, err
		}
		return value(out[0]), nil
	}
}

// value unwraps v, mapping typed nils to nil.
func value(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}

func missingArgument(name string) error {
	return ErrInternal(ErrMissingRequiredArgument.Error()+": "+name,
		WithError(ErrMissingRequiredArgument),
		WithDetail(name),
	)
}

func invalidArgument(name string, raw any, cause error) error {
	return ErrBadRequest(fmt.Sprintf("%s: %s", ErrInvalidArgument.Error(), name),
		WithError(fmt.Errorf("%w: %q: %w", ErrInvalidArgument, fmt.Sprint(raw), cause)),
		WithDetail(name),
	)
}
