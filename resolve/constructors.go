package resolve

import (
	"fmt"
	"reflect"
	"sort"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// constructor is the registered metadata for one constructor function.
type constructor struct {
	fn         reflect.Value
	produces   reflect.Type
	params     []reflect.Type
	returnsErr bool
	name       string
	exported   bool
	zeroValue  bool
}

// ConstructorCandidate describes the constructor actually chosen for a
// type, with its fully resolved argument list. It is recorded in the
// resolution log and is immutable once chosen.
type ConstructorCandidate struct {
	// Type is the concrete type the constructor produces.
	Type reflect.Type

	// Name is the constructor function's base name, or "zero" for the
	// implicit zero-value construction of a struct type.
	Name string

	// Params are the constructor's declared parameter types in order.
	Params []reflect.Type

	// Args are the values the constructor was invoked with (nil entries for
	// zeroed optional parameters).
	Args []any

	// Exported reports whether the constructor function is exported.
	Exported bool
}

// String renders the candidate as "name(p1, p2) -> T".
func (c ConstructorCandidate) String() string {
	s := c.Name + "("
	for i, p := range c.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + c.Type.String()
}

func newConstructor(fn any) (*constructor, error) {
	if fn == nil {
		return nil, ErrNotFunction
	}
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, ErrNotFunction
	}
	if t.IsVariadic() {
		return nil, ConfigurationError{Op: "RegisterConstructor", Detail: t.String() + " is variadic"}
	}
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errType {
			return nil, ConfigurationError{Op: "RegisterConstructor", Detail: t.String() + " second result must be error"}
		}
	default:
		return nil, ConfigurationError{Op: "RegisterConstructor", Detail: t.String() + " must return (T) or (T, error)"}
	}
	produces := t.Out(0)
	if produces.Kind() == reflect.Interface {
		return nil, ConfigurationError{Op: "RegisterConstructor", Detail: t.String() + " must produce a concrete type"}
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}
	name := funcBaseName(v)
	return &constructor{
		fn:         v,
		produces:   produces,
		params:     params,
		returnsErr: t.NumOut() == 2,
		name:       name,
		exported:   exportedName(name),
	}, nil
}

// selfReferential reports whether the constructor declares a parameter of
// the constructed type itself (by value or one pointer level removed).
// This guard is independent of the cycle guard, which handles indirect
// cycles.
func (c *constructor) selfReferential() bool {
	for _, p := range c.params {
		if p == c.produces {
			return true
		}
		if p.Kind() == reflect.Pointer && p.Elem() == c.produces {
			return true
		}
		if c.produces.Kind() == reflect.Pointer && c.produces.Elem() == p {
			return true
		}
	}
	return false
}

// invoke calls the constructor, converting a panic or a non-nil trailing
// error into a returned error.
func (c *constructor) invoke(args []reflect.Value) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("constructor %s panicked: %v", c.name, r)
		}
	}()

	if c.zeroValue {
		if c.produces.Kind() == reflect.Pointer {
			return reflect.New(c.produces.Elem()).Interface(), nil
		}
		return reflect.New(c.produces).Elem().Interface(), nil
	}

	res := c.fn.Call(args)
	if c.returnsErr && !res[1].IsNil() {
		return nil, res[1].Interface().(error)
	}
	return res[0].Interface(), nil
}

func (c *constructor) candidate(args []any) *ConstructorCandidate {
	return &ConstructorCandidate{
		Type:     c.produces,
		Name:     c.name,
		Params:   c.params,
		Args:     args,
		Exported: c.exported,
	}
}

// zeroCandidateFor returns the implicit zero-value constructor used when a
// struct (or pointer-to-struct) type has no registered constructors.
func zeroCandidateFor(t reflect.Type) *constructor {
	elem := t
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil
	}
	return &constructor{produces: t, name: "zero", exported: true, zeroValue: true}
}

// argAssignable reports whether a supplied explicit argument can occupy a
// parameter slot. Nil matches any nil-able parameter type.
func argAssignable(arg any, param reflect.Type) bool {
	if arg == nil {
		switch param.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return true
		default:
			return false
		}
	}
	return reflect.TypeOf(arg).AssignableTo(param)
}

func argValue(arg any, param reflect.Type) reflect.Value {
	if arg == nil {
		return reflect.Zero(param)
	}
	return reflect.ValueOf(arg)
}

// selectExplicit picks a constructor for explicit-arguments mode: the
// parameter prefix must match the runtime types of the supplied arguments,
// a candidate with an exact parameter count is preferred, otherwise the
// first remaining match wins. Parameters beyond the supplied arguments are
// materialized or zeroed when the constructor is built.
func selectExplicit(ctors []*constructor, args []any) *constructor {
	var matches []*constructor
	for _, c := range ctors {
		if len(c.params) < len(args) {
			continue
		}
		ok := true
		for i, a := range args {
			if !argAssignable(a, c.params[i]) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	for _, c := range matches {
		if len(c.params) == len(args) {
			return c
		}
	}
	return matches[0]
}

// orderAscending returns the candidates sorted ascending by parameter
// count, preserving registration order among equals so repeated selection
// over the same universe is stable.
func orderAscending(ctors []*constructor) []*constructor {
	out := make([]*constructor, len(ctors))
	copy(out, ctors)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].params) < len(out[j].params)
	})
	return out
}
