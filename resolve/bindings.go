package resolve

import "reflect"

// Factory builds an instance for a binding using the engine for any nested
// resolution it needs.
type Factory func(e *Engine) (any, error)

// Binding is an explicit mapping from an abstract type to a concrete
// realization, optionally with a custom factory or a fixed argument list.
// Bindings are created via Bind/BindTypes and are never auto-pruned.
type Binding struct {
	// Abstract is the bound interface (or abstract) type.
	Abstract reflect.Type

	// Concrete is the instantiable realization. Unset when Factory is used.
	Concrete reflect.Type

	// Factory, when non-nil, produces the instance directly.
	Factory Factory

	// Args is the fixed argument list handed to constructor selection.
	Args []any
}

// String renders the binding as "Abstract => Concrete" (or "=> factory").
func (b Binding) String() string {
	if b.Factory != nil {
		return b.Abstract.String() + " => factory"
	}
	return b.Abstract.String() + " => " + b.Concrete.String()
}

type bindingTable struct {
	entries map[reflect.Type]Binding
	order   []reflect.Type
}

func newBindingTable() *bindingTable {
	return &bindingTable{entries: make(map[reflect.Type]Binding)}
}

func (bt *bindingTable) get(t reflect.Type) (Binding, bool) {
	b, ok := bt.entries[t]
	return b, ok
}

func (bt *bindingTable) put(b Binding, replace bool) error {
	if _, exists := bt.entries[b.Abstract]; exists {
		if !replace {
			return ConfigurationError{Op: "Bind", Detail: b.Abstract.String() + " is already bound (set replace to overwrite)"}
		}
		bt.entries[b.Abstract] = b
		return nil
	}
	bt.entries[b.Abstract] = b
	bt.order = append(bt.order, b.Abstract)
	return nil
}

// BindOption customizes a binding registration.
type BindOption func(*bindConfig)

type bindConfig struct {
	factory Factory
	args    []any
	replace bool
}

// WithFactory makes the binding produce instances through fn instead of
// constructor selection.
func WithFactory(fn Factory) BindOption {
	return func(c *bindConfig) { c.factory = fn }
}

// WithArgs fixes the argument list used when the bound concrete type is
// constructed.
func WithArgs(args ...any) BindOption {
	return func(c *bindConfig) { c.args = args }
}

// Replace overwrites an existing binding for the same abstract type instead
// of failing.
func Replace() BindOption {
	return func(c *bindConfig) { c.replace = true }
}

// Bind registers an explicit mapping from abstract type A to concrete type
// C on the engine's binding table.
//
//	err := resolve.Bind[Repo, *SqlRepo](e)
//
// It fails with ConfigurationError when C is not instantiable, when C is
// not assignable to A, or when A is already bound and Replace was not
// given.
func Bind[A any, C any](e *Engine, opts ...BindOption) error {
	if e == nil {
		return ErrNilEngine
	}
	return e.BindTypes(typeFor[A](), typeFor[C](), opts...)
}

// BindTypes is the non-generic form of Bind, used by declarative profiles.
func (e *Engine) BindTypes(abstract, concrete reflect.Type, opts ...BindOption) error {
	var cfg bindConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	b := Binding{Abstract: abstract, Factory: cfg.factory, Args: cfg.args}
	if cfg.factory == nil {
		if concrete.Kind() == reflect.Interface {
			return ConfigurationError{Op: "Bind", Detail: concrete.String() + " is abstract; bindings need an instantiable concrete type"}
		}
		if !concrete.AssignableTo(abstract) {
			return ConfigurationError{Op: "Bind", Detail: concrete.String() + " is not assignable to " + abstract.String()}
		}
		b.Concrete = concrete
	}
	return e.bindings.put(b, cfg.replace)
}

// Bound returns the binding registered for t, if any.
func (e *Engine) Bound(t reflect.Type) (Binding, bool) {
	return e.bindings.get(t)
}
