package resolve

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine resolves types against one universe: it maps abstract types to
// concrete realizations, selects and invokes constructors, caches test
// doubles, and records every decision in its resolution log.
//
// An engine owns its binding table, double registry, and log exclusively
// for its lifetime. It is single-threaded and purely synchronous by
// design; the intended usage is one engine per test case, so none of the
// mutable state is guarded by locks. Concurrent tests each build their
// own engine (sharing a read-only universe is fine).
type Engine struct {
	id       uuid.UUID
	universe *Universe
	bindings *bindingTable
	doubles  *doubleRegistry
	log      *ResolutionLog
	opts     options
	logger   zerolog.Logger
}

// New builds an engine over u.
func New(u *Universe, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{
		id:       uuid.New(),
		universe: u,
		bindings: newBindingTable(),
		doubles:  newDoubleRegistry(),
		log:      newResolutionLog(),
		opts:     o,
	}
	e.logger = o.logger.With().Str("engine", e.id.String()).Logger()
	return e
}

// ID returns the engine's unique fingerprint, included in its diagnostic
// log events.
func (e *Engine) ID() uuid.UUID { return e.id }

// Universe returns the type universe the engine resolves against.
func (e *Engine) Universe() *Universe { return e.universe }

// Log returns the engine's append-only resolution log.
func (e *Engine) Log() *ResolutionLog { return e.log }

// ResolveType is the non-generic resolution entry point: it produces an
// instance assignable to t, using explicit args for constructor matching
// when given. The result may be nil (with a nil error) for an interface
// with no binding, no implementers, and no registered double.
func (e *Engine) ResolveType(t reflect.Type, args ...any) (any, error) {
	if e == nil {
		return nil, ErrNilEngine
	}
	rc := &resolutionContext{engine: e, nonPublic: e.opts.nonPublic}
	return rc.resolve(t, args)
}

// resolveTyped backs the generic entry points.
func resolveTyped[T any](e *Engine, nonPublic bool, args []any) (T, error) {
	var zero T
	if e == nil {
		return zero, ErrNilEngine
	}
	rc := &resolutionContext{engine: e, nonPublic: nonPublic || e.opts.nonPublic}
	inst, err := rc.resolve(typeFor[T](), args)
	if err != nil {
		return zero, err
	}
	return castInstance[T](inst)
}

// Resolve produces an instance of T, resolving its dependencies
// recursively. Explicit args, when given, constrain constructor selection
// to candidates matching their runtime types.
//
//	svc, err := resolve.Resolve[*CheckoutService](e)
func Resolve[T any](e *Engine, args ...any) (T, error) {
	return resolveTyped[T](e, false, args)
}

// ResolveNonPublic is Resolve with non-public constructors considered from
// the start rather than only as a fallback.
func ResolveNonPublic[T any](e *Engine, args ...any) (T, error) {
	return resolveTyped[T](e, true, args)
}

// typeFor returns the reflect.Type of T, working for interface types too.
func typeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
