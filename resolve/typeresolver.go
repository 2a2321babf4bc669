package resolve

import (
	"bytes"
	"context"
	"io"
	"reflect"
)

// builtinDefault returns a ready-made instance for a handful of stdlib
// interfaces a dependency graph almost always reaches: contexts, writers,
// readers, closers. These substitutions are implicit (disabled in strict
// mode) and are recorded at warning level when used.
func builtinDefault(t reflect.Type) (any, bool) {
	switch t {
	case reflect.TypeOf((*context.Context)(nil)).Elem():
		return context.Background(), true
	case reflect.TypeOf((*io.Writer)(nil)).Elem():
		return io.Discard, true
	case reflect.TypeOf((*io.Reader)(nil)).Elem():
		return bytes.NewReader(nil), true
	case reflect.TypeOf((*io.ReadCloser)(nil)).Elem():
		return io.NopCloser(bytes.NewReader(nil)), true
	case reflect.TypeOf((*io.Closer)(nil)).Elem():
		return io.NopCloser(bytes.NewReader(nil)), true
	default:
		return nil, false
	}
}

// enumerableShape reports whether the interface t looks like a sequence:
// it declares at least one method whose results include a slice. Used as
// the final tie-break, where picking any survivor is acceptable.
func enumerableShape(t reflect.Type) bool {
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		for j := 0; j < m.Type.NumOut(); j++ {
			if m.Type.Out(j).Kind() == reflect.Slice {
				return true
			}
		}
	}
	return false
}

// narrow filters candidates by pred; a filter that would eliminate every
// candidate does not apply.
func narrow(cands []reflect.Type, pred func(reflect.Type) bool) []reflect.Type {
	var kept []reflect.Type
	for _, c := range cands {
		if pred(c) {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return cands
	}
	return kept
}

// resolveConcreteType maps an abstract type to a concrete realization. It
// never fails for a type with zero implementers; it returns t itself with
// resolved=false so the caller decides. Irreducible ties surface as
// AmbiguousResolutionError.
func (e *Engine) resolveConcreteType(t reflect.Type) (concrete reflect.Type, resolved bool, err error) {
	if t.Kind() != reflect.Interface {
		return t, true, nil
	}
	if b, ok := e.bindings.get(t); ok && b.Concrete != nil {
		return b.Concrete, true, nil
	}

	// Zero-method interfaces match every registered type; scanning them is
	// meaningless, so they stay unresolved.
	if t.NumMethod() == 0 {
		return t, false, nil
	}

	cands := e.universe.implementersOf(t)
	switch len(cands) {
	case 0:
		return t, false, nil
	case 1:
		return cands[0], true, nil
	}

	// Tie-break ladder: each rule keeps the candidates it prefers when any
	// survive it, and resolution stops at the first unique survivor.
	rules := []func(reflect.Type) bool{
		func(c reflect.Type) bool { return pkgPath(c) == t.PkgPath() },
		func(c reflect.Type) bool { return simpleName(c) == t.Name() },
		exportedType,
		func(c reflect.Type) bool {
			impl := e.universe.interfacesImplementedBy(c)
			return len(impl) == 1 && impl[0] == t
		},
	}
	for _, rule := range rules {
		cands = narrow(cands, rule)
		if len(cands) == 1 {
			return cands[0], true, nil
		}
	}

	if enumerableShape(t) {
		return cands[0], true, nil
	}

	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.String()
	}
	return t, false, AmbiguousResolutionError{Target: t.String(), Candidates: names}
}
