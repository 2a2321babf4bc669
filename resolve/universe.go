package resolve

import (
	"reflect"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Universe is the explicit registry of types the engine is allowed to
// inspect: concrete candidates for implementer scanning, interfaces that
// participate in domination checks, and constructor functions per produced
// type.
//
// Go offers no ambient assembly scan, so the "automatic" promise of the
// engine is deliberately "explicit but declarative": a test (or a shared
// TestMain) registers its type world once and every engine built on top of
// it resolves against exactly that world. Registration order is preserved
// so repeated scans over the same universe are deterministic.
//
// A Universe may be shared between engines; it must be fully populated
// before the first resolution and not mutated concurrently.
type Universe struct {
	concrete     []reflect.Type
	concreteSet  map[reflect.Type]struct{}
	interfaces   []reflect.Type
	interfaceSet map[reflect.Type]struct{}
	ctors        map[reflect.Type][]*constructor
	byName       map[string]reflect.Type
}

// NewUniverse returns an empty type universe.
func NewUniverse() *Universe {
	return &Universe{
		concreteSet:  make(map[reflect.Type]struct{}),
		interfaceSet: make(map[reflect.Type]struct{}),
		ctors:        make(map[reflect.Type][]*constructor),
		byName:       make(map[string]reflect.Type),
	}
}

// RegisterType records the dynamic type of sample as a concrete candidate
// for implementer scanning. Pointer samples register the pointer type, so
// method sets with pointer receivers are honored:
//
//	u.RegisterType((*SqlRepo)(nil))
func (u *Universe) RegisterType(sample any) error {
	if sample == nil {
		return ErrNilInstance
	}
	return u.registerConcrete(reflect.TypeOf(sample))
}

// RegisterInterface records T (which must be an interface type) for
// implementer scanning and interface-domination checks.
func RegisterInterface[T any](u *Universe) error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Interface {
		return ConfigurationError{Op: "RegisterInterface", Detail: t.String() + " is not an interface"}
	}
	if _, ok := u.interfaceSet[t]; ok {
		return nil
	}
	u.interfaceSet[t] = struct{}{}
	u.interfaces = append(u.interfaces, t)
	u.byName[t.String()] = t
	return nil
}

// RegisterConstructor records fn as a constructor for the type of its first
// result. fn must be a function returning either (T) or (T, error), and T
// must be instantiable. The produced type is registered as a concrete
// candidate as a side effect.
//
// Visibility of the constructor (the "non-public" notion used by the
// selector) is derived from the function's name: an unexported final name
// segment, including the synthetic names of closures, counts as non-public.
func (u *Universe) RegisterConstructor(fn any) error {
	c, err := newConstructor(fn)
	if err != nil {
		return err
	}
	if err := u.registerConcrete(c.produces); err != nil {
		return err
	}
	u.ctors[c.produces] = append(u.ctors[c.produces], c)
	return nil
}

func (u *Universe) registerConcrete(t reflect.Type) error {
	if t.Kind() == reflect.Interface {
		return ConfigurationError{Op: "RegisterType", Detail: t.String() + " is an interface, not a concrete type"}
	}
	if _, ok := u.concreteSet[t]; ok {
		return nil
	}
	u.concreteSet[t] = struct{}{}
	u.concrete = append(u.concrete, t)
	u.byName[t.String()] = t
	return nil
}

// Lookup maps a registered type back from its reflect string form
// (e.g. "*pkg.SqlRepo"). Used by declarative binding profiles.
func (u *Universe) Lookup(name string) (reflect.Type, bool) {
	t, ok := u.byName[name]
	return t, ok
}

// Known reports whether t has been registered, either as a concrete
// candidate or as an interface.
func (u *Universe) Known(t reflect.Type) bool {
	if _, ok := u.concreteSet[t]; ok {
		return true
	}
	_, ok := u.interfaceSet[t]
	return ok
}

// constructorsFor returns the registered constructors producing exactly t,
// in registration order.
func (u *Universe) constructorsFor(t reflect.Type) []*constructor {
	return u.ctors[t]
}

// implementersOf scans registered concrete types for implementers of the
// interface t, in registration order. Registered interfaces that extend t
// are excluded, and so is any concrete type dominated by one of those
// sub-interfaces: a type that satisfies the narrower contract belongs to
// the narrower interface's candidate set, not t's.
func (u *Universe) implementersOf(t reflect.Type) []reflect.Type {
	var subs []reflect.Type
	for _, it := range u.interfaces {
		if it != t && it.Implements(t) {
			subs = append(subs, it)
		}
	}

	var out []reflect.Type
	for _, c := range u.concrete {
		if !c.Implements(t) {
			continue
		}
		dominated := false
		for _, sub := range subs {
			if c.Implements(sub) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, c)
		}
	}
	return out
}

// interfacesImplementedBy returns the registered interfaces c satisfies.
func (u *Universe) interfacesImplementedBy(c reflect.Type) []reflect.Type {
	var out []reflect.Type
	for _, it := range u.interfaces {
		if c.Implements(it) {
			out = append(out, it)
		}
	}
	return out
}

// funcBaseName returns the final path segment of a function's runtime name,
// e.g. "github.com/acme/app.NewRepo" -> "NewRepo".
func funcBaseName(fn reflect.Value) string {
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return ""
	}
	name := rf.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// exportedName reports whether name starts with an upper-case rune.
func exportedName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

// exportedType reports whether t (or its pointee) has an exported name.
// Unnamed types count as exported.
func exportedType(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		return true
	}
	return exportedName(name)
}

// simpleName returns t's (or its pointee's) declared name.
func simpleName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// pkgPath returns t's (or its pointee's) package path.
func pkgPath(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath()
}
