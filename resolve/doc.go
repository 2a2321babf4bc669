// Package resolve automatically produces usable instances of arbitrary
// types for tests: real objects built from their own registered
// constructors, or doubles standing in for collaborators, with every
// constructor parameter resolved recursively and cyclic graphs terminated
// deterministically.
//
// Go has no ambient assembly scan, so the type world is explicit: a test
// registers its interfaces, concrete types, and constructors once in a
// Universe, then builds one Engine per test case on top of it.
//
//	u := resolve.NewUniverse()
//	_ = resolve.RegisterInterface[Repo](u)
//	_ = u.RegisterConstructor(NewSqlRepo)        // func(...) *SqlRepo
//	_ = u.RegisterConstructor(NewCheckout)       // func(Repo) *CheckoutService
//
//	e := resolve.New(u)
//	svc, err := resolve.Resolve[*CheckoutService](e)
//
// Resolution is best-effort test-time convenience, not production DI: when
// several implementations or constructors are equally valid the engine
// makes a deterministic, documented choice or fails with
// AmbiguousResolutionError naming every survivor, and every decision —
// including swallowed best-guess failures — lands in the engine's
// ResolutionLog for post-hoc inspection.
//
// Strictness, member injection, optional-parameter materialization,
// non-public constructor access, and diagnostic logging are configured
// with functional options on New.
package resolve
