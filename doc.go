// Package forge builds usable instances of arbitrary types inside test
// suites: real objects constructed through their own registered
// constructors, or test doubles standing in for collaborators, with every
// dependency of the requested type resolved recursively.
//
// The repository is organized as:
//
//   - resolve: the resolution engine (binding table, type resolver,
//     constructor selector, cycle guard, double registry, resolution log)
//   - profile: declarative YAML binding profiles applied to an engine
//   - cmd/forgelint: structural linter for profile files
//   - examples/*: runnable examples
//
// The engine never promises the semantically correct choice when several
// implementations or constructors are equally valid; it promises a
// deterministic, documented choice or an explicit ambiguity failure, with
// every decision (including swallowed best-guess failures) recorded in a
// queryable resolution log.
//
// Start with the resolve package docs and examples/basic for end-to-end
// wiring style.
//
// Import
//
//	"github.com/forgekit/forge/resolve"
package forge
