package resolve

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrNotFunction is returned when a registered constructor is not a
	// function value.
	ErrNotFunction = errors.New("resolve: constructor must be a function")

	// ErrNilInstance is returned when a nil instance is added to the double
	// registry or registered as a concrete sample.
	ErrNilInstance = errors.New("resolve: nil instance")

	// ErrNilEngine is returned by generic helpers applied to a nil engine.
	ErrNilEngine = errors.New("resolve: nil engine")
)

// ConfigurationError reports an invalid registration: a non-assignable
// binding, an abstract concrete type, a constructor with no result, or a
// conflicting registration without replace. It is always surfaced
// immediately and never retried.
type ConfigurationError struct {
	// Op is the registration operation that failed, e.g. "Bind".
	Op string

	// Detail names the types involved and what was wrong with them.
	Detail string
}

// Error implements the error interface.
func (e ConfigurationError) Error() string {
	// Example: resolve: Bind: *SqlRepo is not assignable to Repo
	return "resolve: " + e.Op + ": " + e.Detail
}

// AmbiguousResolutionError reports that more than one equally valid concrete
// type or constructor survived every tie-break. Candidates carries the full
// survivor list so the caller can add an explicit binding.
type AmbiguousResolutionError struct {
	// Target is the string form of the type being resolved.
	Target string

	// Candidates are the surviving type or constructor names.
	Candidates []string
}

// Error implements the error interface.
func (e AmbiguousResolutionError) Error() string {
	// Example: resolve: ambiguous resolution for "pkg.Repo": [*pkg.SqlRepo *pkg.MemRepo]
	return "resolve: ambiguous resolution for " + strconv.Quote(e.Target) +
		": [" + strings.Join(e.Candidates, " ") + "]"
}

// ConstructionError reports that no viable constructor exists for a type or
// that every candidate failed invocation. Cause, when set, is the most
// recent invocation failure.
type ConstructionError struct {
	// Target is the string form of the type under construction.
	Target string

	// Reason is a short description of why construction failed.
	Reason string

	// Cause is the underlying invocation failure, if any.
	Cause error
}

// Error implements the error interface.
func (e ConstructionError) Error() string {
	// Example: resolve: cannot construct "pkg.Widget": no viable constructor
	msg := "resolve: cannot construct " + strconv.Quote(e.Target) + ": " + e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the invocation cause to errors.Is/As.
func (e ConstructionError) Unwrap() error { return e.Cause }

// DoubleConflictError is returned when the double registry already holds an
// entry for the type and overwrite was not requested.
type DoubleConflictError struct {
	// Target is the string form of the conflicting type.
	Target string
}

// Error implements the error interface.
func (e DoubleConflictError) Error() string {
	// Example: resolve: double already registered for "pkg.Repo"
	return "resolve: double already registered for " + strconv.Quote(e.Target)
}

// NotRegisteredError is returned when a required double or a profile type
// name is absent.
type NotRegisteredError struct {
	// Target is the missing type name.
	Target string
}

// Error implements the error interface.
func (e NotRegisteredError) Error() string {
	// Example: resolve: "pkg.Repo" is not registered
	return "resolve: " + strconv.Quote(e.Target) + " is not registered"
}
