// Package profile loads declarative binding profiles: YAML documents that
// name abstract→concrete bindings by their reflect string forms and apply
// them to a resolution engine. Profiles keep per-suite wiring out of test
// code the way a config file keeps deployment wiring out of main.
//
//	bindings:
//	  - abstract: resolve_test.Repo
//	    concrete: "*resolve_test.SqlRepo"
//	    replace: true
//
// Type names are resolved against the engine's universe, so a profile can
// only bind what the suite has registered.
package profile

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/forgekit/forge/resolve"
)

// BindingSpec is one declarative binding entry.
type BindingSpec struct {
	// Abstract is the bound interface type's registered name.
	Abstract string `yaml:"abstract"`

	// Concrete is the realization's registered name, e.g. "*pkg.SqlRepo".
	Concrete string `yaml:"concrete"`

	// Replace overwrites an existing binding for the same abstract type.
	Replace bool `yaml:"replace,omitempty"`

	// Args fixes the constructor argument list (scalars only).
	Args []any `yaml:"args,omitempty"`
}

// Profile is a parsed binding profile.
type Profile struct {
	Bindings []BindingSpec `yaml:"bindings"`
}

// Issue is one structural problem found by Validate.
type Issue struct {
	// Index is the position of the offending binding entry.
	Index int

	// Field names the offending field, empty for entry-level issues.
	Field string

	// Msg describes the problem.
	Msg string
}

// String renders the issue as "bindings[i].field: msg".
func (i Issue) String() string {
	s := "bindings[" + strconv.Itoa(i.Index) + "]"
	if i.Field != "" {
		s += "." + i.Field
	}
	return s + ": " + i.Msg
}

// UnknownTypeError is returned by Apply when a profile names a type the
// universe has not registered.
type UnknownTypeError struct {
	// Name is the unresolvable type name.
	Name string
}

// Error implements the error interface.
func (e UnknownTypeError) Error() string {
	// Example: profile: unknown type "*pkg.SqlRepo"
	return "profile: unknown type " + strconv.Quote(e.Name)
}

// Parse decodes a profile from YAML.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile: parse: %w", err)
	}
	return &p, nil
}

// Load reads and parses a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks the profile structurally, without a universe: empty
// fields and duplicate abstract names (where the later entry does not
// request replace) are reported. A valid profile returns no issues.
func (p *Profile) Validate() []Issue {
	var issues []Issue
	seen := make(map[string]int)
	for i, b := range p.Bindings {
		if b.Abstract == "" {
			issues = append(issues, Issue{Index: i, Field: "abstract", Msg: "empty"})
		}
		if b.Concrete == "" {
			issues = append(issues, Issue{Index: i, Field: "concrete", Msg: "empty"})
		}
		if b.Abstract != "" {
			if prev, dup := seen[b.Abstract]; dup && !b.Replace {
				issues = append(issues, Issue{
					Index: i,
					Field: "abstract",
					Msg:   "duplicate of bindings[" + strconv.Itoa(prev) + "] without replace",
				})
			}
			seen[b.Abstract] = i
		}
	}
	return issues
}

// Apply registers every binding on the engine, resolving type names
// against its universe. The first failure stops application.
func (p *Profile) Apply(e *resolve.Engine) error {
	if issues := p.Validate(); len(issues) > 0 {
		return fmt.Errorf("profile: invalid: %s", issues[0])
	}
	u := e.Universe()
	for _, b := range p.Bindings {
		abstract, ok := u.Lookup(b.Abstract)
		if !ok {
			return UnknownTypeError{Name: b.Abstract}
		}
		concrete, ok := u.Lookup(b.Concrete)
		if !ok {
			return UnknownTypeError{Name: b.Concrete}
		}
		opts := make([]resolve.BindOption, 0, 2)
		if b.Replace {
			opts = append(opts, resolve.Replace())
		}
		if len(b.Args) > 0 {
			opts = append(opts, resolve.WithArgs(b.Args...))
		}
		if err := e.BindTypes(abstract, concrete, opts...); err != nil {
			return err
		}
	}
	return nil
}
