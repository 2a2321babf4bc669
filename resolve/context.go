package resolve

import "reflect"

// resolutionContext is the per-call-tree state of one top-level resolution:
// the ordered stack of types currently under construction (the cycle
// guard) and the visibility the caller requested. It is threaded by
// reference through the recursion and discarded when the top-level call
// returns, which keeps the engine reentrant.
type resolutionContext struct {
	engine    *Engine
	nonPublic bool
	stack     []reflect.Type
}

func (rc *resolutionContext) active(t reflect.Type) bool {
	for _, s := range rc.stack {
		if s == t {
			return true
		}
	}
	return false
}

func (rc *resolutionContext) push(t reflect.Type) { rc.stack = append(rc.stack, t) }
func (rc *resolutionContext) pop()                { rc.stack = rc.stack[:len(rc.stack)-1] }

// resolve is the single recursive primitive every other component calls
// into: cycle guard, then binding lookup, then implicit defaults, then
// implementer scanning, then constructor selection, then injectable-member
// population.
func (rc *resolutionContext) resolve(t reflect.Type, args []any) (any, error) {
	e := rc.engine

	if rc.active(t) {
		ph := rc.placeholderFor(t)
		e.log.record(t, Decision{Kind: DecisionCycleBroken, Note: "placeholder substituted for type under construction"})
		e.logger.Warn().Str("type", t.String()).
			Msg("cycle broken with default placeholder")
		return ph, nil
	}

	rc.push(t)
	defer rc.pop()

	if b, ok := e.bindings.get(t); ok {
		return rc.resolveBound(t, b, args)
	}

	if t.Kind() == reflect.Interface && len(args) == 0 && !e.opts.strict {
		if def, ok := builtinDefault(t); ok {
			e.log.record(t, Decision{Kind: DecisionDefaultSubstitution, Note: "substituted " + reflect.TypeOf(def).String()})
			e.logger.Warn().Str("type", t.String()).
				Msg("implicit default substituted")
			return def, nil
		}
	}

	concrete, resolved, err := e.resolveConcreteType(t)
	if err != nil {
		return nil, err
	}
	if !resolved {
		// Zero implementers: the caller decides. An existing double is the
		// natural substitute for an interface collaborator; otherwise the
		// dependency stays nil and the gap is recorded.
		if rec, ok := e.doubles.get(t); ok {
			e.log.record(t, Decision{Kind: DecisionBinding, Note: "registered double substituted"})
			return rec.Instance, nil
		}
		e.log.record(t, Decision{Kind: DecisionUnresolved, Note: "no binding and no registered implementers"})
		e.logger.Debug().Str("type", t.String()).
			Msg("interface left unresolved")
		return nil, nil
	}

	return rc.construct(t, concrete, args)
}

func (rc *resolutionContext) resolveBound(t reflect.Type, b Binding, args []any) (any, error) {
	e := rc.engine
	if b.Factory != nil {
		inst, err := b.Factory(e)
		if err != nil {
			return nil, ConstructionError{Target: t.String(), Reason: "binding factory failed", Cause: err}
		}
		e.log.record(t, Decision{Kind: DecisionBinding, Binding: &b})
		return inst, nil
	}
	if len(args) == 0 {
		args = b.Args
	}
	inst, err := rc.construct(t, b.Concrete, args)
	if err != nil {
		return nil, err
	}
	e.log.record(t, Decision{Kind: DecisionBinding, Binding: &b})
	return inst, nil
}

// construct selects a constructor for the concrete type, invokes it, and
// runs injectable-member population on the result. The winning candidate
// is recorded against both the requested and the concrete type.
func (rc *resolutionContext) construct(requested, concrete reflect.Type, args []any) (any, error) {
	e := rc.engine

	var (
		inst any
		cand *ConstructorCandidate
		err  error
	)
	if len(args) > 0 {
		inst, cand, err = rc.buildExplicit(concrete, args)
	} else {
		inst, cand, err = rc.buildAuto(concrete)
	}
	if err != nil {
		return nil, err
	}

	rc.populateMembers(inst)

	e.log.record(concrete, Decision{Kind: DecisionConstructor, Constructor: cand})
	if requested != concrete {
		e.log.record(requested, Decision{Kind: DecisionConstructor, Constructor: cand})
	}
	e.logger.Debug().Str("type", requested.String()).
		Str("constructor", cand.String()).Msg("constructed")
	return inst, nil
}

// viableConstructors returns the registered constructors for concrete with
// the direct self-reference guard applied, falling back to the implicit
// zero-value constructor for constructor-less struct types.
func (rc *resolutionContext) viableConstructors(concrete reflect.Type) []*constructor {
	registered := rc.engine.universe.constructorsFor(concrete)
	var out []*constructor
	for _, c := range registered {
		if c.selfReferential() {
			rc.engine.log.record(concrete, Decision{
				Kind: DecisionDiagnostic,
				Note: "constructor " + c.name + " excluded: parameter of the constructed type itself",
			})
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 && len(registered) == 0 {
		if zc := zeroCandidateFor(concrete); zc != nil {
			out = append(out, zc)
		}
	}
	return out
}

func visible(ctors []*constructor, nonPublic bool) []*constructor {
	if nonPublic {
		return ctors
	}
	var out []*constructor
	for _, c := range ctors {
		if c.exported {
			out = append(out, c)
		}
	}
	return out
}

// buildExplicit implements explicit-arguments mode: the parameter prefix
// must match the supplied runtime types; parameters past the supplied
// arguments are materialized or zeroed per the engine's optional policy.
// When no public constructor matches, selection retries once including
// non-public ones.
func (rc *resolutionContext) buildExplicit(concrete reflect.Type, args []any) (any, *ConstructorCandidate, error) {
	e := rc.engine
	all := rc.viableConstructors(concrete)

	c := selectExplicit(visible(all, rc.nonPublic), args)
	if c == nil && !rc.nonPublic {
		if c = selectExplicit(all, args); c != nil {
			e.log.record(concrete, Decision{Kind: DecisionDiagnostic, Note: "escalated to non-public constructor " + c.name})
		}
	}
	if c == nil {
		return nil, nil, ConstructionError{Target: concrete.String(), Reason: "no constructor matches the supplied arguments"}
	}

	vals := make([]reflect.Value, len(c.params))
	chosen := make([]any, len(c.params))
	for i, p := range c.params {
		if i < len(args) {
			vals[i] = argValue(args[i], p)
			chosen[i] = args[i]
			continue
		}
		if e.opts.materializeOptional {
			v, err := rc.resolveParam(p)
			if err != nil {
				return nil, nil, err
			}
			vals[i] = v
			if v.CanInterface() {
				chosen[i] = v.Interface()
			}
			continue
		}
		vals[i] = reflect.Zero(p)
	}

	inst, err := c.invoke(vals)
	if err != nil {
		return nil, nil, ConstructionError{Target: concrete.String(), Reason: "constructor invocation failed", Cause: err}
	}
	return inst, c.candidate(chosen), nil
}

// buildAuto implements auto-resolve mode. Candidates are tried ascending by
// parameter count and the last success wins, so the most-parameterized
// constructor that both resolves all arguments and invokes cleanly is the
// winner. Every skipped candidate leaves a diagnostic entry.
func (rc *resolutionContext) buildAuto(concrete reflect.Type) (any, *ConstructorCandidate, error) {
	e := rc.engine
	all := rc.viableConstructors(concrete)

	pool := visible(all, rc.nonPublic)
	if len(pool) == 0 && len(all) > 0 {
		e.log.record(concrete, Decision{Kind: DecisionDiagnostic, Note: "no public constructor; escalated to non-public"})
		pool = all
	}
	if len(pool) == 0 {
		return nil, nil, ConstructionError{Target: concrete.String(), Reason: "no viable constructor"}
	}

	ordered := orderAscending(pool)

	if e.opts.strict {
		var withParams []string
		for _, c := range ordered {
			if len(c.params) > 0 {
				withParams = append(withParams, c.name)
			}
		}
		if len(withParams) > 1 {
			return nil, nil, AmbiguousResolutionError{Target: concrete.String(), Candidates: withParams}
		}
	}

	var (
		best          any
		bestCand      *ConstructorCandidate
		firstInvoke   error
		resolveFailed bool
	)
	for _, c := range ordered {
		vals := make([]reflect.Value, len(c.params))
		chosen := make([]any, len(c.params))
		skip := false
		for i, p := range c.params {
			v, err := rc.resolveParam(p)
			if err != nil {
				e.log.record(concrete, Decision{
					Kind: DecisionDiagnostic,
					Note: "candidate " + c.name + " skipped: parameter " + p.String() + " failed to resolve",
					Err:  err,
				})
				resolveFailed = true
				skip = true
				break
			}
			vals[i] = v
			if v.CanInterface() {
				chosen[i] = v.Interface()
			}
		}
		if skip {
			continue
		}

		inst, err := c.invoke(vals)
		if err != nil {
			if firstInvoke == nil {
				firstInvoke = err
			}
			e.log.record(concrete, Decision{
				Kind: DecisionDiagnostic,
				Note: "candidate " + c.name + " failed invocation",
				Err:  err,
			})
			continue
		}
		best, bestCand = inst, c.candidate(chosen)
	}

	if bestCand == nil {
		if firstInvoke != nil {
			return nil, nil, ConstructionError{Target: concrete.String(), Reason: "all constructor candidates failed", Cause: firstInvoke}
		}
		reason := "no viable constructor"
		if resolveFailed {
			reason = "no constructor candidate could resolve its arguments"
		}
		return nil, nil, ConstructionError{Target: concrete.String(), Reason: reason}
	}
	return best, bestCand, nil
}

// resolveParam produces a value for one constructor parameter. Interfaces,
// pointers, structs, and collection types go through the recursive entry
// point; plain scalars become their zero value without touching the log.
func (rc *resolutionContext) resolveParam(p reflect.Type) (reflect.Value, error) {
	switch p.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Struct:
		v, err := rc.resolve(p, nil)
		if err != nil {
			return reflect.Value{}, err
		}
		if v == nil {
			return reflect.Zero(p), nil
		}
		return reflect.ValueOf(v), nil
	case reflect.Slice:
		return reflect.MakeSlice(p, 0, 0), nil
	case reflect.Map:
		return reflect.MakeMap(p), nil
	default:
		return reflect.Zero(p), nil
	}
}

// populateMembers resolves tagged, unset, exported fields of a freshly
// built pointer-to-struct instance through the same cycle-guarded entry
// point. Controlled by the inner-resolution switch.
func (rc *resolutionContext) populateMembers(inst any) {
	e := rc.engine
	if !e.opts.inner || inst == nil {
		return
	}
	v := reflect.ValueOf(inst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	sv := v.Elem()
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Tag.Get("forge") != "inject" {
			continue
		}
		fk := f.Type.Kind()
		if fk != reflect.Interface && fk != reflect.Pointer {
			continue
		}
		fv := sv.Field(i)
		if !fv.IsZero() {
			continue
		}
		val, err := rc.resolve(f.Type, nil)
		if err != nil {
			e.log.record(st, Decision{
				Kind: DecisionDiagnostic,
				Note: "injectable field " + f.Name + " failed to resolve",
				Err:  err,
			})
			continue
		}
		if val != nil {
			fv.Set(reflect.ValueOf(val))
		}
	}
}

// placeholderFor returns the benign default substituted when t is already
// under construction: a registered double when one exists, an empty object
// for reference-like types, the zero value otherwise.
func (rc *resolutionContext) placeholderFor(t reflect.Type) any {
	if rec, ok := rc.engine.doubles.get(t); ok {
		return rec.Instance
	}
	switch t.Kind() {
	case reflect.Interface:
		return nil
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			return reflect.New(t.Elem()).Interface()
		}
		return nil
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0).Interface()
	case reflect.Map:
		return reflect.MakeMap(t).Interface()
	default:
		return reflect.Zero(t).Interface()
	}
}
