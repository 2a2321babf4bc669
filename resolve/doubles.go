package resolve

import "reflect"

// DoubleRecord is the registry's entry for one type: the substitute (or
// real) instance standing in for that type in the current test, and
// whether it was produced with non-public access.
type DoubleRecord struct {
	Type      reflect.Type
	Instance  any
	NonPublic bool
}

// doubleRegistry caches one double per type per engine. At most one record
// per type exists at any time; records are mutated in place on overwrite
// and removed only through the explicit removal API.
type doubleRegistry struct {
	records map[reflect.Type]*DoubleRecord
	order   []reflect.Type
}

func newDoubleRegistry() *doubleRegistry {
	return &doubleRegistry{records: make(map[reflect.Type]*DoubleRecord)}
}

func (r *doubleRegistry) get(t reflect.Type) (*DoubleRecord, bool) {
	rec, ok := r.records[t]
	return rec, ok
}

func (r *doubleRegistry) put(t reflect.Type, instance any, nonPublic, overwrite bool) error {
	if rec, ok := r.records[t]; ok {
		if !overwrite {
			return DoubleConflictError{Target: t.String()}
		}
		rec.Instance = instance
		rec.NonPublic = nonPublic
		return nil
	}
	r.records[t] = &DoubleRecord{Type: t, Instance: instance, NonPublic: nonPublic}
	r.order = append(r.order, t)
	return nil
}

func (r *doubleRegistry) remove(t reflect.Type) bool {
	if _, ok := r.records[t]; !ok {
		return false
	}
	delete(r.records, t)
	for i, o := range r.order {
		if o == t {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Double returns the engine's double for T, creating it through the
// resolution entry point on first use. Two calls with no intervening
// mutation return the identical instance.
func Double[T any](e *Engine, args ...any) (T, error) {
	var zero T
	if e == nil {
		return zero, ErrNilEngine
	}
	t := typeFor[T]()
	if rec, ok := e.doubles.get(t); ok {
		return castInstance[T](rec.Instance)
	}
	inst, err := e.ResolveType(t, args...)
	if err != nil {
		return zero, err
	}
	if err := e.doubles.put(t, inst, e.opts.nonPublic, false); err != nil {
		return zero, err
	}
	return castInstance[T](inst)
}

// AddDouble registers instance as the double for T. It fails with
// DoubleConflictError when a record exists and overwrite is false.
func AddDouble[T any](e *Engine, instance T, overwrite bool) error {
	if e == nil {
		return ErrNilEngine
	}
	return e.doubles.put(typeFor[T](), instance, false, overwrite)
}

// HasDouble reports whether the registry holds a record for T.
func HasDouble[T any](e *Engine) bool {
	if e == nil {
		return false
	}
	_, ok := e.doubles.get(typeFor[T]())
	return ok
}

// RequiredDouble returns the registered double for T or fails with
// NotRegisteredError. It never creates.
func RequiredDouble[T any](e *Engine) (T, error) {
	var zero T
	if e == nil {
		return zero, ErrNilEngine
	}
	t := typeFor[T]()
	rec, ok := e.doubles.get(t)
	if !ok {
		return zero, NotRegisteredError{Target: t.String()}
	}
	return castInstance[T](rec.Instance)
}

// RemoveDouble deletes the record for T, reporting whether one existed.
func RemoveDouble[T any](e *Engine) bool {
	if e == nil {
		return false
	}
	return e.doubles.remove(typeFor[T]())
}

func castInstance[T any](inst any) (T, error) {
	var zero T
	if inst == nil {
		return zero, nil
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, ConstructionError{
			Target: typeFor[T]().String(),
			Reason: "resolved instance has type " + reflect.TypeOf(inst).String(),
		}
	}
	return typed, nil
}
