package resolve

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DecisionKind classifies a resolution log entry.
type DecisionKind int

const (
	// DecisionBinding records that an explicit binding chose the concrete
	// type (or produced the instance via its factory).
	DecisionBinding DecisionKind = iota

	// DecisionConstructor records the constructor candidate that built the
	// instance.
	DecisionConstructor

	// DecisionDefaultSubstitution records an implicit built-in default
	// (e.g. context.Background for context.Context). Warning level.
	DecisionDefaultSubstitution

	// DecisionCycleBroken records that a type already under construction
	// received a benign placeholder. This is a deliberate termination
	// policy, not an error.
	DecisionCycleBroken

	// DecisionUnresolved records that an interface had no binding and no
	// implementers, so the caller received a nil value.
	DecisionUnresolved

	// DecisionDiagnostic records a swallowed internal failure: a candidate
	// constructor that failed to resolve or invoke, or a public→non-public
	// escalation. Never an outcome by itself.
	DecisionDiagnostic
)

// String returns the stable name of the kind.
func (k DecisionKind) String() string {
	switch k {
	case DecisionBinding:
		return "binding"
	case DecisionConstructor:
		return "constructor"
	case DecisionDefaultSubstitution:
		return "default-substitution"
	case DecisionCycleBroken:
		return "cycle-broken"
	case DecisionUnresolved:
		return "unresolved"
	case DecisionDiagnostic:
		return "diagnostic"
	default:
		return "unknown"
	}
}

// Decision is what the engine decided for one type at one point in time.
// Exactly one of Binding/Constructor is set for their respective kinds.
type Decision struct {
	Kind        DecisionKind
	Binding     *Binding
	Constructor *ConstructorCandidate

	// Note is a short human-readable detail ("substituted io.Discard",
	// "candidate NewRepo failed invocation", ...).
	Note string

	// Err carries the swallowed failure for diagnostic entries.
	Err error
}

func (d Decision) detail() string {
	switch {
	case d.Constructor != nil:
		return d.Constructor.String()
	case d.Binding != nil:
		return d.Binding.String()
	default:
		return d.Note
	}
}

// LogEntry is one append-only record of a decision made for a type.
type LogEntry struct {
	// ID is a unique identifier for cross-referencing diagnostic output.
	ID uuid.UUID

	// Seq is the entry's position in insertion order, starting at 0.
	Seq int

	// Time is when the decision was recorded.
	Time time.Time

	// Type is the type the decision applies to.
	Type reflect.Type

	// Decision is what was decided.
	Decision Decision
}

// ResolutionLog is the append-only history of binding and constructor
// decisions, keyed by type. Multiple entries per type are kept (history,
// not last-write-wins) so a caller can recover every way a type was ever
// resolved and pick the most recent. Not safe for concurrent use, like the
// engine that owns it.
type ResolutionLog struct {
	entries []LogEntry
	byType  map[reflect.Type][]int
}

func newResolutionLog() *ResolutionLog {
	return &ResolutionLog{byType: make(map[reflect.Type][]int)}
}

func (l *ResolutionLog) record(t reflect.Type, d Decision) LogEntry {
	e := LogEntry{
		ID:       uuid.New(),
		Seq:      len(l.entries),
		Time:     time.Now(),
		Type:     t,
		Decision: d,
	}
	l.entries = append(l.entries, e)
	l.byType[t] = append(l.byType[t], e.Seq)
	return e
}

// Query returns every decision recorded for t, in insertion order.
func (l *ResolutionLog) Query(t reflect.Type) []LogEntry {
	idx := l.byType[t]
	if len(idx) == 0 {
		return nil
	}
	out := make([]LogEntry, len(idx))
	for i, n := range idx {
		out[i] = l.entries[n]
	}
	return out
}

// QueryFor is the generic form of Query.
func QueryFor[T any](l *ResolutionLog) []LogEntry {
	return l.Query(typeFor[T]())
}

// Latest returns the most recent decision for t, if any. Test-lifecycle
// helpers use it to recover the constructor that actually built the system
// under test.
func (l *ResolutionLog) Latest(t reflect.Type) (LogEntry, bool) {
	idx := l.byType[t]
	if len(idx) == 0 {
		return LogEntry{}, false
	}
	return l.entries[idx[len(idx)-1]], true
}

// LatestFor is the generic form of Latest.
func LatestFor[T any](l *ResolutionLog) (LogEntry, bool) {
	return l.Latest(typeFor[T]())
}

// LatestConstructor returns the most recent constructor decision for t,
// skipping diagnostics and placeholder entries.
func (l *ResolutionLog) LatestConstructor(t reflect.Type) (*ConstructorCandidate, bool) {
	idx := l.byType[t]
	for i := len(idx) - 1; i >= 0; i-- {
		if c := l.entries[idx[i]].Decision.Constructor; c != nil {
			return c, true
		}
	}
	return nil, false
}

// All returns the full history in insertion order.
func (l *ResolutionLog) All() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *ResolutionLog) Len() int { return len(l.entries) }

// Dump renders the log as deterministic text, one entry per line, without
// ids or timestamps, suitable for golden-file comparison.
func (l *ResolutionLog) Dump() string {
	var b strings.Builder
	for _, e := range l.entries {
		b.WriteString(e.Type.String())
		b.WriteString(" ")
		b.WriteString(e.Decision.Kind.String())
		if d := e.Decision.detail(); d != "" {
			b.WriteString(" ")
			b.WriteString(d)
		}
		b.WriteString("\n")
	}
	return b.String()
}
