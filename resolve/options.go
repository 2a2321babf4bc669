package resolve

import "github.com/rs/zerolog"

type options struct {
	strict              bool
	inner               bool
	materializeOptional bool
	nonPublic           bool
	logger              zerolog.Logger
}

func defaultOptions() options {
	return options{
		inner:  true,
		logger: zerolog.Nop(),
	}
}

// Option customizes a new engine.
type Option func(*options)

// WithStrict disables implicit default substitutions and best-guess
// constructor selection: built-in stdlib defaults are not substituted, and
// a type with more than one parameterized constructor fails with
// AmbiguousResolutionError instead of being guessed at.
func WithStrict() Option {
	return func(o *options) { o.strict = true }
}

// WithInnerResolution toggles injectable-member population on freshly
// constructed instances. On by default.
func WithInnerResolution(enabled bool) Option {
	return func(o *options) { o.inner = enabled }
}

// WithOptionalMaterialization makes explicit-arguments mode resolve the
// parameters past the supplied arguments instead of zeroing them.
func WithOptionalMaterialization() Option {
	return func(o *options) { o.materializeOptional = true }
}

// WithNonPublicAccess lets every resolution consider non-public
// constructors from the start instead of only after public selection
// fails.
func WithNonPublicAccess() Option {
	return func(o *options) { o.nonPublic = true }
}

// WithLogger attaches a diagnostic logger. The engine emits warn events
// for implicit substitutions and broken cycles and debug events for chosen
// constructors; the default is a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}
