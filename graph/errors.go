package graph

import "github.com/pkg/errors"

// ConfigError reports a graph configuration that cannot be wired: an
// out-of-bounds port, a reference to an undeclared node or distribution.
// It wraps the offending descriptor via github.com/pkg/errors so callers
// get a stack trace alongside the message, matching the rest of this
// module's error-handling idiom.
type ConfigError struct {
	cause error
}

func configErrorf(format string, args ...any) error {
	return &ConfigError{cause: errors.Errorf(format, args...)}
}

func wrapConfigError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ConfigError{cause: errors.Wrap(err, msg)}
}

func (e *ConfigError) Error() string { return e.cause.Error() }
func (e *ConfigError) Unwrap() error { return e.cause }
