package serial

import "log/slog"

// Option configures a Session at construction.
type Option func(*Session)

// WithDriver sets the driver used to acquire the device. The default is the
// platform driver returned by LookupDriver("").
func WithDriver(d Driver) Option {
	return func(s *Session) {
		s.driver = d
	}
}

// WithLogger sets the logger for diagnostic output. Sessions log nothing by
// default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}
