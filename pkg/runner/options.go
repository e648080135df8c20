package runner

import (
	"io"
	"log/slog"
)

// Option defines a functional option for configuring the Driver.
type Option func(*Driver)

// WithIO sets the streams the protocol runs on. Nil keeps the default for
// that side.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(d *Driver) {
		if in != nil {
			d.in = in
		}
		if out != nil {
			d.out = out
		}
	}
}

// WithLogger configures the structured logger for session diagnostics.
// Protocol output is never written through it.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithInterceptor configures the action policy middleware.
func WithInterceptor(interceptor Interceptor) Option {
	return func(d *Driver) {
		if interceptor != nil {
			d.intercept = interceptor
		}
	}
}
