package internal

import (
	"io"

	"github.com/starford/namesake/internal/noteservice"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	version   string
	logWriter io.Writer
	notifier  noteservice.Notifier
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

// WithLogWriter redirects the JSON logs. Stdout is used by default.
func WithLogWriter(w io.Writer) Option {
	return func(a *application) {
		a.logWriter = w
	}
}

// WithNotifier adds a sink for user notices next to the mode's default one.
func WithNotifier(n noteservice.Notifier) Option {
	return func(a *application) {
		a.notifier = n
	}
}
