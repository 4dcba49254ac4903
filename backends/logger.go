package backends

import "github.com/rs/zerolog"

var log = zerolog.Nop()

// SetLogger sets the logger used by the resolver and by drivers via Logger.
func SetLogger(l zerolog.Logger) {
	log = l
}

// Logger returns the package logger tagged with a component name
func Logger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
