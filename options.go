package carrot

import (
	"github.com/ajiwo/carrot/backends"
	"github.com/rs/zerolog"
)

// Option is a functional option for Init
type Option func(*options) error

type options struct {
	settings    backends.Settings
	settingsSet bool
	logger      *zerolog.Logger
}

// WithSettings supplies the host configuration directly. A nil value means
// no host configuration is available.
func WithSettings(settings backends.Settings) Option {
	return func(o *options) error {
		o.settings = settings
		o.settingsSet = true
		return nil
	}
}

// WithConfigFile loads host configuration from a file instead of the default search path
func WithConfigFile(path string) Option {
	return func(o *options) error {
		v, err := NewViper(path)
		if err != nil {
			return err
		}
		o.settings = v
		o.settingsSet = true
		return nil
	}
}

// WithLogger routes resolver and driver logs to l
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = &l
		return nil
	}
}

// hostSettings returns the settings to select the default backend from.
// Without WithSettings or WithConfigFile the default viper search path and
// CARROT_* environment are used; an unreadable default config counts as no
// host configuration.
func (o *options) hostSettings() backends.Settings {
	if o.settingsSet {
		return o.settings
	}
	v, err := NewViper("")
	if err != nil {
		return nil
	}
	return v
}
