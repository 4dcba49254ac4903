package backends

import (
	"reflect"
	"strings"
	"sync"
)

const (
	// FallbackBackend is used when host configuration supplies no override
	FallbackBackend = "pyamqplib"

	// SettingKey is the configuration option holding the default backend name
	SettingKey = "backend"
)

// Settings is the host configuration source consulted for the default backend.
// *viper.Viper satisfies it.
type Settings interface {
	GetString(key string) string
}

var defaults struct {
	once sync.Once
	name string
	typ  *Type
	err  error
}

// DefaultName returns the configured default backend name, or FallbackBackend
// when settings is nil (including a typed nil such as (*viper.Viper)(nil))
// or holds no value under SettingKey.
// The override is returned verbatim and may be a qualified name.
func DefaultName(settings Settings) string {
	if isNil(settings) {
		return FallbackBackend
	}
	if name := settings.GetString(SettingKey); strings.TrimSpace(name) != "" {
		return name
	}
	return FallbackBackend
}

func isNil(settings Settings) bool {
	if settings == nil {
		return true
	}
	v := reflect.ValueOf(settings)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Func:
		return v.IsNil()
	}
	return false
}

// Init computes the process-wide default backend once. Later calls return
// the outcome of the first. An error here leaves no usable default.
func Init(settings Settings) error {
	defaults.once.Do(func() {
		defaults.name = DefaultName(settings)
		defaults.typ, defaults.err = Resolve(defaults.name)
		if defaults.err != nil {
			log.Error().Err(defaults.err).Str("backend", defaults.name).Msg("default backend unavailable")
			return
		}
		log.Debug().Str("backend", defaults.name).Str("module", defaults.typ.Module).Msg("default backend selected")
	})
	return defaults.err
}

// DefaultBackendName returns the default backend name, initializing without
// host settings if Init was never called.
func DefaultBackendName() string {
	_ = Init(nil)
	return defaults.name
}

// DefaultBackendType returns the resolved default backend type.
func DefaultBackendType() (*Type, error) {
	if err := Init(nil); err != nil {
		return nil, err
	}
	return defaults.typ, nil
}

