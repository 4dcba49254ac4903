package redis

import "github.com/ajiwo/carrot/backends"

// connErrorStrings extends the shared patterns with redis client specific
// connectivity failures. Command errors such as WRONGTYPE are left out so
// they are reported as ordinary errors.
var connErrorStrings = append([]string{
	"connection timeout",
	"connection pool exhausted",
	"redis: client is closed",
}, backends.ConnErrorPatterns...)

func maybeConnError(op string, err error) error {
	return backends.MaybeConnError(op, err, connErrorStrings)
}
