package postgres

import "github.com/ajiwo/carrot/backends"

// connErrorStrings adds server-side conditions that mean the database is not
// usable right now. Constraint violations and syntax errors are not listed.
var connErrorStrings = append([]string{
	"connection timeout",
	"pool exhausted",
	"too many connections",
	"terminating connection",
	"closed pool",
}, backends.ConnErrorPatterns...)

func maybeConnError(op string, err error) error {
	return backends.MaybeConnError(op, err, connErrorStrings)
}
