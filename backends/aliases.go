package backends

// backendAliases maps informal backend names to the canonical module leaf
// they live under in the Namespace. Keys are lowercase.
var backendAliases = map[string]string{
	"amqp":    "pyamqplib",
	"amqplib": "pyamqplib",
	"stomp":   "pystomp",
	"stompy":  "pystomp",
	"memory":  "queue",
	"mem":     "queue",
}

// LookupAlias returns the canonical module leaf for a lowercase short name.
// A miss is not an error; it means the name is already a module leaf.
func LookupAlias(shortName string) (string, bool) {
	canonical, ok := backendAliases[shortName]
	return canonical, ok
}

// Aliases returns a copy of the alias table.
func Aliases() map[string]string {
	out := make(map[string]string, len(backendAliases))
	for alias, canonical := range backendAliases {
		out[alias] = canonical
	}
	return out
}
