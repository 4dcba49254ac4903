package backends

import (
	"strings"
)

const (
	// Namespace is prepended to unqualified backend names
	Namespace = "carrot.backends."

	// EntrySymbol is the export every backend module must provide
	EntrySymbol = "Backend"

	// qualifier marks a name as a fully-qualified module identifier
	qualifier = "."
)

// Source describes how a module identifier was derived from a backend name
type Source int

const (
	// SourceQualified means the name was used verbatim as a module identifier
	SourceQualified Source = iota
	// SourceAlias means the name matched an entry in the alias table
	SourceAlias
	// SourcePassthrough means an unknown short name was taken as a module leaf
	SourcePassthrough
)

func (s Source) String() string {
	switch s {
	case SourceQualified:
		return "qualified"
	case SourceAlias:
		return "alias"
	case SourcePassthrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// IsQualified reports whether name already is a fully-qualified module identifier
func IsQualified(name string) bool {
	return strings.Contains(name, qualifier)
}

// ModulePath derives the module identifier for a backend name.
//
// Qualified names are returned verbatim. Unqualified names are lowercased,
// mapped through the alias table when they match, and prefixed with Namespace.
// An unqualified name missing from the alias table keeps its original
// spelling, so typos surface when the module is loaded.
func ModulePath(name string) (string, Source) {
	if IsQualified(name) {
		return name, SourceQualified
	}
	if canonical, ok := LookupAlias(strings.ToLower(name)); ok {
		return Namespace + canonical, SourceAlias
	}
	return Namespace + name, SourcePassthrough
}

// Resolve returns the backend type exported by the module that name refers to.
// The type is not instantiated.
func Resolve(name string) (*Type, error) {
	path, source := ModulePath(name)

	symbols, ok := loadModule(path)
	if !ok {
		log.Debug().
			Str("name", name).
			Str("module", path).
			Stringer("source", source).
			Msg("backend module not found")
		return nil, &BackendNotFoundError{Name: name, Module: path, Source: source}
	}

	t, ok := symbols[EntrySymbol].(*Type)
	if !ok || t == nil {
		return nil, &InvalidBackendError{Module: path, Symbol: EntrySymbol}
	}

	log.Debug().
		Str("name", name).
		Str("module", path).
		Stringer("source", source).
		Msg("resolved backend")
	return t, nil
}
