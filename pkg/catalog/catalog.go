// Package catalog declares the capability interfaces the tokenizer and
// parser framework read from a caller-supplied catalog of macros,
// environments, and specials.
//
// The core never implements these catalogs itself — populating them
// (with the real set of LaTeX macros, environments, and special
// sequences) is the job of a separate, higher-level collaborator. This
// package only specifies the shape the core depends on, the way
// internal/lexer depends on a TokenType without knowing where the
// keyword table that produced it lives.
package catalog

// MacroSpec describes what the core needs to know about a macro: its
// argument-specification string (see the arg-spec mini-language) and
// whether it is known to require at least one argument.
type MacroSpec interface {
	// Signature is the argument-spec string for this macro's argument
	// list (e.g. "{om" for one mandatory, one optional, one mandatory
	// argument), consumed by the standard argument parser.
	Signature() string
	// RequiresArgs reports whether the expression parser should treat
	// this macro as an error when it appears alone with no room left
	// to parse its arguments.
	RequiresArgs() bool
}

// EnvironmentSpec describes what the core needs to know about an
// environment. The core does not currently read any fields from it; it
// is an extension point for callers and future core revisions.
type EnvironmentSpec interface{}

// SpecialsSpec identifies a recognized specials sequence. It is opaque
// to the core beyond the match it produced.
type SpecialsSpec interface{}

// MacroCatalog looks up macros by name.
type MacroCatalog interface {
	LookupMacro(name string) (spec MacroSpec, ok bool)
}

// EnvironmentCatalog looks up environments by name.
type EnvironmentCatalog interface {
	LookupEnvironment(name string) (spec EnvironmentSpec, ok bool)
}

// SpecialsCatalog performs greedy longest-prefix matching of specials
// sequences ("~", "---", ...) against the upcoming source.
type SpecialsCatalog interface {
	// MatchAt returns the specials spec and the match length (in
	// runes) for the longest specials sequence starting at offset in
	// src, or ok=false if nothing matches there.
	MatchAt(src []rune, offset int) (spec SpecialsSpec, length int, ok bool)
}
