// Package makefiles reads Makefile content, extracts build targets with their
// descriptions, and exposes Makefile-derived resources behind make:// URIs.
//
// Target extraction is a textual heuristic over the Makefile source, not a
// Make-language parser: variables, includes, conditionals, and line
// continuations are not evaluated.
package makefiles
