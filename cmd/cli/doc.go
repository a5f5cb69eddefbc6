// Package cli constructs the makemcp command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives. The serve subcommand exposes Makefile targets over the Model
// Context Protocol on standard input and output.
package cli
