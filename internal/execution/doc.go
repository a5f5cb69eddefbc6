// Package execution coordinates safe make target runs: target names are
// validated before any process is spawned, the working directory is confined
// to the configured project boundary, the child environment is sanitized, and
// every run is bounded by a timeout that terminates the whole process group.
package execution
