// Package execshell provides structured helpers for invoking the make
// executable.
//
// It wraps os/exec with logging and process-group termination via
// ShellExecutor, exposes OSCommandRunner for default process execution, and
// defines abstractions used throughout makemcp to run make in a testable
// manner.
package execshell
