// Package security enforces the project boundary for filesystem access and
// sanitizes the environment handed to child processes.
//
// PathGuard canonicalizes candidate paths and rejects any that resolve outside
// the configured base directory. EnvironmentSanitizer strips loader-injection
// and search-path variables before Make execution.
package security
