package security

import "strings"

const environmentAssignmentSeparatorConstant = "="

// restrictedVariablePrefixes lists environment variable name prefixes removed
// before Make execution. The PATH prefix also strips PATH itself; the Make
// binary is therefore resolved to an absolute path in the parent process
// before the child is spawned.
var restrictedVariablePrefixes = []string{"LD_", "DYLD_", "PATH"}

// EnvironmentSanitizer produces filtered environment copies for child processes.
type EnvironmentSanitizer struct{}

// NewEnvironmentSanitizer constructs an EnvironmentSanitizer instance.
func NewEnvironmentSanitizer() *EnvironmentSanitizer {
	return &EnvironmentSanitizer{}
}

// Sanitize returns a copy of the supplied environment with every variable
// whose name starts with a restricted prefix removed. The input slice uses
// the KEY=VALUE form produced by os.Environ.
func (sanitizer *EnvironmentSanitizer) Sanitize(environment []string) []string {
	sanitizedEnvironment := make([]string, 0, len(environment))
	for _, environmentEntry := range environment {
		variableName := environmentEntry
		if separatorIndex := strings.Index(environmentEntry, environmentAssignmentSeparatorConstant); separatorIndex >= 0 {
			variableName = environmentEntry[:separatorIndex]
		}
		if hasRestrictedPrefix(variableName) {
			continue
		}
		sanitizedEnvironment = append(sanitizedEnvironment, environmentEntry)
	}
	return sanitizedEnvironment
}

func hasRestrictedPrefix(variableName string) bool {
	for _, restrictedPrefix := range restrictedVariablePrefixes {
		if strings.HasPrefix(variableName, restrictedPrefix) {
			return true
		}
	}
	return false
}
