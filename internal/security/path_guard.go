package security

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	securityViolationMessageConstant = "path access denied: outside project boundary"
)

// ErrSecurityViolation indicates a path escaped the project boundary or could not
// be resolved. Resolution failures intentionally collapse into the same error so
// callers cannot probe filesystem structure through distinct messages.
var ErrSecurityViolation = errors.New(securityViolationMessageConstant)

// PathGuard validates filesystem paths against a trusted base directory.
type PathGuard struct{}

// NewPathGuard constructs a PathGuard instance.
func NewPathGuard() *PathGuard {
	return &PathGuard{}
}

// Validate resolves subpath relative to baseDirectory and guarantees the result
// stays inside the base directory tree. An empty subpath returns the
// canonicalized base. The result is computed fresh on every call; directory
// contents may change between requests.
func (guard *PathGuard) Validate(baseDirectory string, subpath string) (string, error) {
	canonicalBase, baseError := canonicalizePath(baseDirectory)
	if baseError != nil {
		return "", ErrSecurityViolation
	}

	if len(subpath) == 0 {
		return canonicalBase, nil
	}

	canonicalCandidate, candidateError := canonicalizePath(filepath.Join(canonicalBase, subpath))
	if candidateError != nil {
		return "", ErrSecurityViolation
	}

	if !isWithinBase(canonicalBase, canonicalCandidate) {
		return "", ErrSecurityViolation
	}

	return canonicalCandidate, nil
}

// canonicalizePath produces an absolute path with symlinks and parent
// references resolved. Trailing components that do not exist yet are rejoined
// onto the deepest existing ancestor after that ancestor is resolved, matching
// resolution semantics for paths that will be created later.
func canonicalizePath(candidatePath string) (string, error) {
	absolutePath, absoluteError := filepath.Abs(candidatePath)
	if absoluteError != nil {
		return "", absoluteError
	}

	resolvedPath, resolveError := filepath.EvalSymlinks(absolutePath)
	if resolveError == nil {
		return resolvedPath, nil
	}
	if !os.IsNotExist(resolveError) {
		return "", resolveError
	}

	existingAncestor := absolutePath
	var pendingComponents []string
	for {
		parentDirectory := filepath.Dir(existingAncestor)
		if parentDirectory == existingAncestor {
			break
		}
		pendingComponents = append([]string{filepath.Base(existingAncestor)}, pendingComponents...)
		existingAncestor = parentDirectory

		resolvedAncestor, ancestorError := filepath.EvalSymlinks(existingAncestor)
		if ancestorError == nil {
			return filepath.Join(append([]string{resolvedAncestor}, pendingComponents...)...), nil
		}
		if !os.IsNotExist(ancestorError) {
			return "", ancestorError
		}
	}

	return filepath.Clean(absolutePath), nil
}

// isWithinBase reports containment by path segments rather than raw string
// prefixes, so a sibling such as /a/bb is never treated as inside /a/b.
func isWithinBase(baseDirectory string, candidatePath string) bool {
	cleanedBase := filepath.Clean(baseDirectory)
	cleanedCandidate := filepath.Clean(candidatePath)

	if cleanedCandidate == cleanedBase {
		return true
	}
	if len(cleanedCandidate) <= len(cleanedBase) {
		return false
	}
	if !strings.HasPrefix(cleanedCandidate, cleanedBase) {
		return false
	}

	if cleanedBase[len(cleanedBase)-1] == os.PathSeparator {
		return true
	}
	return cleanedCandidate[len(cleanedBase)] == os.PathSeparator
}
