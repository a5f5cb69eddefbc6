package pathutils

import (
	"errors"
	"path/filepath"
	"strings"
)

const (
	emptyDirectoryMessageConstant = "makefile directory must not be empty"
)

// ErrEmptyDirectory indicates the supplied directory value contained no usable path.
var ErrEmptyDirectory = errors.New(emptyDirectoryMessageConstant)

// MakefileDirectoryResolver normalizes the configured Makefile directory consistently across commands.
type MakefileDirectoryResolver struct {
	homeExpander *HomeExpander
}

// NewMakefileDirectoryResolver constructs a MakefileDirectoryResolver with default behavior.
func NewMakefileDirectoryResolver() *MakefileDirectoryResolver {
	return NewMakefileDirectoryResolverWithExpander(nil)
}

// NewMakefileDirectoryResolverWithExpander constructs a MakefileDirectoryResolver using the provided expander.
func NewMakefileDirectoryResolverWithExpander(homeExpander *HomeExpander) *MakefileDirectoryResolver {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}
	return &MakefileDirectoryResolver{homeExpander: resolvedExpander}
}

// Resolve trims whitespace, expands the user's home directory, and converts the value to an absolute path.
func (resolver *MakefileDirectoryResolver) Resolve(candidateDirectory string) (string, error) {
	trimmedDirectory := strings.TrimSpace(candidateDirectory)
	if len(trimmedDirectory) == 0 {
		return "", ErrEmptyDirectory
	}

	expandedDirectory := resolver.homeExpander.Expand(trimmedDirectory)

	absoluteDirectory, absoluteError := filepath.Abs(expandedDirectory)
	if absoluteError != nil {
		return "", absoluteError
	}

	return filepath.Clean(absoluteDirectory), nil
}
