package makefiles

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	// MakefileName is the file name expected inside the project directory.
	MakefileName = "Makefile"

	makefileNotFoundMessageConstant   = "Makefile not found"
	emptyMakefileMessageConstant      = "empty Makefile"
	makefileReadErrorTemplateConstant = "failed to read Makefile: %w"
	invalidDirectiveTemplateConstant  = "invalid directive on line %d: %s"
	directivePrefixConstant           = "."
)

// ErrMakefileNotFound indicates the Makefile does not exist at the validated path.
var ErrMakefileNotFound = errors.New(makefileNotFoundMessageConstant)

// ErrEmptyMakefile indicates the Makefile contains no content.
var ErrEmptyMakefile = errors.New(emptyMakefileMessageConstant)

// SyntaxError reports a line that failed the Makefile sanity check.
type SyntaxError struct {
	LineNumber int
	Line       string
}

// Error renders the offending line with its number.
func (syntaxFailure SyntaxError) Error() string {
	return fmt.Sprintf(invalidDirectiveTemplateConstant, syntaxFailure.LineNumber, syntaxFailure.Line)
}

// ReadMakefile returns the contents of the Makefile at the supplied path.
func ReadMakefile(makefilePath string) (string, error) {
	makefileContent, readError := os.ReadFile(makefilePath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return "", ErrMakefileNotFound
		}
		return "", fmt.Errorf(makefileReadErrorTemplateConstant, readError)
	}
	return string(makefileContent), nil
}

// ValidateMakefileSyntax performs a basic sanity check: content must be
// non-empty, and any line starting with a dot must carry a colon. This is a
// directive heuristic, not Make-language parsing.
func ValidateMakefileSyntax(makefileContent string) error {
	if len(strings.TrimSpace(makefileContent)) == 0 {
		return ErrEmptyMakefile
	}

	for lineIndex, rawLine := range strings.Split(makefileContent, "\n") {
		trimmedLine := strings.TrimSpace(rawLine)
		if strings.HasPrefix(trimmedLine, directivePrefixConstant) && !strings.Contains(rawLine, targetSeparatorConstant) {
			return SyntaxError{LineNumber: lineIndex + 1, Line: rawLine}
		}
	}

	return nil
}
