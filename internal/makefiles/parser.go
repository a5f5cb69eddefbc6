package makefiles

import (
	"regexp"
	"strings"
)

const (
	commentPrefixConstant           = "#"
	recipePrefixConstant            = "\t"
	targetSeparatorConstant         = ":"
	inlineDescriptionMarkerConstant = "##"
	commentJoinSeparatorConstant    = " "
	validTargetNamePatternConstant  = `^[A-Za-z0-9][A-Za-z0-9_-]*$`
)

// validTargetNamePattern matches target names safe to pass as a literal
// argument to make: no leading dot, slash, or space, and no shell
// metacharacters.
var validTargetNamePattern = regexp.MustCompile(validTargetNamePatternConstant)

// Target describes a named build step extracted from a Makefile.
type Target struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// IsValidTargetName reports whether the candidate is an acceptable target name.
func IsValidTargetName(candidateName string) bool {
	return validTargetNamePattern.MatchString(candidateName)
}

// TargetParser extracts targets and their descriptions from Makefile text.
type TargetParser struct{}

// NewTargetParser constructs a TargetParser instance.
func NewTargetParser() *TargetParser {
	return &TargetParser{}
}

// Parse scans the Makefile text line by line and returns the targets in
// definition order. Comment lines immediately preceding a target become its
// description unless the target line carries an inline ## description, which
// wins. Lines whose candidate name fails the target-name pattern are skipped
// silently, so pattern rules and special targets never abort the scan.
// Malformed input yields fewer or no targets, never an error.
func (parser *TargetParser) Parse(makefileText string) []Target {
	parsedTargets := []Target{}
	pendingComment := []string{}

	for _, rawLine := range strings.Split(makefileText, "\n") {
		trimmedLine := strings.TrimSpace(rawLine)

		switch {
		case strings.HasPrefix(trimmedLine, commentPrefixConstant):
			commentText := strings.TrimSpace(strings.TrimPrefix(trimmedLine, commentPrefixConstant))
			pendingComment = append(pendingComment, commentText)

		case strings.Contains(trimmedLine, targetSeparatorConstant) && !strings.HasPrefix(rawLine, recipePrefixConstant):
			separatorIndex := strings.Index(trimmedLine, targetSeparatorConstant)
			candidateName := strings.TrimSpace(trimmedLine[:separatorIndex])

			inlineDescription := ""
			if markerIndex := strings.Index(trimmedLine, inlineDescriptionMarkerConstant); markerIndex >= 0 {
				inlineDescription = strings.TrimSpace(trimmedLine[markerIndex+len(inlineDescriptionMarkerConstant):])
			}

			if IsValidTargetName(candidateName) {
				targetDescription := inlineDescription
				if len(targetDescription) == 0 {
					targetDescription = strings.Join(pendingComment, commentJoinSeparatorConstant)
				}
				parsedTargets = append(parsedTargets, Target{Name: candidateName, Description: strings.TrimSpace(targetDescription)})
			}

			pendingComment = []string{}

		default:
			pendingComment = []string{}
		}
	}

	return parsedTargets
}
