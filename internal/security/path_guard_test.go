package security_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/makemcp/internal/security"
)

const (
	testSubtestNameTemplateConstant        = "%d_%s"
	testCaseEmptySubpathNameConstant       = "empty_subpath_returns_base"
	testCaseInsideSubpathNameConstant      = "subpath_inside_base"
	testCaseNestedSubpathNameConstant      = "nested_subpath_inside_base"
	testCaseMissingSubpathNameConstant     = "nonexistent_subpath_inside_base"
	testCaseParentEscapeNameConstant       = "parent_reference_escape"
	testCaseDeepParentEscapeNameConstant   = "deep_parent_reference_escape"
	testCaseAbsoluteSiblingNameConstant    = "sibling_prefix_escape"
	testMakefileNameConstant               = "Makefile"
	testNestedDirectoryNameConstant        = "nested"
	testMakefileContentConstant            = "all:\n\t@echo ok\n"
	testSiblingDirectorySuffixConstant     = "b"
	testSymlinkNameConstant                = "escape-link"
	testOutsideFileNameConstant            = "outside.txt"
	testOutsideFileContentConstant         = "outside\n"
	testParentEscapeSubpathConstant        = "../outside.txt"
	testDeepParentEscapeSubpathConstant    = "nested/../../outside.txt"
	testMissingSubpathConstant             = "not-created-yet/Makefile"
)

func writeBaseFixture(testInstance *testing.T) string {
	testInstance.Helper()

	baseDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(baseDirectory, testMakefileNameConstant), []byte(testMakefileContentConstant), 0o644))
	require.NoError(testInstance, os.Mkdir(filepath.Join(baseDirectory, testNestedDirectoryNameConstant), 0o755))
	return baseDirectory
}

func TestPathGuardValidate(testInstance *testing.T) {
	testCases := []struct {
		name            string
		subpath         string
		expectViolation bool
	}{
		{
			name:    testCaseEmptySubpathNameConstant,
			subpath: "",
		},
		{
			name:    testCaseInsideSubpathNameConstant,
			subpath: testMakefileNameConstant,
		},
		{
			name:    testCaseNestedSubpathNameConstant,
			subpath: filepath.Join(testNestedDirectoryNameConstant, testMakefileNameConstant),
		},
		{
			name:    testCaseMissingSubpathNameConstant,
			subpath: testMissingSubpathConstant,
		},
		{
			name:            testCaseParentEscapeNameConstant,
			subpath:         testParentEscapeSubpathConstant,
			expectViolation: true,
		},
		{
			name:            testCaseDeepParentEscapeNameConstant,
			subpath:         testDeepParentEscapeSubpathConstant,
			expectViolation: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			baseDirectory := writeBaseFixture(testInstance)
			pathGuard := security.NewPathGuard()

			validatedPath, validationError := pathGuard.Validate(baseDirectory, testCase.subpath)

			if testCase.expectViolation {
				require.ErrorIs(testInstance, validationError, security.ErrSecurityViolation)
				require.Empty(testInstance, validatedPath)
				return
			}

			require.NoError(testInstance, validationError)
			canonicalBase, canonicalError := filepath.EvalSymlinks(baseDirectory)
			require.NoError(testInstance, canonicalError)
			require.True(testInstance, strings.HasPrefix(validatedPath, canonicalBase))
		})
	}
}

func TestPathGuardRejectsSiblingSharingStringPrefix(testInstance *testing.T) {
	parentDirectory := testInstance.TempDir()
	baseDirectory := filepath.Join(parentDirectory, testSiblingDirectorySuffixConstant)
	siblingDirectory := baseDirectory + testSiblingDirectorySuffixConstant
	require.NoError(testInstance, os.Mkdir(baseDirectory, 0o755))
	require.NoError(testInstance, os.Mkdir(siblingDirectory, 0o755))

	pathGuard := security.NewPathGuard()

	_, validationError := pathGuard.Validate(baseDirectory, filepath.Join("..", filepath.Base(siblingDirectory), testOutsideFileNameConstant))
	require.ErrorIs(testInstance, validationError, security.ErrSecurityViolation)
}

func TestPathGuardRejectsSymlinkEscape(testInstance *testing.T) {
	baseDirectory := writeBaseFixture(testInstance)
	outsideDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(outsideDirectory, testOutsideFileNameConstant), []byte(testOutsideFileContentConstant), 0o644))

	symlinkPath := filepath.Join(baseDirectory, testSymlinkNameConstant)
	symlinkError := os.Symlink(outsideDirectory, symlinkPath)
	if symlinkError != nil {
		testInstance.Skipf("symlinks unavailable: %v", symlinkError)
	}

	pathGuard := security.NewPathGuard()

	_, validationError := pathGuard.Validate(baseDirectory, filepath.Join(testSymlinkNameConstant, testOutsideFileNameConstant))
	require.ErrorIs(testInstance, validationError, security.ErrSecurityViolation)
}
