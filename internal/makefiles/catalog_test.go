package makefiles_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/makemcp/internal/makefiles"
	"github.com/temirov/makemcp/internal/security"
)

const (
	testCatalogMakefileContentConstant = "# Build the project\nbuild:\n\t@echo building\n\ntest: build ## Run the tests\n\t@echo testing\n"
	testCatalogBareMakefileConstant    = "# configuration only\n%.o: %.c\n\t$(CC) -c $<\n"

	testCaseMakefileAndTargetsListedConstant = "makefile_and_targets_listed"
	testCaseMakefileOnlyListedConstant       = "makefile_without_targets_listed_alone"
	testCaseMissingMakefileListedConstant    = "missing_makefile_lists_nothing"

	testCaseCanonicalMakefileURIConstant = "canonical_makefile_uri"
	testCaseLocalhostMakefileURIConstant = "localhost_makefile_uri"
	testCaseUppercaseMakefileURIConstant = "uppercase_makefile_uri"
	testCaseCanonicalTargetsURIConstant  = "canonical_targets_uri"
	testCaseTrailingSlashURIConstant     = "trailing_slash_targets_uri"
)

func newTestCatalog(testInstance *testing.T, makefileDirectory string) *makefiles.ResourceCatalog {
	testInstance.Helper()

	resourceCatalog, creationError := makefiles.NewResourceCatalog(makefileDirectory, makefiles.CatalogDependencies{
		PathGuard: security.NewPathGuard(),
		Logger:    zap.NewNop(),
	})
	require.NoError(testInstance, creationError)

	return resourceCatalog
}

func writeTestMakefile(testInstance *testing.T, makefileDirectory string, makefileContent string) {
	testInstance.Helper()

	makefilePath := filepath.Join(makefileDirectory, makefiles.MakefileName)
	require.NoError(testInstance, os.WriteFile(makefilePath, []byte(makefileContent), testMakefileFilePermissions))
}

func TestNewResourceCatalogValidation(testInstance *testing.T) {
	_, missingDirectoryError := makefiles.NewResourceCatalog("", makefiles.CatalogDependencies{PathGuard: security.NewPathGuard()})
	require.ErrorIs(testInstance, missingDirectoryError, makefiles.ErrMakefileDirectoryNotConfigured)

	_, missingGuardError := makefiles.NewResourceCatalog(testInstance.TempDir(), makefiles.CatalogDependencies{})
	require.ErrorIs(testInstance, missingGuardError, makefiles.ErrPathGuardNotConfigured)
}

func TestResourceCatalogListResources(testInstance *testing.T) {
	testCases := []struct {
		name            string
		makefileContent string
		writeMakefile   bool
		expectedURIs    []string
	}{
		{
			name:            testCaseMakefileAndTargetsListedConstant,
			makefileContent: testCatalogMakefileContentConstant,
			writeMakefile:   true,
			expectedURIs:    []string{makefiles.MakefileResourceURI, makefiles.TargetsResourceURI},
		},
		{
			name:            testCaseMakefileOnlyListedConstant,
			makefileContent: testCatalogBareMakefileConstant,
			writeMakefile:   true,
			expectedURIs:    []string{makefiles.MakefileResourceURI},
		},
		{
			name:          testCaseMissingMakefileListedConstant,
			writeMakefile: false,
			expectedURIs:  []string{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			makefileDirectory := testInstance.TempDir()
			if testCase.writeMakefile {
				writeTestMakefile(testInstance, makefileDirectory, testCase.makefileContent)
			}

			resourceCatalog := newTestCatalog(testInstance, makefileDirectory)
			resourceDescriptors := resourceCatalog.ListResources(context.Background())

			listedURIs := []string{}
			for _, resourceDescriptor := range resourceDescriptors {
				require.NotEmpty(testInstance, resourceDescriptor.Name)
				require.NotEmpty(testInstance, resourceDescriptor.MIMEType)
				listedURIs = append(listedURIs, resourceDescriptor.URI)
			}
			require.Equal(testInstance, testCase.expectedURIs, listedURIs)
		})
	}
}

func TestResourceCatalogReadMakefileResource(testInstance *testing.T) {
	makefileDirectory := testInstance.TempDir()
	writeTestMakefile(testInstance, makefileDirectory, testCatalogMakefileContentConstant)
	resourceCatalog := newTestCatalog(testInstance, makefileDirectory)

	makefileURICases := []struct {
		name        string
		resourceURI string
	}{
		{name: testCaseCanonicalMakefileURIConstant, resourceURI: "make://current/makefile"},
		{name: testCaseLocalhostMakefileURIConstant, resourceURI: "make://localhost/current/makefile"},
		{name: testCaseUppercaseMakefileURIConstant, resourceURI: "MAKE://Current/Makefile"},
	}

	for _, makefileURICase := range makefileURICases {
		testInstance.Run(makefileURICase.name, func(testInstance *testing.T) {
			resourceContent, readError := resourceCatalog.ReadResource(context.Background(), makefileURICase.resourceURI)
			require.NoError(testInstance, readError)
			require.Equal(testInstance, testCatalogMakefileContentConstant, resourceContent)
		})
	}
}

func TestResourceCatalogReadTargetsResource(testInstance *testing.T) {
	makefileDirectory := testInstance.TempDir()
	writeTestMakefile(testInstance, makefileDirectory, testCatalogMakefileContentConstant)
	resourceCatalog := newTestCatalog(testInstance, makefileDirectory)

	targetsURICases := []struct {
		name        string
		resourceURI string
	}{
		{name: testCaseCanonicalTargetsURIConstant, resourceURI: "make://targets"},
		{name: testCaseTrailingSlashURIConstant, resourceURI: "make://targets/"},
	}

	for _, targetsURICase := range targetsURICases {
		testInstance.Run(targetsURICase.name, func(testInstance *testing.T) {
			resourceContent, readError := resourceCatalog.ReadResource(context.Background(), targetsURICase.resourceURI)
			require.NoError(testInstance, readError)

			decodedTargets := []makefiles.Target{}
			require.NoError(testInstance, json.Unmarshal([]byte(resourceContent), &decodedTargets))
			require.Equal(testInstance, []makefiles.Target{
				{Name: "build", Description: "Build the project"},
				{Name: "test", Description: "Run the tests"},
			}, decodedTargets)
		})
	}
}

func TestResourceCatalogReadResourceFailures(testInstance *testing.T) {
	makefileDirectory := testInstance.TempDir()
	writeTestMakefile(testInstance, makefileDirectory, testCatalogMakefileContentConstant)
	resourceCatalog := newTestCatalog(testInstance, makefileDirectory)

	_, unknownResourceError := resourceCatalog.ReadResource(context.Background(), "make://current/unknown")
	require.ErrorAs(testInstance, unknownResourceError, &makefiles.UnknownResourceError{})

	_, unsupportedSchemeError := resourceCatalog.ReadResource(context.Background(), "file:///etc/passwd")
	require.ErrorAs(testInstance, unsupportedSchemeError, &makefiles.UnsupportedSchemeError{})
}

func TestResourceCatalogReadResourceMissingMakefile(testInstance *testing.T) {
	resourceCatalog := newTestCatalog(testInstance, testInstance.TempDir())

	_, readError := resourceCatalog.ReadResource(context.Background(), makefiles.MakefileResourceURI)
	require.ErrorIs(testInstance, readError, makefiles.ErrMakefileNotFound)
}
