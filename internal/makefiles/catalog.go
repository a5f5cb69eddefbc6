package makefiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/makemcp/internal/security"
)

const (
	// MakefileResourceURI addresses the raw Makefile content resource.
	MakefileResourceURI = "make://current/makefile"
	// TargetsResourceURI addresses the parsed targets collection resource.
	TargetsResourceURI = "make://targets"

	// MakefileResourceMIMEType describes the Makefile content resource.
	MakefileResourceMIMEType = "text/plain"
	// TargetsResourceMIMEType describes the targets collection resource.
	TargetsResourceMIMEType = "application/json"

	makefileResourceNameConstant        = "Current Makefile"
	makefileResourceDescriptionConstant = "Contents of the current Makefile"
	targetsResourceNameConstant         = "Make Targets"
	targetsResourceDescriptionConstant  = "List of available Make targets"

	uriSchemePrefixConstant           = "make://"
	uriHostSegmentConstant            = "localhost/"
	uriPathSeparatorConstant          = "/"
	makefileResourcePathConstant      = "current/makefile"
	targetsResourcePathConstant       = "targets"
	unknownResourceTemplateConstant   = "unknown resource: %s"
	unsupportedSchemeTemplateConstant = "unsupported URI scheme: %s"
	directoryNotConfiguredMessage     = "makefile directory not configured"
	pathGuardNotConfiguredMessage     = "path guard not configured"
	listResourcesFailedMessage        = "unable to list Makefile resources"
	targetsSerializationTemplate      = "failed to serialize targets: %w"
	logFieldErrorReasonConstant       = "reason"
	jsonIndentConstant                = "  "
	emptyJSONPrefixConstant           = ""
)

// UnknownResourceError reports a resource identifier outside the catalog.
type UnknownResourceError struct {
	URI string
}

// Error names the unresolvable resource.
func (unknownResource UnknownResourceError) Error() string {
	return fmt.Sprintf(unknownResourceTemplateConstant, unknownResource.URI)
}

// UnsupportedSchemeError reports a resource URI whose scheme is not make://.
type UnsupportedSchemeError struct {
	URI string
}

// Error names the rejected URI.
func (unsupportedScheme UnsupportedSchemeError) Error() string {
	return fmt.Sprintf(unsupportedSchemeTemplateConstant, unsupportedScheme.URI)
}

// ErrMakefileDirectoryNotConfigured indicates the catalog was constructed without a directory.
var ErrMakefileDirectoryNotConfigured = errors.New(directoryNotConfiguredMessage)

// ErrPathGuardNotConfigured indicates the catalog was constructed without a path guard.
var ErrPathGuardNotConfigured = errors.New(pathGuardNotConfiguredMessage)

// ResourceDescriptor describes an addressable Makefile-derived resource.
type ResourceDescriptor struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
}

// CatalogDependencies enumerates collaborators required by the catalog.
type CatalogDependencies struct {
	PathGuard *security.PathGuard
	Logger    *zap.Logger
}

// ResourceCatalog answers which Makefile-derived resources exist and reads
// their content. Paths are validated on every call; nothing is cached because
// directory contents may change between requests.
type ResourceCatalog struct {
	makefileDirectory string
	pathGuard         *security.PathGuard
	targetParser      *TargetParser
	logger            *zap.Logger
}

// NewResourceCatalog constructs a ResourceCatalog for the supplied directory.
func NewResourceCatalog(makefileDirectory string, dependencies CatalogDependencies) (*ResourceCatalog, error) {
	if len(strings.TrimSpace(makefileDirectory)) == 0 {
		return nil, ErrMakefileDirectoryNotConfigured
	}
	if dependencies.PathGuard == nil {
		return nil, ErrPathGuardNotConfigured
	}

	catalogLogger := dependencies.Logger
	if catalogLogger == nil {
		catalogLogger = zap.NewNop()
	}

	return &ResourceCatalog{
		makefileDirectory: makefileDirectory,
		pathGuard:         dependencies.PathGuard,
		targetParser:      NewTargetParser(),
		logger:            catalogLogger,
	}, nil
}

// ListResources returns descriptors for the resources currently available: the
// Makefile itself when present, and the targets collection when at least one
// target parses. Failures are logged and yield an empty listing rather than an
// error, mirroring best-effort resource discovery.
func (catalog *ResourceCatalog) ListResources(executionContext context.Context) []ResourceDescriptor {
	resourceDescriptors := []ResourceDescriptor{}

	makefilePath, validationError := catalog.pathGuard.Validate(catalog.makefileDirectory, MakefileName)
	if validationError != nil {
		catalog.logger.Warn(listResourcesFailedMessage, zap.String(logFieldErrorReasonConstant, validationError.Error()))
		return resourceDescriptors
	}

	if _, statError := os.Stat(makefilePath); statError != nil {
		return resourceDescriptors
	}

	resourceDescriptors = append(resourceDescriptors, ResourceDescriptor{
		URI:         MakefileResourceURI,
		Name:        makefileResourceNameConstant,
		Description: makefileResourceDescriptionConstant,
		MIMEType:    MakefileResourceMIMEType,
	})

	parsedTargets, parseError := catalog.ParseTargets(executionContext)
	if parseError != nil {
		catalog.logger.Warn(listResourcesFailedMessage, zap.String(logFieldErrorReasonConstant, parseError.Error()))
		return resourceDescriptors
	}

	if len(parsedTargets) > 0 {
		resourceDescriptors = append(resourceDescriptors, ResourceDescriptor{
			URI:         TargetsResourceURI,
			Name:        targetsResourceNameConstant,
			Description: targetsResourceDescriptionConstant,
			MIMEType:    TargetsResourceMIMEType,
		})
	}

	return resourceDescriptors
}

// ParseTargets validates the Makefile path, reads its content, and extracts targets.
func (catalog *ResourceCatalog) ParseTargets(executionContext context.Context) ([]Target, error) {
	makefilePath, validationError := catalog.pathGuard.Validate(catalog.makefileDirectory, MakefileName)
	if validationError != nil {
		return nil, validationError
	}

	makefileContent, readError := ReadMakefile(makefilePath)
	if readError != nil {
		return nil, readError
	}

	return catalog.targetParser.Parse(makefileContent), nil
}

// ReadResource returns the content for the addressed resource. The Makefile
// resource returns raw validated content after a syntax sanity check; the
// targets resource returns the parsed targets serialized as JSON.
func (catalog *ResourceCatalog) ReadResource(executionContext context.Context, resourceURI string) (string, error) {
	normalizedPath, normalizationError := normalizeResourcePath(resourceURI)
	if normalizationError != nil {
		return "", normalizationError
	}

	switch normalizedPath {
	case makefileResourcePathConstant:
		return catalog.readMakefileResource()
	case targetsResourcePathConstant:
		return catalog.readTargetsResource(executionContext)
	default:
		return "", UnknownResourceError{URI: resourceURI}
	}
}

func (catalog *ResourceCatalog) readMakefileResource() (string, error) {
	makefilePath, validationError := catalog.pathGuard.Validate(catalog.makefileDirectory, MakefileName)
	if validationError != nil {
		return "", validationError
	}

	makefileContent, readError := ReadMakefile(makefilePath)
	if readError != nil {
		return "", readError
	}

	if syntaxError := ValidateMakefileSyntax(makefileContent); syntaxError != nil {
		return "", syntaxError
	}

	return makefileContent, nil
}

func (catalog *ResourceCatalog) readTargetsResource(executionContext context.Context) (string, error) {
	parsedTargets, parseError := catalog.ParseTargets(executionContext)
	if parseError != nil {
		return "", parseError
	}

	serializedTargets, serializationError := json.MarshalIndent(parsedTargets, emptyJSONPrefixConstant, jsonIndentConstant)
	if serializationError != nil {
		return "", fmt.Errorf(targetsSerializationTemplate, serializationError)
	}

	return string(serializedTargets), nil
}

// normalizeResourcePath lowers the case, strips the make:// scheme and any
// localhost host segment, and trims slashes so equivalent spellings of a
// resource URI compare equal.
func normalizeResourcePath(resourceURI string) (string, error) {
	loweredURI := strings.ToLower(strings.TrimSpace(resourceURI))
	if !strings.HasPrefix(loweredURI, uriSchemePrefixConstant) {
		return "", UnsupportedSchemeError{URI: resourceURI}
	}

	resourcePath := strings.TrimPrefix(loweredURI, uriSchemePrefixConstant)
	resourcePath = strings.Trim(resourcePath, uriPathSeparatorConstant)
	resourcePath = strings.TrimPrefix(resourcePath, uriHostSegmentConstant)

	return resourcePath, nil
}
