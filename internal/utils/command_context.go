package utils

import "context"

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	makefileDirectoryContextKeyConstant     = commandContextKey("makefileDirectory")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, configurationFilePathAvailable := executionContext.Value(configurationFilePathContextKeyConstant).(string)
	if !configurationFilePathAvailable {
		return "", false
	}
	return configurationFilePath, true
}

// WithMakefileDirectory attaches the resolved Makefile directory to the provided context.
func (accessor CommandContextAccessor) WithMakefileDirectory(parentContext context.Context, makefileDirectory string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, makefileDirectoryContextKeyConstant, makefileDirectory)
}

// MakefileDirectory extracts the resolved Makefile directory from the provided context.
func (accessor CommandContextAccessor) MakefileDirectory(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	makefileDirectory, makefileDirectoryAvailable := executionContext.Value(makefileDirectoryContextKeyConstant).(string)
	if !makefileDirectoryAvailable {
		return "", false
	}
	return makefileDirectory, true
}
