package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/makemcp/internal/execshell"
	"github.com/temirov/makemcp/internal/execution"
	"github.com/temirov/makemcp/internal/makefiles"
	"github.com/temirov/makemcp/internal/security"
	"github.com/temirov/makemcp/internal/utils"
	pathutils "github.com/temirov/makemcp/internal/utils/path"
)

const (
	commandUseConstant              = "serve"
	commandShortDescriptionConstant = "Serve Makefile targets over the Model Context Protocol"
	commandLongDescriptionConstant  = "serve exposes the targets of a Makefile as MCP tools and resources on standard input and output."

	makefileDirectoryFlagNameConstant  = "makefile-dir"
	makefileDirectoryFlagUsageConstant = "Directory containing the Makefile"
	defaultTimeoutFlagNameConstant     = "default-timeout"
	defaultTimeoutFlagUsageConstant    = "Default per-run timeout in seconds"

	makefileDirectoryConfigKeyConstant = "makefile_directory"
	defaultTimeoutConfigKeyConstant    = "default_timeout_seconds"
	configurationKeySeparatorConstant  = "."
	defaultMakefileDirectoryConstant   = "."

	directoryResolutionErrorTemplateConstant = "unable to resolve Makefile directory: %w"
	executorCreationErrorTemplateConstant    = "unable to construct shell executor: %w"
	catalogCreationErrorTemplateConstant     = "unable to construct resource catalog: %w"
	managerCreationErrorTemplateConstant     = "unable to construct execution manager: %w"
	serverCreationErrorTemplateConstant      = "unable to construct protocol server: %w"

	serverStartedMessageConstant      = "protocol server listening"
	serverStoppedMessageConstant      = "protocol server stopped"
	logFieldMakefileDirectoryConstant = "makefile_directory"
	logFieldDefaultTimeoutConstant    = "default_timeout_seconds"
)

// LoggerProvider supplies the logger shared across the command tree.
type LoggerProvider func() *zap.Logger

// CommandConfiguration captures persisted configuration for the serve command.
type CommandConfiguration struct {
	MakefileDirectory     string `mapstructure:"makefile_directory"`
	DefaultTimeoutSeconds int    `mapstructure:"default_timeout_seconds"`
}

// DefaultConfigurationValues returns configuration defaults scoped by the supplied key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + configurationKeySeparatorConstant + makefileDirectoryConfigKeyConstant: defaultMakefileDirectoryConstant,
		configurationKeyPrefix + configurationKeySeparatorConstant + defaultTimeoutConfigKeyConstant:    execution.DefaultTimeoutSeconds,
	}
}

// CommandBuilder assembles the serve command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the serve command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(makefileDirectoryFlagNameConstant, "", makefileDirectoryFlagUsageConstant)
	command.Flags().Int(defaultTimeoutFlagNameConstant, 0, defaultTimeoutFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := resolveLogger(builder.LoggerProvider)
	commandConfiguration := builder.resolveConfiguration()

	makefileDirectoryCandidate := builder.resolveMakefileDirectoryCandidate(command, commandConfiguration)
	makefileDirectory, resolutionError := pathutils.NewMakefileDirectoryResolver().Resolve(makefileDirectoryCandidate)
	if resolutionError != nil {
		return fmt.Errorf(directoryResolutionErrorTemplateConstant, resolutionError)
	}

	defaultTimeoutSeconds := commandConfiguration.DefaultTimeoutSeconds
	if command != nil && command.Flags().Changed(defaultTimeoutFlagNameConstant) {
		defaultTimeoutSeconds, _ = command.Flags().GetInt(defaultTimeoutFlagNameConstant)
	}

	pathGuard := security.NewPathGuard()

	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return fmt.Errorf(executorCreationErrorTemplateConstant, executorError)
	}

	resourceCatalog, catalogError := makefiles.NewResourceCatalog(makefileDirectory, makefiles.CatalogDependencies{
		PathGuard: pathGuard,
		Logger:    logger,
	})
	if catalogError != nil {
		return fmt.Errorf(catalogCreationErrorTemplateConstant, catalogError)
	}

	executionManager, managerError := execution.NewExecutionManager(
		execution.ManagerConfiguration{
			MakefileDirectory:     makefileDirectory,
			DefaultTimeoutSeconds: defaultTimeoutSeconds,
		},
		execution.ManagerDependencies{
			MakeExecutor:         shellExecutor,
			PathGuard:            pathGuard,
			EnvironmentSanitizer: security.NewEnvironmentSanitizer(),
			Logger:               logger,
		},
	)
	if managerError != nil {
		return fmt.Errorf(managerCreationErrorTemplateConstant, managerError)
	}

	protocolServer, serverError := NewServer(
		ServerConfiguration{DefaultTimeoutSeconds: defaultTimeoutSeconds},
		ServerDependencies{
			Logger:           logger,
			Catalog:          resourceCatalog,
			ExecutionManager: executionManager,
		},
	)
	if serverError != nil {
		return fmt.Errorf(serverCreationErrorTemplateConstant, serverError)
	}

	signalContext, stopSignalHandling := signal.NotifyContext(commandContext(command), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignalHandling()

	logger.Info(
		serverStartedMessageConstant,
		zap.String(logFieldMakefileDirectoryConstant, makefileDirectory),
		zap.Int(logFieldDefaultTimeoutConstant, defaultTimeoutSeconds),
	)

	serveError := protocolServer.ServeStdio(signalContext)
	if serveError != nil && !errors.Is(serveError, context.Canceled) {
		return serveError
	}

	logger.Info(serverStoppedMessageConstant)
	return nil
}

// resolveMakefileDirectoryCandidate picks the directory in precedence order:
// the flag when set, then the loaded configuration, then a directory placed in
// the command context, then the current directory.
func (builder *CommandBuilder) resolveMakefileDirectoryCandidate(command *cobra.Command, commandConfiguration CommandConfiguration) string {
	if command != nil && command.Flags().Changed(makefileDirectoryFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(makefileDirectoryFlagNameConstant)
		if len(strings.TrimSpace(flagValue)) > 0 {
			return flagValue
		}
	}

	if len(strings.TrimSpace(commandConfiguration.MakefileDirectory)) > 0 {
		return commandConfiguration.MakefileDirectory
	}

	contextAccessor := utils.NewCommandContextAccessor()
	if contextDirectory, directoryAvailable := contextAccessor.MakefileDirectory(commandContext(command)); directoryAvailable {
		return contextDirectory
	}

	return defaultMakefileDirectoryConstant
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider != nil {
		return builder.ConfigurationProvider()
	}
	return CommandConfiguration{}
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider != nil {
		if providedLogger := provider(); providedLogger != nil {
			return providedLogger
		}
	}
	return zap.NewNop()
}

func commandContext(command *cobra.Command) context.Context {
	if command != nil {
		if existingContext := command.Context(); existingContext != nil {
			return existingContext
		}
	}
	return context.Background()
}
