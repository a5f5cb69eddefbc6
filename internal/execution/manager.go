package execution

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/makemcp/internal/execshell"
	"github.com/temirov/makemcp/internal/makefiles"
	"github.com/temirov/makemcp/internal/security"
)

const (
	// MinimumTimeoutSeconds bounds the per-run timeout from below.
	MinimumTimeoutSeconds = 1
	// MaximumTimeoutSeconds bounds the per-run timeout from above.
	MaximumTimeoutSeconds = 3600
	// DefaultTimeoutSeconds applies when the caller supplies no timeout.
	DefaultTimeoutSeconds = 300

	makeExecutableNameConstant = "make"

	makefileDirectoryNotConfiguredMessage = "makefile directory not configured"
	makeExecutorNotConfiguredMessage      = "make executor not configured"
	pathGuardNotConfiguredMessage         = "path guard not configured"
	environmentSanitizerNotConfiguredMsg  = "environment sanitizer not configured"

	targetRunStartedMessageConstant   = "running make target"
	targetRunCompletedMessageConstant = "make target completed"
	logFieldTargetConstant            = "target"
	logFieldTimeoutSecondsConstant    = "timeout_seconds"
	logFieldWorkingDirectoryConstant  = "working_directory"
)

// ErrMakefileDirectoryNotConfigured indicates the manager was constructed without a directory.
var ErrMakefileDirectoryNotConfigured = errors.New(makefileDirectoryNotConfiguredMessage)

// ErrMakeExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrMakeExecutorNotConfigured = errors.New(makeExecutorNotConfiguredMessage)

// ErrPathGuardNotConfigured indicates the manager was constructed without a path guard.
var ErrPathGuardNotConfigured = errors.New(pathGuardNotConfiguredMessage)

// ErrEnvironmentSanitizerNotConfigured indicates the manager was constructed without a sanitizer.
var ErrEnvironmentSanitizerNotConfigured = errors.New(environmentSanitizerNotConfiguredMsg)

// MakeExecutor represents the ability to run the make binary.
type MakeExecutor interface {
	ExecuteMake(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ExecutableResolver locates a binary on the caller's search path.
type ExecutableResolver func(executableName string) (string, error)

// EnvironmentProvider supplies the environment handed to sanitization.
type EnvironmentProvider func() []string

// ManagerConfiguration carries the settings for an ExecutionManager.
type ManagerConfiguration struct {
	MakefileDirectory     string
	DefaultTimeoutSeconds int
}

// ManagerDependencies enumerates collaborators required by the manager.
// ExecutableResolver and EnvironmentProvider default to exec.LookPath and
// os.Environ when nil.
type ManagerDependencies struct {
	MakeExecutor         MakeExecutor
	PathGuard            *security.PathGuard
	EnvironmentSanitizer *security.EnvironmentSanitizer
	ExecutableResolver   ExecutableResolver
	EnvironmentProvider  EnvironmentProvider
	Logger               *zap.Logger
}

// ExecutionManager runs make targets inside the configured project boundary.
type ExecutionManager struct {
	configuration        ManagerConfiguration
	makeExecutor         MakeExecutor
	pathGuard            *security.PathGuard
	environmentSanitizer *security.EnvironmentSanitizer
	executableResolver   ExecutableResolver
	environmentProvider  EnvironmentProvider
	logger               *zap.Logger
}

// NewExecutionManager validates the configuration and dependencies and
// constructs an ExecutionManager instance.
func NewExecutionManager(configuration ManagerConfiguration, dependencies ManagerDependencies) (*ExecutionManager, error) {
	if len(strings.TrimSpace(configuration.MakefileDirectory)) == 0 {
		return nil, ErrMakefileDirectoryNotConfigured
	}
	if dependencies.MakeExecutor == nil {
		return nil, ErrMakeExecutorNotConfigured
	}
	if dependencies.PathGuard == nil {
		return nil, ErrPathGuardNotConfigured
	}
	if dependencies.EnvironmentSanitizer == nil {
		return nil, ErrEnvironmentSanitizerNotConfigured
	}

	executableResolver := dependencies.ExecutableResolver
	if executableResolver == nil {
		executableResolver = exec.LookPath
	}

	environmentProvider := dependencies.EnvironmentProvider
	if environmentProvider == nil {
		environmentProvider = os.Environ
	}

	managerLogger := dependencies.Logger
	if managerLogger == nil {
		managerLogger = zap.NewNop()
	}

	if configuration.DefaultTimeoutSeconds <= 0 {
		configuration.DefaultTimeoutSeconds = DefaultTimeoutSeconds
	}

	return &ExecutionManager{
		configuration:        configuration,
		makeExecutor:         dependencies.MakeExecutor,
		pathGuard:            dependencies.PathGuard,
		environmentSanitizer: dependencies.EnvironmentSanitizer,
		executableResolver:   executableResolver,
		environmentProvider:  environmentProvider,
		logger:               managerLogger,
	}, nil
}

// clampTimeoutSeconds resolves the effective timeout for a run: non-positive
// requests fall back to the configured default, and the result stays within
// the allowed bounds.
func (manager *ExecutionManager) clampTimeoutSeconds(requestedTimeoutSeconds int) int {
	effectiveTimeoutSeconds := requestedTimeoutSeconds
	if effectiveTimeoutSeconds <= 0 {
		effectiveTimeoutSeconds = manager.configuration.DefaultTimeoutSeconds
	}
	if effectiveTimeoutSeconds < MinimumTimeoutSeconds {
		effectiveTimeoutSeconds = MinimumTimeoutSeconds
	}
	if effectiveTimeoutSeconds > MaximumTimeoutSeconds {
		effectiveTimeoutSeconds = MaximumTimeoutSeconds
	}
	return effectiveTimeoutSeconds
}

// RunTarget executes the named make target and returns its standard output.
// The target name is validated before any process is spawned, the make binary
// is resolved on the parent's search path because the child environment drops
// PATH, and the run is cancelled when the timeout or the caller's context
// expires.
func (manager *ExecutionManager) RunTarget(executionContext context.Context, targetName string, timeoutSeconds int) (string, error) {
	if !makefiles.IsValidTargetName(targetName) {
		return "", InvalidTargetError{Target: targetName}
	}

	workingDirectory, validationError := manager.pathGuard.Validate(manager.configuration.MakefileDirectory, "")
	if validationError != nil {
		return "", validationError
	}

	makeExecutablePath, lookupError := manager.executableResolver(makeExecutableNameConstant)
	if lookupError != nil {
		return "", SpawnFailureError{Target: targetName, Cause: lookupError}
	}

	effectiveTimeoutSeconds := manager.clampTimeoutSeconds(timeoutSeconds)
	sanitizedEnvironment := manager.environmentSanitizer.Sanitize(manager.environmentProvider())

	manager.logger.Debug(
		targetRunStartedMessageConstant,
		zap.String(logFieldTargetConstant, targetName),
		zap.Int(logFieldTimeoutSecondsConstant, effectiveTimeoutSeconds),
		zap.String(logFieldWorkingDirectoryConstant, workingDirectory),
	)

	timeoutContext, cancelTimeout := context.WithTimeout(executionContext, time.Duration(effectiveTimeoutSeconds)*time.Second)
	defer cancelTimeout()

	executionResult, executionError := manager.makeExecutor.ExecuteMake(timeoutContext, execshell.CommandDetails{
		Arguments:        []string{targetName},
		WorkingDirectory: workingDirectory,
		Environment:      sanitizedEnvironment,
		ExecutablePath:   makeExecutablePath,
	})

	if contextError := executionContext.Err(); contextError != nil {
		return "", contextError
	}
	if errors.Is(timeoutContext.Err(), context.DeadlineExceeded) {
		return "", ExecutionTimeoutError{Target: targetName, TimeoutSeconds: effectiveTimeoutSeconds}
	}

	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return "", TargetExecutionFailedError{
				Target:        targetName,
				ExitCode:      commandFailure.Result.ExitCode,
				StandardError: strings.TrimSpace(commandFailure.Result.StandardError),
			}
		}
		return "", SpawnFailureError{Target: targetName, Cause: executionError}
	}

	manager.logger.Debug(
		targetRunCompletedMessageConstant,
		zap.String(logFieldTargetConstant, targetName),
	)

	return executionResult.StandardOutput, nil
}
