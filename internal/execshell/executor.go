package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	commandStartedMessageConstant             = "executing command"
	commandCompletedMessageConstant           = "command completed"
	commandFailedMessageConstant              = "command failed"
	commandExecutionFailedMessageConstant     = "command execution failed"
	logFieldCommandConstant                   = "command"
	logFieldArgumentsConstant                 = "arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	commandFailedTemplateConstant             = "%s %s failed with exit code %d%s"
	commandExecutionFailedTemplateConstant    = "%s %s failed: %s"
	standardErrorSuffixTemplateConstant       = ": %s"
	commandArgumentsJoinSeparatorConstant     = " "
	emptyStringConstant                       = ""
)

// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandName identifies a supported executable.
type CommandName string

// CommandMake names the make executable.
const CommandMake CommandName = "make"

// CommandDetails describes a single command invocation.
type CommandDetails struct {
	// Arguments are passed literally to the executable, never through a shell.
	Arguments []string
	// WorkingDirectory is handed to the child process; the caller's working
	// directory is never mutated.
	WorkingDirectory string
	// Environment fully replaces the child environment when non-nil.
	Environment []string
	// ExecutablePath overrides Name with a resolved absolute binary path.
	ExecutablePath string
}

// ShellCommand combines a CommandName with invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error renders the failure with exit code and captured standard error.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(
		commandFailedTemplateConstant,
		failure.Command.Name,
		joinArguments(failure.Command.Details.Arguments),
		failure.Result.ExitCode,
		formatStandardErrorSuffix(failure.Result.StandardError),
	)
}

// CommandExecutionError reports a command that could not run at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error renders the underlying execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(
		commandExecutionFailedTemplateConstant,
		failure.Command.Name,
		joinArguments(failure.Command.Details.Arguments),
		failure.Cause,
	)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As checks.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor coordinates command execution with structured logging.
type ShellExecutor struct {
	logger        *zap.Logger
	commandRunner CommandRunner
}

// NewShellExecutor constructs a ShellExecutor from the provided collaborators.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	return &ShellExecutor{logger: logger, commandRunner: commandRunner}, nil
}

// ExecuteMake runs the make executable with the provided details.
func (executor *ShellExecutor) ExecuteMake(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandMake, Details: details})
}

// Execute runs the supplied command and classifies the outcome.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Debug(
		commandStartedMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executionFailure := CommandExecutionError{Command: command, Cause: runError}
		executor.logger.Error(commandExecutionFailedMessageConstant,
			zap.String(logFieldCommandConstant, string(command.Name)),
			zap.Error(runError),
		)
		return ExecutionResult{}, executionFailure
	}

	if executionResult.ExitCode != 0 {
		commandFailure := CommandFailedError{Command: command, Result: executionResult}
		executor.logger.Debug(commandFailedMessageConstant,
			zap.String(logFieldCommandConstant, string(command.Name)),
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		)
		return executionResult, commandFailure
	}

	executor.logger.Debug(
		commandCompletedMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
	)

	return executionResult, nil
}

func joinArguments(arguments []string) string {
	return strings.Join(arguments, commandArgumentsJoinSeparatorConstant)
}

func formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}
