package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/makemcp/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
	testTargetArgumentConstant                   = "build"
	testStandardOutputConstant                   = "ok"
	testStandardErrorOutputConstant              = "failure"
	testRunnerFailureMessageConstant             = "runner failure"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	testCases := []struct {
		name             string
		runnerResult     execshell.ExecutionResult
		runnerError      error
		expectErrorType  any
		expectedLogCount int
	}{
		{
			name: testExecutionSuccessCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardOutput: testStandardOutputConstant,
				ExitCode:       0,
			},
			expectedLogCount: 2,
		},
		{
			name: testExecutionFailureCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardError: testStandardErrorOutputConstant,
				ExitCode:      1,
			},
			expectErrorType:  execshell.CommandFailedError{},
			expectedLogCount: 2,
		},
		{
			name:             testExecutionRunnerErrorCaseNameConstant,
			runnerError:      errors.New(testRunnerFailureMessageConstant),
			expectErrorType:  execshell.CommandExecutionError{},
			expectedLogCount: 2,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}

			executor, creationError := execshell.NewShellExecutor(logger, recordingRunner)
			require.NoError(testInstance, creationError)

			executionResult, executionError := executor.ExecuteMake(context.Background(), execshell.CommandDetails{
				Arguments: []string{testTargetArgumentConstant},
			})

			require.Len(testInstance, recordingRunner.recordedCommands, 1)
			require.Equal(testInstance, execshell.CommandMake, recordingRunner.recordedCommands[0].Name)
			require.Equal(testInstance, []string{testTargetArgumentConstant}, recordingRunner.recordedCommands[0].Details.Arguments)

			switch testCase.expectErrorType.(type) {
			case nil:
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.runnerResult, executionResult)
			case execshell.CommandFailedError:
				var commandFailure execshell.CommandFailedError
				require.ErrorAs(testInstance, executionError, &commandFailure)
				require.Equal(testInstance, testCase.runnerResult.ExitCode, commandFailure.Result.ExitCode)
			case execshell.CommandExecutionError:
				var executionFailure execshell.CommandExecutionError
				require.ErrorAs(testInstance, executionError, &executionFailure)
				require.ErrorIs(testInstance, executionFailure.Cause, testCase.runnerError)
			}

			require.Equal(testInstance, testCase.expectedLogCount, observedLogs.Len())
		})
	}
}

func TestCommandFailedErrorMessageIncludesStandardError(testInstance *testing.T) {
	commandFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{
			Name:    execshell.CommandMake,
			Details: execshell.CommandDetails{Arguments: []string{testTargetArgumentConstant}},
		},
		Result: execshell.ExecutionResult{ExitCode: 2, StandardError: testStandardErrorOutputConstant},
	}

	renderedMessage := commandFailure.Error()
	require.Contains(testInstance, renderedMessage, "exit code 2")
	require.Contains(testInstance, renderedMessage, testStandardErrorOutputConstant)
	require.Contains(testInstance, renderedMessage, testTargetArgumentConstant)
}
