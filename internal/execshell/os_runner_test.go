//go:build darwin || linux

package execshell_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/makemcp/internal/execshell"
)

const (
	testShellCommandNameConstant      = "sh"
	testShellCommandFlagConstant      = "-c"
	testEchoBothStreamsScriptConstant = "echo stdout-line; echo stderr-line 1>&2"
	testExitCodeScriptConstant        = "exit 7"
	testSleepScriptConstant           = "sleep 30"
	testWorkingDirectoryScriptConstant = "pwd"
	testEnvironmentScriptConstant     = "echo \"$MAKEMCP_PROBE\""
	testProbeVariableConstant         = "MAKEMCP_PROBE=probe-value"
	testProbeValueConstant            = "probe-value"
)

func newShellCommand(script string, details execshell.CommandDetails) execshell.ShellCommand {
	details.Arguments = []string{testShellCommandFlagConstant, script}
	return execshell.ShellCommand{Name: execshell.CommandName(testShellCommandNameConstant), Details: details}
}

func TestOSCommandRunnerCapturesBothStreams(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	executionResult, runError := runner.Run(context.Background(), newShellCommand(testEchoBothStreamsScriptConstant, execshell.CommandDetails{}))
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 0, executionResult.ExitCode)
	require.Contains(testInstance, executionResult.StandardOutput, "stdout-line")
	require.Contains(testInstance, executionResult.StandardError, "stderr-line")
}

func TestOSCommandRunnerReportsExitCodeWithoutError(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	executionResult, runError := runner.Run(context.Background(), newShellCommand(testExitCodeScriptConstant, execshell.CommandDetails{}))
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 7, executionResult.ExitCode)
}

func TestOSCommandRunnerHonorsWorkingDirectory(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()
	workingDirectory := testInstance.TempDir()

	executionResult, runError := runner.Run(context.Background(), newShellCommand(testWorkingDirectoryScriptConstant, execshell.CommandDetails{
		WorkingDirectory: workingDirectory,
	}))
	require.NoError(testInstance, runError)
	require.Contains(testInstance, executionResult.StandardOutput, workingDirectory)
}

func TestOSCommandRunnerReplacesEnvironment(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	executionResult, runError := runner.Run(context.Background(), newShellCommand(testEnvironmentScriptConstant, execshell.CommandDetails{
		Environment: []string{testProbeVariableConstant},
	}))
	require.NoError(testInstance, runError)
	require.Contains(testInstance, executionResult.StandardOutput, testProbeValueConstant)
}

func TestOSCommandRunnerTerminatesProcessGroupOnContextTimeout(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	timeoutContext, cancelTimeout := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancelTimeout()

	startTime := time.Now()
	executionResult, runError := runner.Run(timeoutContext, newShellCommand(testSleepScriptConstant, execshell.CommandDetails{}))
	elapsedTime := time.Since(startTime)

	require.Less(testInstance, elapsedTime, 10*time.Second)
	if runError == nil {
		require.NotEqual(testInstance, 0, executionResult.ExitCode)
	}
}
