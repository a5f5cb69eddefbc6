package execution

import "fmt"

const (
	invalidTargetTemplateConstant         = "invalid target name: %s"
	executionTimeoutTemplateConstant      = "target %s timed out after %d seconds"
	targetExecutionFailedTemplateConstant = "target %s failed with exit code %d%s"
	spawnFailureTemplateConstant          = "unable to start make for target %s: %v"
	standardErrorSuffixTemplateConstant   = ": %s"
)

// InvalidTargetError reports a target name rejected before any process spawn.
type InvalidTargetError struct {
	Target string
}

// Error names the rejected target.
func (invalidTarget InvalidTargetError) Error() string {
	return fmt.Sprintf(invalidTargetTemplateConstant, invalidTarget.Target)
}

// ExecutionTimeoutError reports a run terminated by its deadline.
type ExecutionTimeoutError struct {
	Target         string
	TimeoutSeconds int
}

// Error names the target and the deadline that expired.
func (executionTimeout ExecutionTimeoutError) Error() string {
	return fmt.Sprintf(executionTimeoutTemplateConstant, executionTimeout.Target, executionTimeout.TimeoutSeconds)
}

// TargetExecutionFailedError reports a make run that exited non-zero.
type TargetExecutionFailedError struct {
	Target        string
	ExitCode      int
	StandardError string
}

// Error renders the exit code with the captured standard error when present.
func (executionFailure TargetExecutionFailedError) Error() string {
	standardErrorSuffix := ""
	if len(executionFailure.StandardError) > 0 {
		standardErrorSuffix = fmt.Sprintf(standardErrorSuffixTemplateConstant, executionFailure.StandardError)
	}
	return fmt.Sprintf(targetExecutionFailedTemplateConstant, executionFailure.Target, executionFailure.ExitCode, standardErrorSuffix)
}

// SpawnFailureError reports a make process that could not be started at all.
type SpawnFailureError struct {
	Target string
	Cause  error
}

// Error renders the underlying start failure.
func (spawnFailure SpawnFailureError) Error() string {
	return fmt.Sprintf(spawnFailureTemplateConstant, spawnFailure.Target, spawnFailure.Cause)
}

// Unwrap exposes the underlying cause for errors.Is inspection.
func (spawnFailure SpawnFailureError) Unwrap() error {
	return spawnFailure.Cause
}
