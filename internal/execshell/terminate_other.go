//go:build !darwin && !linux

package execshell

import (
	"os"
	"os/exec"
	"time"
)

const terminationWaitDelay = 3 * time.Second

// configureProcessTermination installs a Cancel hook that kills the child
// process when the execution context ends. Process groups are unavailable on
// this platform, so only the immediate child is signalled.
func configureProcessTermination(command *exec.Cmd) {
	command.Cancel = func() error {
		process := command.Process
		if process == nil {
			return os.ErrProcessDone
		}
		return process.Kill()
	}
	command.WaitDelay = terminationWaitDelay
}
