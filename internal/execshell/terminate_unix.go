//go:build darwin || linux

package execshell

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// terminationGracePeriod is the window between the graceful SIGTERM and the
// forced SIGKILL of a process group whose context has ended.
const terminationGracePeriod = 2 * time.Second

// configureProcessTermination places the child in its own process group and
// installs a Cancel hook that terminates the entire group when the execution
// context ends. Make recipes spawn sub-shells; signalling only the immediate
// child would leave those running after a timeout.
func configureProcessTermination(command *exec.Cmd) {
	if command.SysProcAttr == nil {
		command.SysProcAttr = &syscall.SysProcAttr{}
	}
	command.SysProcAttr.Setpgid = true

	command.Cancel = func() error {
		process := command.Process
		if process == nil || process.Pid <= 1 {
			return os.ErrProcessDone
		}

		processGroup := -process.Pid
		terminationError := syscall.Kill(processGroup, syscall.SIGTERM)
		if errors.Is(terminationError, syscall.ESRCH) {
			return os.ErrProcessDone
		}

		time.AfterFunc(terminationGracePeriod, func() {
			_ = syscall.Kill(processGroup, syscall.SIGKILL)
		})

		return terminationError
	}

	// Unblocks Wait even if an orphaned grandchild keeps the output pipes open.
	command.WaitDelay = terminationGracePeriod + time.Second
}
