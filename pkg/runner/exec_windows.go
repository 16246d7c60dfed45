//go:build windows

package runner

import (
	"os/exec"
	"syscall"
)

// setShellLine bypasses the argv escaping os/exec applies on Windows,
// which cmd.exe does not understand.
func setShellLine(cmd *exec.Cmd, line string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: windowsCmdLine(line)}
}
