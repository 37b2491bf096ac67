//go:build !windows

package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid, taking the
// browser's renderer and GPU helpers down with it. Non-positive pids are
// ignored: -0 would signal our own group.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	// The launcher's own Kill runs afterwards, so the error is not needed.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
