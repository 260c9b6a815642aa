// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build windows

package tunnel

import (
	"os"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// Windows has no SIGTERM; both phases of Terminate end the process.
// Process.Kill ends the leader only: children gcloud started are not
// signaled, since the console process group is not a kill target. Ending
// them would need the tunnel assigned to a job object.
func terminateGroup(p *os.Process) error {
	return p.Kill()
}

func killGroup(p *os.Process) error {
	return p.Kill()
}

// groupAlive is false: only the leader is tracked on Windows.
func groupAlive(*os.Process) bool {
	return false
}
