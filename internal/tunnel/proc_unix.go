// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build unix

package tunnel

import (
	"os"
	"syscall"
)

// sysProcAttr starts the tunnel in a new session, which also makes it the
// leader of a new process group whose id is its pid. Signals sent to the
// parent's group do not reach it.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

// terminateGroup sends SIGTERM to every process in the tunnel's group. The
// group outlives its leader while any member runs; ESRCH means it is gone.
func terminateGroup(p *os.Process) error {
	return syscall.Kill(-p.Pid, syscall.SIGTERM)
}

// killGroup sends SIGKILL to every process in the tunnel's group.
func killGroup(p *os.Process) error {
	return syscall.Kill(-p.Pid, syscall.SIGKILL)
}

// groupAlive reports whether any process is left in the tunnel's group.
// It stays true for members that have exited but not been reaped.
func groupAlive(p *os.Process) bool {
	return syscall.Kill(-p.Pid, 0) == nil
}
