// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tunnel

import (
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies a tunnel startup failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindSpawn means the tunnel process could not be started at all.
	KindSpawn
	// KindLaunchFailure means the process exited before reporting a port.
	KindLaunchFailure
	// KindDiscoveryTimeout means no port was reported before the deadline.
	KindDiscoveryTimeout
	// KindReadinessTimeout means the port never accepted a connection
	// before the deadline.
	KindReadinessTimeout
	// KindProcessExited means the process exited while the port was being
	// probed.
	KindProcessExited
	// KindCanceled means the caller's context was canceled during startup.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindSpawn:
		return "spawn"
	case KindLaunchFailure:
		return "launch failure"
	case KindDiscoveryTimeout:
		return "discovery timeout"
	case KindReadinessTimeout:
		return "readiness timeout"
	case KindProcessExited:
		return "process exited"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is returned by EnsureRunning when a tunnel could not be brought up.
// Output holds every diagnostic line the process produced, so the failure
// can be understood without re-running it. It converts to a grpc status
// with code Unavailable.
type Error struct {
	Kind Kind
	// ExitCode is the exit code of the process, or -1 when it had not
	// exited or was killed by a signal.
	ExitCode int
	// Timeout is the startup timeout in effect.
	Timeout time.Duration
	// Output is the captured stdout and stderr of the process.
	Output string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindSpawn:
		return fmt.Sprintf("error starting IAP tunnel process: %v", e.Err)
	case KindLaunchFailure:
		return fmt.Sprintf("IAP tunnel process exited unexpectedly with exit code %d: %s", e.ExitCode, e.Output)
	case KindDiscoveryTimeout:
		return fmt.Sprintf("timed out waiting for IAP tunnel port after %s: %s", e.Timeout, e.Output)
	case KindReadinessTimeout:
		msg := fmt.Sprintf("timed out waiting for IAP tunnel to accept connections after %s", e.Timeout)
		if e.Err != nil {
			msg = fmt.Sprintf("%s (last error: %v)", msg, e.Err)
		}
		return fmt.Sprintf("%s: %s", msg, e.Output)
	case KindProcessExited:
		return fmt.Sprintf("IAP tunnel died while waiting for port to become ready (exit code %d): %s", e.ExitCode, e.Output)
	case KindCanceled:
		return fmt.Sprintf("IAP tunnel startup canceled: %v: %s", e.Err, e.Output)
	default:
		return fmt.Sprintf("IAP tunnel error: %v: %s", e.Err, e.Output)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// GRPCStatus lets status.Code and status.FromError classify tunnel
// failures as connection failures.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(codes.Unavailable, e.Error())
}
