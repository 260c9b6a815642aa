// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tunnel

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"
)

// portPattern matches both the explicitly requested and the OS-selected
// forms of gcloud's listening message.
var portPattern = regexp.MustCompile(`(?:Listening on port|Picking local unused port) \[(\d+)\]`)

// ParsePort extracts the local port from a line of tunnel output.
func ParsePort(line string) (int, bool) {
	m := portPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	port, err := strconv.Atoi(m[1])
	if err != nil || port <= 0 || port > 65535 {
		return 0, false
	}
	return port, true
}

// discoverPort waits for the first line reporting the local port. It fails
// as soon as the process exits, without waiting out the deadline.
func (s *Supervisor) discoverPort(ctx context.Context, h *Handle) (int, error) {
	next := 0
	for {
		for _, line := range h.output.linesFrom(next) {
			next++
			if port, ok := ParsePort(line); ok {
				return port, nil
			}
		}

		select {
		case <-h.output.notify:
		case <-h.exited:
			// Pick up whatever the process wrote on its way out.
			select {
			case <-h.output.done:
			case <-time.After(outputDrainTimeout):
			}
			return 0, &Error{
				Kind:     KindLaunchFailure,
				ExitCode: h.exitCode,
				Timeout:  h.Config.Timeout,
				Output:   h.output.String(),
				Err:      h.waitErr,
			}
		case <-ctx.Done():
			return 0, deadlineError(ctx, KindDiscoveryTimeout, h, nil)
		}
	}
}

// deadlineError distinguishes the startup deadline from a caller
// cancellation.
func deadlineError(ctx context.Context, kind Kind, h *Handle, lastErr error) error {
	err := ctx.Err()
	if !errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Kind:     KindCanceled,
			ExitCode: -1,
			Timeout:  h.Config.Timeout,
			Output:   h.output.String(),
			Err:      err,
		}
	}
	if lastErr == nil {
		lastErr = err
	}
	return &Error{
		Kind:     kind,
		ExitCode: -1,
		Timeout:  h.Config.Timeout,
		Output:   h.output.String(),
		Err:      lastErr,
	}
}
