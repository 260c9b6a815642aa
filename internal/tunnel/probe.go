// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tunnel

import (
	"context"
	"net"
	"strconv"
	"time"
)

// waitReady retries TCP connects to the discovered port until one succeeds.
// gcloud prints the port once it has bound locally, which can be before
// the remote side of the tunnel is usable.
func (s *Supervisor) waitReady(ctx context.Context, h *Handle, port int) error {
	addr := net.JoinHostPort(LocalHost, strconv.Itoa(port))
	dial := s.opts.withDialFn
	if dial == nil {
		d := &net.Dialer{Timeout: s.opts.WithProbeTimeout}
		dial = d.DialContext
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		if !h.alive() {
			return s.exitedError(h)
		}

		probeCtx, cancel := context.WithTimeout(ctx, s.opts.WithProbeTimeout)
		conn, err := dial(probeCtx, "tcp", addr)
		cancel()
		if err == nil {
			conn.Close()
			s.logger.Trace("tunnel port accepted connection", "address", addr, "attempt", attempt)
			return nil
		}
		lastErr = err
		s.logger.Trace("tunnel port not ready", "address", addr, "attempt", attempt, "error", err)

		timer := time.NewTimer(s.opts.WithPollInterval)
		select {
		case <-timer.C:
		case <-h.exited:
			timer.Stop()
			return s.exitedError(h)
		case <-ctx.Done():
			timer.Stop()
			return deadlineError(ctx, KindReadinessTimeout, h, lastErr)
		}
	}
}

func (s *Supervisor) exitedError(h *Handle) error {
	return &Error{
		Kind:     KindProcessExited,
		ExitCode: h.exitCode,
		Timeout:  h.Config.Timeout,
		Output:   h.output.String(),
		Err:      h.waitErr,
	}
}
