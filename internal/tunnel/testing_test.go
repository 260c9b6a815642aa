// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tunnel

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

// testHandle returns a Handle with no process behind it. Output written to
// the returned writer is collected as if the tunnel had printed it.
func testHandle(t *testing.T, timeout time.Duration) (*Handle, *io.PipeWriter) {
	t.Helper()
	r, w := io.Pipe()
	h := &Handle{
		Config:   Config{Timeout: timeout},
		output:   newOutputCollector(),
		exited:   make(chan struct{}),
		exitCode: -1,
	}
	go h.output.run(r, hclog.NewNullLogger())
	t.Cleanup(func() { w.Close() })
	return h, w
}

// exit marks a testHandle's fake process as exited with code.
func exit(h *Handle, code int) {
	h.exitCode = code
	close(h.exited)
}

// freePort returns a local port with nothing listening on it.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func testSupervisor(t *testing.T, opt ...Option) *Supervisor {
	t.Helper()
	s, err := NewSupervisor(opt...)
	require.NoError(t, err)
	return s
}
