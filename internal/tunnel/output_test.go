// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tunnel

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOutputCollectorKeepsDrainingAfterLongLine(t *testing.T) {
	h, w := testHandle(t, time.Second)

	written := make(chan error, 1)
	go func() {
		_, err := w.Write([]byte("Testing if tunnel connection works.\n"))
		if err == nil {
			_, err = w.Write([]byte(strings.Repeat("x", maxOutputLine+1) + "\n"))
		}
		if err == nil {
			_, err = w.Write([]byte(strings.Repeat("y", 256*1024)))
		}
		w.Close()
		written <- err
	}()

	select {
	case err := <-written:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("writer blocked on a full pipe")
	}
	select {
	case <-h.output.done:
	case <-time.After(5 * time.Second):
		t.Fatal("collector did not finish")
	}
	require.Equal(t, []string{"Testing if tunnel connection works."}, h.output.linesFrom(0))
}

func TestOutputCollectorLongLineUnderLimit(t *testing.T) {
	h, w := testHandle(t, time.Second)
	long := strings.Repeat("z", 200*1024)

	go func() {
		_, _ = w.Write([]byte(long + "\nListening on port [9001].\n"))
		w.Close()
	}()

	select {
	case <-h.output.done:
	case <-time.After(5 * time.Second):
		t.Fatal("collector did not finish")
	}
	lines := h.output.linesFrom(0)
	require.Len(t, lines, 2)
	require.Len(t, lines[0], len(long))
	port, ok := ParsePort(lines[1])
	require.True(t, ok)
	require.Equal(t, 9001, port)
}
