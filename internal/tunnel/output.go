// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tunnel

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// outputCollector reads the tunnel's combined output for the whole life of
// the process, keeping every line. Readers are woken through notify, which
// never blocks the collector, so the pipe keeps draining once discovery has
// stopped looking.
type outputCollector struct {
	mu     sync.Mutex
	lines  []string
	notify chan struct{}
	done   chan struct{}
}

func newOutputCollector() *outputCollector {
	return &outputCollector{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (c *outputCollector) run(r io.ReadCloser, logger hclog.Logger) {
	defer close(c.done)
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOutputLine)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		logger.Trace("tunnel output", "line", line)

		c.mu.Lock()
		c.lines = append(c.lines, line)
		c.mu.Unlock()

		select {
		case c.notify <- struct{}{}:
		default:
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Trace("tunnel output closed", "error", err)
		// Keep draining so the process never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, r)
	}
}

// linesFrom returns a copy of the lines at index i and beyond.
func (c *outputCollector) linesFrom(i int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i >= len(c.lines) {
		return nil
	}
	return append([]string(nil), c.lines[i:]...)
}

func (c *outputCollector) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.lines, "\n")
}
