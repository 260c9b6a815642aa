// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tunnel

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Handle is one running tunnel process.
type Handle struct {
	// Config is the configuration the tunnel was launched with.
	Config Config
	// Port is the local port, or 0 until it has been discovered.
	Port int
	// Started is when the process was spawned.
	Started time.Time
	// Deadline is Started plus Config.Timeout.
	Deadline time.Time

	cmd    *exec.Cmd
	output *outputCollector

	// exited is closed once the process has been reaped. exitCode and
	// waitErr are written before the close.
	exited   chan struct{}
	exitCode int
	waitErr  error
}

// Pid returns the process id of the tunnel.
func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}

// alive is a non-blocking liveness check.
func (h *Handle) alive() bool {
	select {
	case <-h.exited:
		return false
	default:
		return true
	}
}

// waitExit waits up to d for the process to be reaped.
func (h *Handle) waitExit(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-h.exited:
		return true
	case <-timer.C:
		return false
	}
}

// waitGroupExit waits up to d for the process to be reaped and for the
// rest of its process group to go away.
func (h *Handle) waitGroupExit(d time.Duration) bool {
	deadline := time.Now().Add(d)
	if !h.waitExit(d) {
		return false
	}
	for groupAlive(h.cmd.Process) {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(groupPollInterval)
	}
	return true
}

// Exited is closed once the tunnel process has exited.
func (h *Handle) Exited() <-chan struct{} {
	return h.exited
}

// ExitCode is the exit code of the process, or -1 while it runs or when it
// was ended by a signal.
func (h *Handle) ExitCode() int {
	select {
	case <-h.exited:
		return h.exitCode
	default:
		return -1
	}
}

// Output returns everything the process has printed so far. Once the
// process has exited it first waits briefly for the pipe to drain.
func (h *Handle) Output() string {
	if !h.alive() {
		select {
		case <-h.output.done:
		case <-time.After(outputDrainTimeout):
		}
	}
	return h.output.String()
}

// Supervisor owns the lifecycle of at most one tunnel process. It is safe
// for concurrent use, but the phases of a launch run sequentially on the
// calling goroutine.
type Supervisor struct {
	opts   *Options
	logger hclog.Logger

	mu     sync.Mutex
	handle *Handle
	spawns int
}

// NewSupervisor returns a Supervisor with no tunnel running.
func NewSupervisor(opt ...Option) (*Supervisor, error) {
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, fmt.Errorf("error reading tunnel options: %w", err)
	}
	return &Supervisor{
		opts:   opts,
		logger: opts.WithLogger.Named("iap-tunnel"),
	}, nil
}

// EnsureRunning returns the local port of a ready tunnel for cfg, starting
// one if needed. When the current tunnel process is still alive its port is
// returned without any other work. A handle whose process has exited is
// treated as absent.
//
// Port discovery and readiness probing share one deadline of cfg.Timeout
// from the launch. On any failure the process group is torn down and a
// *Error carrying the process output is returned. Missing project or zone
// is reported as an InvalidArgument error before anything is spawned.
func (s *Supervisor) EnsureRunning(ctx context.Context, cfg Config) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h := s.handle; h != nil {
		if h.alive() && h.Port != 0 {
			return h.Port, nil
		}
		s.logger.Debug("discarding dead tunnel", "pid", h.Pid(), "exit_code", h.exitCode)
		s.terminateLocked()
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	h, err := s.spawn(cfg)
	if err != nil {
		return 0, err
	}
	s.handle = h

	port, err := s.discoverPort(ctx, h)
	if err != nil {
		s.terminateLocked()
		return 0, err
	}
	h.Port = port
	s.logger.Debug("tunnel reported local port", "instance", cfg.Instance, "port", port)

	if err := s.waitReady(ctx, h, port); err != nil {
		s.terminateLocked()
		return 0, err
	}

	s.logger.Debug("tunnel ready",
		"local", fmt.Sprintf("%s:%d", LocalHost, port),
		"instance", cfg.Instance,
		"remote_port", cfg.RemotePort,
		"elapsed", time.Since(h.Started))
	return port, nil
}

func (s *Supervisor) spawn(cfg Config) (*Handle, error) {
	var cmd *exec.Cmd
	if s.opts.WithCommandFn != nil {
		cmd = s.opts.WithCommandFn(cfg)
	} else {
		cmd = exec.Command(s.opts.WithGcloudPath, cfg.Args()...)
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, &Error{Kind: KindSpawn, ExitCode: -1, Timeout: cfg.Timeout, Err: err}
	}
	cmd.Stdin = nil
	cmd.Stdout = w
	cmd.Stderr = w
	cmd.SysProcAttr = sysProcAttr()

	s.logger.Debug("starting tunnel", "instance", cfg.Instance, "command", strings.Join(cmd.Args, " "))

	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		return nil, &Error{Kind: KindSpawn, ExitCode: -1, Timeout: cfg.Timeout, Err: err}
	}
	// The child holds its own copy of the write end.
	w.Close()
	s.spawns++

	now := time.Now()
	h := &Handle{
		Config:   cfg,
		Started:  now,
		Deadline: now.Add(cfg.Timeout),
		cmd:      cmd,
		output:   newOutputCollector(),
		exited:   make(chan struct{}),
		exitCode: -1,
	}
	go h.output.run(r, s.logger)
	go func() {
		h.waitErr = cmd.Wait()
		h.exitCode = cmd.ProcessState.ExitCode()
		close(h.exited)
	}()
	return h, nil
}

// Terminate stops the current tunnel, if any. It is idempotent and never
// fails: signaling errors (typically a process that already exited) are
// logged and ignored, and the handle is cleared regardless.
func (s *Supervisor) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminateLocked()
}

func (s *Supervisor) terminateLocked() {
	h := s.handle
	if h == nil {
		return
	}
	defer func() {
		h.Port = 0
		s.handle = nil
	}()

	if h.cmd == nil || h.cmd.Process == nil {
		return
	}

	// The group is signaled even when the leader has already exited, so
	// children it left behind are stopped too.
	logger := s.logger.With("pid", h.Pid())
	logger.Debug("stopping tunnel", "leader_alive", h.alive())
	if err := terminateGroup(h.cmd.Process); err != nil {
		logger.Debug("error sending SIGTERM to tunnel process group", "error", err)
	}
	if h.waitGroupExit(s.opts.WithGracePeriod) {
		return
	}

	logger.Debug("tunnel did not stop gracefully, killing process group")
	if err := killGroup(h.cmd.Process); err != nil {
		logger.Debug("error sending SIGKILL to tunnel process group", "error", err)
	}
	if !h.waitGroupExit(s.opts.WithGracePeriod) {
		logger.Debug("tunnel process group still running after SIGKILL")
	}
}

// Port returns the local port of the current tunnel, or 0 when there is no
// live tunnel.
func (s *Supervisor) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil || !s.handle.alive() {
		return 0
	}
	return s.handle.Port
}

// Running reports whether a tunnel process is alive.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil && s.handle.alive()
}

// Handle returns the current handle, or nil.
func (s *Supervisor) Handle() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// Spawns returns how many tunnel processes this Supervisor has started.
func (s *Supervisor) Spawns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawns
}
