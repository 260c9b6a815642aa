// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package connection

import (
	"context"
	"sync"

	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/tunnel"
)

// fakeSupervisor hands out ports from a sequence and records calls.
type fakeSupervisor struct {
	mu         sync.Mutex
	nextPort   int
	port       int
	ensureErr  error
	configs    []tunnel.Config
	spawns     int
	terminates int
}

func (f *fakeSupervisor) EnsureRunning(_ context.Context, cfg tunnel.Config) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs = append(f.configs, cfg)
	if f.ensureErr != nil {
		return 0, f.ensureErr
	}
	if f.port != 0 {
		return f.port, nil
	}
	if f.nextPort == 0 {
		f.nextPort = 40000
	}
	f.nextPort++
	f.port = f.nextPort
	f.spawns++
	return f.port, nil
}

func (f *fakeSupervisor) Terminate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminates++
	f.port = 0
}

func (f *fakeSupervisor) Port() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.port
}

// fakeProtocol records what the Connection asks of it.
type fakeProtocol struct {
	mu         sync.Mutex
	targets    []Target
	connectErr error
	closeErr   error
	closePanic bool
	execs      []string
	closes     int
	resets     int
	onReset    func()
}

func (f *fakeProtocol) Connect(_ context.Context, t Target) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets = append(f.targets, t)
	return f.connectErr
}

func (f *fakeProtocol) Exec(_ context.Context, command string) (*ExecResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, command)
	return &ExecResult{Stdout: []byte("ok")}, nil
}

func (f *fakeProtocol) Close() error {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()
	if f.closePanic {
		panic("close exploded")
	}
	return f.closeErr
}

func (f *fakeProtocol) Reset() {
	f.mu.Lock()
	f.resets++
	f.mu.Unlock()
	if f.onReset != nil {
		f.onReset()
	}
}

func (f *fakeProtocol) lastTarget() Target {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.targets[len(f.targets)-1]
}

func testAttributes() *ConnectionAttributes {
	return &ConnectionAttributes{
		InstanceName:      "win-1",
		Project:           "p",
		Zone:              "z",
		IAPTunnelTimeout:  DefaultIAPTunnelTimeout,
		RemoteAddr:        "10.0.0.2",
		RemoteUser:        "ansible_admin",
		RemotePassword:    "hunter2",
		Port:              DefaultPort,
		Path:              DefaultPath,
		Transport:         []string{"ntlm"},
		ConnectionTimeout: DefaultConnectionTimeout,
		Kerberos:          KerberosOptions{Command: "kinit", EnvVars: []string{}},
	}
}
