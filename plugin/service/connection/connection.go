// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package connection

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/tunnel"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// State is the lifecycle state of a Connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Connection runs a Protocol over an IAP tunnel. It owns exactly one
// tunnel, which it starts on connect and tears down on close and reset.
// Exec is passed through to the protocol.
type Connection struct {
	attrs      *ConnectionAttributes
	protocol   Protocol
	supervisor TunnelSupervisor
	logger     hclog.Logger

	mu    sync.Mutex
	state State
}

// NewConnection returns a disconnected Connection for the given attributes.
func NewConnection(attrs *ConnectionAttributes, protocol Protocol, opt ...Option) (*Connection, error) {
	if attrs == nil {
		return nil, status.Error(codes.InvalidArgument, "connection attributes are required")
	}
	if protocol == nil {
		return nil, status.Error(codes.InvalidArgument, "protocol is required")
	}
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "error reading connection options: %s", err)
	}

	logger := opts.WithLogger.Named("winrm-iap").With("instance", attrs.Instance())
	supervisor := opts.WithSupervisor
	if supervisor == nil {
		s, err := tunnel.NewSupervisor(append([]tunnel.Option{tunnel.WithLogger(logger)}, opts.WithTunnelOptions...)...)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "error creating tunnel supervisor: %s", err)
		}
		supervisor = s
	}

	return &Connection{
		attrs:      attrs,
		protocol:   protocol,
		supervisor: supervisor,
		logger:     logger,
	}, nil
}

// State returns the current lifecycle state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TunnelPort returns the local port of the tunnel, or 0 when none is up.
func (c *Connection) TunnelPort() int {
	return c.supervisor.Port()
}

// Connect brings up the tunnel and connects the protocol through it. It
// does nothing when already connected.
func (c *Connection) Connect(ctx context.Context) (*Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateConnected {
		return c, nil
	}
	if err := c.connectLocked(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Connection) connectLocked(ctx context.Context) error {
	EnsureNoProxyDefault()
	c.state = StateConnecting

	port, err := c.supervisor.EnsureRunning(ctx, c.attrs.TunnelConfig())
	if err != nil {
		c.state = StateDisconnected
		return err
	}

	target := c.target(port)
	c.logger.Debug("connecting through IAP tunnel",
		"local", fmt.Sprintf("%s:%d", target.Host, target.Port),
		"scheme", target.Scheme,
		"remote_port", c.attrs.Port)
	if err := c.protocol.Connect(ctx, target); err != nil {
		c.state = StateDisconnected
		return fmt.Errorf("error connecting to %s through IAP tunnel: %w", c.attrs.Instance(), err)
	}

	c.state = StateConnected
	return nil
}

// target points the configured protocol settings at the tunnel. The scheme
// comes from the remote port, not the local one, and certificate checks are
// disabled since the certificate names the instance rather than localhost.
func (c *Connection) target(port int) Target {
	return Target{
		Host:               tunnel.LocalHost,
		Port:               port,
		Scheme:             c.attrs.EffectiveScheme(),
		Path:               c.attrs.Path,
		User:               c.attrs.RemoteUser,
		Password:           c.attrs.RemotePassword,
		Transport:          c.attrs.Transport,
		InsecureSkipVerify: true,
		Timeout:            c.attrs.ConnectionTimeout,
		Kerberos:           c.attrs.Kerberos,
	}
}

// Exec runs command on the instance, connecting first if needed.
func (c *Connection) Exec(ctx context.Context, command string) (*ExecResult, error) {
	c.mu.Lock()
	if c.state != StateConnected {
		if err := c.connectLocked(ctx); err != nil {
			c.mu.Unlock()
			return nil, err
		}
	}
	c.mu.Unlock()
	return c.protocol.Exec(ctx, command)
}

// Reset tears down the tunnel and the protocol session and connects again
// over a new tunnel.
func (c *Connection) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("resetting connection")
	c.supervisor.Terminate()
	c.protocol.Reset()
	c.state = StateDisconnected
	return c.connectLocked(ctx)
}

// Close closes the protocol session and then the tunnel. The tunnel is torn
// down even when closing the session fails, and that failure is returned.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		c.supervisor.Terminate()
		c.state = StateDisconnected
	}()

	if err := c.protocol.Close(); err != nil {
		c.logger.Debug("error closing protocol session", "error", err)
		return fmt.Errorf("error closing connection to %s: %w", c.attrs.Instance(), err)
	}
	return nil
}
