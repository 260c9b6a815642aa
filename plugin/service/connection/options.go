// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package connection

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/tunnel"
)

// TunnelSupervisor starts and stops the tunnel behind a Connection.
// *tunnel.Supervisor implements it.
type TunnelSupervisor interface {
	EnsureRunning(ctx context.Context, cfg tunnel.Config) (int, error)
	Terminate()
	Port() int
}

var _ TunnelSupervisor = (*tunnel.Supervisor)(nil)

// Options holds the Connection settings.
type Options struct {
	WithLogger        hclog.Logger
	WithSupervisor    TunnelSupervisor
	WithTunnelOptions []tunnel.Option
}

// Option - how Options are passed as arguments
type Option func(*Options) error

func getOpts(opts ...Option) (*Options, error) {
	defaultOptions := getDefaultOptions()
	for _, opt := range opts {
		if err := opt(defaultOptions); err != nil {
			return nil, err
		}
	}
	return defaultOptions, nil
}

func getDefaultOptions() *Options {
	return &Options{
		WithLogger: hclog.NewNullLogger(),
	}
}

// WithLogger sets the logger. It is also passed to the tunnel supervisor
// the Connection creates.
func WithLogger(l hclog.Logger) Option {
	return func(o *Options) error {
		if l == nil {
			return errors.New("logger is nil")
		}
		o.WithLogger = l
		return nil
	}
}

// WithSupervisor uses s instead of a new tunnel supervisor. Tunnel options
// are ignored when it is set.
func WithSupervisor(s TunnelSupervisor) Option {
	return func(o *Options) error {
		if s == nil {
			return errors.New("supervisor is nil")
		}
		o.WithSupervisor = s
		return nil
	}
}

// WithTunnelOptions configures the tunnel supervisor the Connection creates.
func WithTunnelOptions(opt ...tunnel.Option) Option {
	return func(o *Options) error {
		o.WithTunnelOptions = append(o.WithTunnelOptions, opt...)
		return nil
	}
}
