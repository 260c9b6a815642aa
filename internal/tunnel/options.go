// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tunnel

import (
	"context"
	"errors"
	"net"
	"os/exec"
	"time"

	"github.com/hashicorp/go-hclog"
)

// CommandFn builds the command that starts a tunnel for cfg. The
// Supervisor sets the process attributes and standard streams itself.
type CommandFn func(cfg Config) *exec.Cmd

type dialFn func(ctx context.Context, network, address string) (net.Conn, error)

// Options holds the Supervisor settings.
type Options struct {
	WithLogger       hclog.Logger
	WithGcloudPath   string
	WithCommandFn    CommandFn
	WithGracePeriod  time.Duration
	WithPollInterval time.Duration
	WithProbeTimeout time.Duration

	withDialFn dialFn
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
		WithLogger:       hclog.NewNullLogger(),
		WithGcloudPath:   DefaultGcloudPath,
		WithGracePeriod:  DefaultGracePeriod,
		WithPollInterval: DefaultPollInterval,
		WithProbeTimeout: DefaultProbeTimeout,
	}
}

// WithLogger sets the logger used for tunnel lifecycle events.
func WithLogger(l hclog.Logger) Option {
	return func(o *Options) error {
		if l == nil {
			return errors.New("logger is nil")
		}
		o.WithLogger = l
		return nil
	}
}

// WithGcloudPath sets the gcloud binary used by the default command.
func WithGcloudPath(p string) Option {
	return func(o *Options) error {
		if p == "" {
			return errors.New("gcloud path is empty")
		}
		o.WithGcloudPath = p
		return nil
	}
}

// WithCommandFn replaces the command used to start a tunnel.
func WithCommandFn(fn CommandFn) Option {
	return func(o *Options) error {
		o.WithCommandFn = fn
		return nil
	}
}

// WithGracePeriod sets how long Terminate waits after each signal.
func WithGracePeriod(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return errors.New("grace period must be positive")
		}
		o.WithGracePeriod = d
		return nil
	}
}

// WithPollInterval sets the pause between failed readiness probes.
func WithPollInterval(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		o.WithPollInterval = d
		return nil
	}
}

// WithProbeTimeout bounds a single readiness connect attempt.
func WithProbeTimeout(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return errors.New("probe timeout must be positive")
		}
		o.WithProbeTimeout = d
		return nil
	}
}

func withDialFn(fn dialFn) Option {
	return func(o *Options) error {
		o.withDialFn = fn
		return nil
	}
}
