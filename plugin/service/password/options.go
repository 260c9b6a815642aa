// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package password

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-hclog"
	cred "github.com/hashicorp/winrm-iap-plugin-gcp/internal/credential"
	"google.golang.org/api/option"
)

type instancesClientFn func(ctx context.Context, opts ...option.ClientOption) (InstancesAPI, error)

type clientOptionsFn func(ctx context.Context, c *cred.Config) ([]option.ClientOption, error)

// Options holds the PasswordService settings.
type Options struct {
	WithLogger           hclog.Logger
	WithGcloudPath       string
	WithAnsibleVaultPath string
	WithPasswordTimeout  time.Duration
	WithPollInterval     time.Duration
	// WithClientOptions are appended to the options of every Google Cloud
	// client the service creates.
	WithClientOptions []option.ClientOption

	withInstancesClientFn instancesClientFn
	withClientOptionsFn   clientOptionsFn
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
		WithLogger:            hclog.NewNullLogger(),
		WithGcloudPath:        DefaultGcloudPath,
		WithAnsibleVaultPath:  DefaultAnsibleVaultPath,
		WithPasswordTimeout:   DefaultPasswordTimeout,
		WithPollInterval:      DefaultPollInterval,
		withInstancesClientFn: newRESTInstances,
		withClientOptionsFn: func(ctx context.Context, c *cred.Config) ([]option.ClientOption, error) {
			return c.ClientOptions(ctx)
		},
	}
}

func WithLogger(l hclog.Logger) Option {
	return func(o *Options) error {
		if l == nil {
			return errors.New("logger is nil")
		}
		o.WithLogger = l
		return nil
	}
}

func WithGcloudPath(p string) Option {
	return func(o *Options) error {
		if p == "" {
			return errors.New("gcloud path is empty")
		}
		o.WithGcloudPath = p
		return nil
	}
}

func WithAnsibleVaultPath(p string) Option {
	return func(o *Options) error {
		if p == "" {
			return errors.New("ansible-vault path is empty")
		}
		o.WithAnsibleVaultPath = p
		return nil
	}
}

// WithPasswordTimeout bounds how long the api backend waits for the guest
// agent.
func WithPasswordTimeout(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return errors.New("password timeout must be positive")
		}
		o.WithPasswordTimeout = d
		return nil
	}
}

// WithPollInterval sets how often the api backend reads the serial port.
func WithPollInterval(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		o.WithPollInterval = d
		return nil
	}
}

func WithClientOptions(opts ...option.ClientOption) Option {
	return func(o *Options) error {
		o.WithClientOptions = append(o.WithClientOptions, opts...)
		return nil
	}
}

func withInstancesClient(fn instancesClientFn) Option {
	return func(o *Options) error {
		o.withInstancesClientFn = fn
		return nil
	}
}

func withClientOptionsFunc(fn clientOptionsFn) Option {
	return func(o *Options) error {
		o.withClientOptionsFn = fn
		return nil
	}
}
