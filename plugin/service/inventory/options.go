// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"
	cred "github.com/hashicorp/winrm-iap-plugin-gcp/internal/credential"
	"google.golang.org/api/option"
)

type instancesClientFn func(ctx context.Context, opts ...option.ClientOption) (InstancesAPI, error)

type clientOptionsFn func(ctx context.Context, c *cred.Config) ([]option.ClientOption, error)

// Options holds the InventoryService settings.
type Options struct {
	WithLogger hclog.Logger
	// WithClientOptions are appended to the options of the instances client.
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
