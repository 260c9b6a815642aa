// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"errors"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/connection"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/inventory"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/password"
)

// Options holds the GCPPlugin settings.
type Options struct {
	WithLogger            hclog.Logger
	WithConnectionOptions []connection.Option
	WithPasswordOptions   []password.Option
	WithInventoryOptions  []inventory.Option
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

// WithLogger sets the logger handed to every service.
func WithLogger(l hclog.Logger) Option {
	return func(o *Options) error {
		if l == nil {
			return errors.New("logger is nil")
		}
		o.WithLogger = l
		return nil
	}
}

func WithConnectionOptions(opt ...connection.Option) Option {
	return func(o *Options) error {
		o.WithConnectionOptions = append(o.WithConnectionOptions, opt...)
		return nil
	}
}

func WithPasswordOptions(opt ...password.Option) Option {
	return func(o *Options) error {
		o.WithPasswordOptions = append(o.WithPasswordOptions, opt...)
		return nil
	}
}

func WithInventoryOptions(opt ...inventory.Option) Option {
	return func(o *Options) error {
		o.WithInventoryOptions = append(o.WithInventoryOptions, opt...)
		return nil
	}
}
