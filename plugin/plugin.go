// Copyright IBM Corp. 2024, 2025
// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/connection"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/inventory"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/password"
	"google.golang.org/protobuf/types/known/structpb"
)

// GCPPlugin contains a collection of all GCP plugin services.
type GCPPlugin struct {
	// Password resets Windows passwords on Compute Engine instances.
	Password *password.PasswordService
	// Inventory lists the instances connections can be made to.
	Inventory *inventory.InventoryService

	logger      hclog.Logger
	connOptions []connection.Option
}

func NewGCPPlugin(opt ...Option) (*GCPPlugin, error) {
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, fmt.Errorf("error reading plugin options: %w", err)
	}

	passwordService, err := password.NewPasswordService(
		append([]password.Option{password.WithLogger(opts.WithLogger)}, opts.WithPasswordOptions...)...,
	)
	if err != nil {
		return nil, err
	}

	inventoryService, err := inventory.NewInventoryService(
		append([]inventory.Option{inventory.WithLogger(opts.WithLogger)}, opts.WithInventoryOptions...)...,
	)
	if err != nil {
		return nil, err
	}

	return &GCPPlugin{
		Password:    passwordService,
		Inventory:   inventoryService,
		logger:      opts.WithLogger,
		connOptions: append([]connection.Option{connection.WithLogger(opts.WithLogger)}, opts.WithConnectionOptions...),
	}, nil
}

// NewConnection returns a disconnected connection to the instance described
// by attrs. A nil protocol means WinRM.
func (p *GCPPlugin) NewConnection(attrs *structpb.Struct, protocol connection.Protocol) (*connection.Connection, error) {
	connAttrs, err := connection.GetConnectionAttributes(attrs)
	if err != nil {
		return nil, err
	}
	if protocol == nil {
		protocol = connection.NewWinRM()
	}
	return connection.NewConnection(connAttrs, protocol, p.connOptions...)
}
