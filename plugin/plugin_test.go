// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/tunnel"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/connection"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/inventory"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// nopProtocol is a Protocol that does nothing.
type nopProtocol struct{}

func (nopProtocol) Connect(context.Context, connection.Target) error {
	return nil
}

func (nopProtocol) Exec(context.Context, string) (*connection.ExecResult, error) {
	return &connection.ExecResult{}, nil
}

func (nopProtocol) Close() error {
	return nil
}

func (nopProtocol) Reset() {}

// portSupervisor reports a fixed port without starting anything.
type portSupervisor struct {
	port int
}

func (s *portSupervisor) EnsureRunning(context.Context, tunnel.Config) (int, error) {
	return s.port, nil
}

func (s *portSupervisor) Terminate() {
	s.port = 0
}

func (s *portSupervisor) Port() int {
	return s.port
}

func TestNewGCPPlugin(t *testing.T) {
	_, err := NewGCPPlugin(WithLogger(nil))
	require.Error(t, err)

	_, err = NewGCPPlugin(WithPasswordOptions(password.WithGcloudPath("")))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = NewGCPPlugin(WithInventoryOptions(inventory.WithLogger(nil)))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	p, err := NewGCPPlugin(WithLogger(hclog.NewNullLogger()))
	require.NoError(t, err)
	require.NotNil(t, p.Password)
	require.NotNil(t, p.Inventory)
}

func TestGCPPluginNewConnection(t *testing.T) {
	sup := &portSupervisor{port: 45678}
	p, err := NewGCPPlugin(WithConnectionOptions(connection.WithSupervisor(sup)))
	require.NoError(t, err)

	attrs, err := structpb.NewStruct(map[string]any{
		"gcp_project": "p",
		"gcp_zone":    "z",
		"remote_addr": "win-1",
	})
	require.NoError(t, err)

	_, err = p.NewConnection(&structpb.Struct{}, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	c, err := p.NewConnection(attrs, nopProtocol{})
	require.NoError(t, err)
	_, err = c.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, connection.StateConnected, c.State())
	assert.Equal(t, 45678, c.TunnelPort())
	require.NoError(t, c.Close())
	assert.Zero(t, c.TunnelPort())

	c, err = p.NewConnection(attrs, nil)
	require.NoError(t, err)
	assert.Equal(t, connection.StateDisconnected, c.State())
}
