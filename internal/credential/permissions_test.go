// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package credential

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/iam/apiv1/iampb"
	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"github.com/stretchr/testify/require"
	googleOption "google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestValidateIamPermissions(t *testing.T) {
	ctx := context.Background()
	testResourceServer := &TestResourceServer{}

	gsrv := NewGRPCServer()
	resourcemanagerpb.RegisterProjectsServer(gsrv.Server, testResourceServer)
	addr, err := gsrv.Start()
	require.NoError(t, err)
	t.Cleanup(gsrv.Stop)

	testOptions := []googleOption.ClientOption{
		googleOption.WithEndpoint(addr),
		googleOption.WithoutAuthentication(),
		googleOption.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	}

	tests := []struct {
		name                    string
		config                  *Config
		testIamResponse         *iampb.TestIamPermissionsResponse
		testIamPermissionsError error
		permissions             []string
		expectedErr             string
		expectedPermissions     []string
	}{
		{
			name:   "Successful IAM Permissions Test",
			config: &Config{ProjectId: "test-project-id"},
			testIamResponse: &iampb.TestIamPermissionsResponse{
				Permissions: ResetWindowsPasswordPermissions,
			},
			permissions:         ResetWindowsPasswordPermissions,
			expectedPermissions: ResetWindowsPasswordPermissions,
		},
		{
			name:        "Missing Permissions Argument",
			config:      &Config{ProjectId: "test-project-id"},
			expectedErr: "permissions are required",
		},
		{
			name:        "Missing Project",
			config:      &Config{},
			permissions: ResetWindowsPasswordPermissions,
			expectedErr: "project is required",
		},
		{
			name:                    "Failed to Test IAM Permissions",
			config:                  &Config{ProjectId: "test-project-id"},
			testIamPermissionsError: errors.New("failed to test IAM permissions"),
			permissions:             ResetWindowsPasswordPermissions,
			expectedErr:             "failed to validate IAM permissions",
		},
		{
			name:            "No Permissions Granted",
			config:          &Config{ProjectId: "test-project-id"},
			testIamResponse: &iampb.TestIamPermissionsResponse{},
			permissions:     ResetWindowsPasswordPermissions,
			expectedErr:     "no permissions granted",
		},
		{
			name:   "Some Permissions Missing",
			config: &Config{ProjectId: "test-project-id"},
			testIamResponse: &iampb.TestIamPermissionsResponse{
				Permissions: []string{ComputeInstancesGetPermission},
			},
			permissions: ResetWindowsPasswordPermissions,
			expectedErr: "missing permissions: [compute.instances.setMetadata compute.instances.getSerialPortOutput]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testResourceServer.TestIamPermissionsResponse = tt.testIamResponse
			testResourceServer.TestIamPermissionsError = tt.testIamPermissionsError

			permissions, err := tt.config.ValidateIamPermissions(ctx, tt.permissions, testOptions...)
			if tt.expectedErr != "" {
				require.ErrorContains(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expectedPermissions, permissions)

			require.Equal(t, "projects/test-project-id", testResourceServer.LastRequest().GetResource())
		})
	}
}
