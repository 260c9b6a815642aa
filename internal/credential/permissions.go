// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package credential

import (
	"context"
	"slices"

	"cloud.google.com/go/iam/apiv1/iampb"
	resourcemanager "cloud.google.com/go/resourcemanager/apiv3"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// ComputeInstancesGetPermission is the IAM permission required
	// to read an instance and its metadata.
	ComputeInstancesGetPermission = "compute.instances.get"
	// ComputeInstancesSetMetadataPermission is the IAM permission
	// required to publish a windows-keys entry.
	ComputeInstancesSetMetadataPermission = "compute.instances.setMetadata"
	// ComputeInstancesGetSerialPortOutputPermission is the IAM permission
	// required to read the encrypted password from serial port 4.
	ComputeInstancesGetSerialPortOutputPermission = "compute.instances.getSerialPortOutput"
	// IAPTunnelInstancesAccessPermission is the IAM permission required
	// to open an IAP TCP tunnel to an instance.
	IAPTunnelInstancesAccessPermission = "iap.tunnelInstances.accessViaIAP"
)

// ResetWindowsPasswordPermissions are the permissions needed to reset a
// Windows password through the Compute Engine API.
var ResetWindowsPasswordPermissions = []string{
	ComputeInstancesGetPermission,
	ComputeInstancesSetMetadataPermission,
	ComputeInstancesGetSerialPortOutputPermission,
}

// ValidateIamPermissions tests the IAM permissions for the credentials.
// It returns the granted permissions if successful.
func (c *Config) ValidateIamPermissions(ctx context.Context, permissions []string, opts ...option.ClientOption) ([]string, error) {
	if len(permissions) == 0 {
		return nil, status.Error(codes.InvalidArgument, "permissions are required")
	}
	if c.ProjectId == "" {
		return nil, status.Error(codes.InvalidArgument, "project is required")
	}

	rmClient, err := resourcemanager.NewProjectsClient(ctx, opts...)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to create Resource Manager client: %v", err)
	}
	defer rmClient.Close()

	resp, err := rmClient.TestIamPermissions(ctx, &iampb.TestIamPermissionsRequest{
		Resource:    "projects/" + c.ProjectId,
		Permissions: permissions,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to validate IAM permissions: %v", err)
	}

	if len(resp.Permissions) == 0 {
		return nil, status.Error(codes.PermissionDenied, "no permissions granted")
	}

	if len(resp.Permissions) != len(permissions) {
		missingPermissions := make([]string, 0, len(permissions))
		for _, permission := range permissions {
			found := slices.Contains(resp.Permissions, permission)
			if !found {
				missingPermissions = append(missingPermissions, permission)
			}
		}
		return nil, status.Errorf(codes.PermissionDenied, "missing permissions: %v", missingPermissions)
	}

	return resp.Permissions, nil
}
