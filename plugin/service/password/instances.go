// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package password

import (
	"context"
	"fmt"

	compute "cloud.google.com/go/compute/apiv1"
	"cloud.google.com/go/compute/apiv1/computepb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

// InstancesAPI is the part of the Compute Engine instances API used to
// reset a password. SetMetadata returns once the operation has finished.
type InstancesAPI interface {
	Get(ctx context.Context, req *computepb.GetInstanceRequest, opts ...gax.CallOption) (*computepb.Instance, error)
	SetMetadata(ctx context.Context, req *computepb.SetMetadataInstanceRequest, opts ...gax.CallOption) error
	GetSerialPortOutput(ctx context.Context, req *computepb.GetSerialPortOutputInstanceRequest, opts ...gax.CallOption) (*computepb.SerialPortOutput, error)
	Close() error
}

// restInstances adapts the REST instances client to InstancesAPI.
type restInstances struct {
	client *compute.InstancesClient
}

var _ InstancesAPI = (*restInstances)(nil)

func newRESTInstances(ctx context.Context, opts ...option.ClientOption) (InstancesAPI, error) {
	client, err := compute.NewInstancesRESTClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating NewInstancesRESTClient: %w", err)
	}
	return &restInstances{client: client}, nil
}

func (r *restInstances) Get(ctx context.Context, req *computepb.GetInstanceRequest, opts ...gax.CallOption) (*computepb.Instance, error) {
	return r.client.Get(ctx, req, opts...)
}

func (r *restInstances) SetMetadata(ctx context.Context, req *computepb.SetMetadataInstanceRequest, opts ...gax.CallOption) error {
	op, err := r.client.SetMetadata(ctx, req, opts...)
	if err != nil {
		return err
	}
	return op.Wait(ctx)
}

func (r *restInstances) GetSerialPortOutput(ctx context.Context, req *computepb.GetSerialPortOutputInstanceRequest, opts ...gax.CallOption) (*computepb.SerialPortOutput, error) {
	return r.client.GetSerialPortOutput(ctx, req, opts...)
}

func (r *restInstances) Close() error {
	return r.client.Close()
}
