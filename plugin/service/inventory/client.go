// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	compute "cloud.google.com/go/compute/apiv1"
	computepb "cloud.google.com/go/compute/apiv1/computepb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// InstancesAPI is the part of the Compute Engine instances API used to
// build an inventory.
type InstancesAPI interface {
	List(ctx context.Context, req *computepb.ListInstancesRequest, opts ...gax.CallOption) *compute.InstanceIterator
	Close() error
}

var _ InstancesAPI = (*compute.InstancesClient)(nil)

func newRESTInstances(ctx context.Context, opts ...option.ClientOption) (InstancesAPI, error) {
	client, err := compute.NewInstancesRESTClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating NewInstancesRESTClient: %w", err)
	}
	return client, nil
}

// Host is a listed instance.
type Host struct {
	Id       string
	Name     string
	Hostname string
	// InternalIP is the address of the first network interface. IAP
	// tunnels reach instances through it.
	InternalIP  string
	IpAddresses []string
	Labels      map[string]string
}

func getInstances(ctx context.Context, instancesClient InstancesAPI, request *computepb.ListInstancesRequest) ([]*computepb.Instance, error) {
	hosts := []*computepb.Instance{}
	it := instancesClient.List(ctx, request)
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, status.Errorf(codes.Unknown, "error listing instances: %s", err)
		}
		hosts = append(hosts, resp)
	}
	return hosts, nil
}

func instanceToHost(instance *computepb.Instance) (*Host, error) {
	if instance.GetId() == 0 {
		return nil, errors.New("response integrity error: missing instance id")
	}
	if instance.GetName() == "" {
		return nil, errors.New("response integrity error: missing instance name")
	}

	result := &Host{
		Id:       strconv.FormatUint(instance.GetId(), 10),
		Name:     instance.GetName(),
		Hostname: instance.GetHostname(),
		Labels:   instance.GetLabels(),
	}

	for _, iface := range instance.GetNetworkInterfaces() {
		if result.InternalIP == "" {
			result.InternalIP = iface.GetNetworkIP()
		}
		result.IpAddresses = appendDistinct(result.IpAddresses, iface.NetworkIP)

		for _, external := range iface.AccessConfigs {
			result.IpAddresses = appendDistinct(result.IpAddresses, external.NatIP, external.ExternalIpv6)
		}

		result.IpAddresses = appendDistinct(result.IpAddresses, iface.Ipv6Address)
		for _, external := range iface.Ipv6AccessConfigs {
			result.IpAddresses = appendDistinct(result.IpAddresses, external.ExternalIpv6)
		}
	}

	return result, nil
}

// appendDistinct appends the elements that are not nil, not empty and not
// already in the slice.
func appendDistinct(slice []string, elems ...*string) []string {
	for _, e := range elems {
		if e == nil || *e == "" || slices.Contains(slice, *e) {
			continue
		}
		slice = append(slice, *e)
	}
	return slice
}
