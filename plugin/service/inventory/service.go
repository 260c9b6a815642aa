// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"context"

	"github.com/hashicorp/go-hclog"
	cred "github.com/hashicorp/winrm-iap-plugin-gcp/internal/credential"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/connection"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Inventory is the result of a listing.
type Inventory struct {
	Project string
	Zone    string
	Hosts   []*Host
}

// HostVars returns the connection variables of a host, keyed by the
// connection attribute names.
func (i *Inventory) HostVars(h *Host) map[string]any {
	vars := map[string]any{
		connection.ConstInstanceName: h.Name,
		connection.ConstProject:      i.Project,
		connection.ConstZone:         i.Zone,
	}
	if h.InternalIP != "" {
		vars[connection.ConstRemoteAddr] = h.InternalIP
	}
	return vars
}

// InventoryService lists instances.
type InventoryService struct {
	opts   *Options
	logger hclog.Logger
}

// NewInventoryService returns an InventoryService.
func NewInventoryService(opt ...Option) (*InventoryService, error) {
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "error reading inventory service options: %s", err)
	}
	return &InventoryService{
		opts:   opts,
		logger: opts.WithLogger.Named("inventory"),
	}, nil
}

// ListHosts lists the instances of the zone that match the filters.
// Instances are returned in the order the API lists them.
func (s *InventoryService) ListHosts(ctx context.Context, in *structpb.Struct) (*Inventory, error) {
	attrs, err := getInventoryAttributes(in)
	if err != nil {
		return nil, err
	}
	request, err := buildListInstancesRequest(attrs)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "error building list instances request: %s", err)
	}

	credConfig, err := cred.GetCredentialsConfig(attrs.CredentialAttributes, cred.ComputeScope)
	if err != nil {
		return nil, err
	}
	clientOpts, err := s.opts.withClientOptionsFn(ctx, credConfig)
	if err != nil {
		return nil, err
	}
	clientOpts = append(clientOpts, s.opts.WithClientOptions...)

	client, err := s.opts.withInstancesClientFn(ctx, clientOpts...)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "error creating instances client: %s", err)
	}
	defer client.Close()

	instances, err := getInstances(ctx, client, request)
	if err != nil {
		return nil, err
	}

	inv := &Inventory{
		Project: attrs.ProjectId,
		Zone:    attrs.Zone,
		Hosts:   make([]*Host, 0, len(instances)),
	}
	for _, instance := range instances {
		host, err := instanceToHost(instance)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "error processing instance: %s", err)
		}
		inv.Hosts = append(inv.Hosts, host)
	}
	s.logger.Debug("listed instances", "project", inv.Project, "zone", inv.Zone, "filter", request.GetFilter(), "count", len(inv.Hosts))
	return inv, nil
}
