// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"fmt"
	"strings"

	computepb "cloud.google.com/go/compute/apiv1/computepb"
	cred "github.com/hashicorp/winrm-iap-plugin-gcp/internal/credential"
	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/errors"
	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/values"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// InventoryAttributes select the instances to list.
type InventoryAttributes struct {
	*cred.CredentialAttributes
	Filters []string
}

func getInventoryAttributes(in *structpb.Struct) (*InventoryAttributes, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "attributes are required")
	}
	credAttributes, err := cred.GetCredentialAttributes(in)
	if err != nil {
		return nil, err
	}

	unknownFields := values.StructFields(in)
	badFields := make(map[string]string)
	for s := range unknownFields {
		switch s {
		case cred.ConstProject,
			cred.ConstZone,
			cred.ConstCredentialsFile,
			cred.ConstImpersonateServiceAccount,
			ConstListInstancesFilter:
			continue
		default:
			badFields[fmt.Sprintf("attributes.%s", s)] = "unrecognized field"
		}
	}
	if len(badFields) > 0 {
		return nil, errors.InvalidArgumentError("Error in the attributes provided", badFields)
	}

	// Mapstructure complains if it expects a slice as output and sees a
	// scalar value, so a single filter string is wrapped here.
	filterMap := make(map[string]any)
	if filtersRaw, ok := in.AsMap()[ConstListInstancesFilter]; ok {
		switch filterVal := filtersRaw.(type) {
		case string:
			filterMap[ConstListInstancesFilter] = []string{filterVal}
		default:
			filterMap[ConstListInstancesFilter] = filterVal
		}
	}

	var decoded struct {
		Filters []string `mapstructure:"filters"`
	}
	if err := mapstructure.Decode(filterMap, &decoded); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "error decoding inventory attributes: %s", err)
	}
	return &InventoryAttributes{
		CredentialAttributes: credAttributes,
		Filters:              decoded.Filters,
	}, nil
}

func buildListInstancesRequest(attrs *InventoryAttributes) (*computepb.ListInstancesRequest, error) {
	request := &computepb.ListInstancesRequest{
		Project: attrs.ProjectId,
		Zone:    attrs.Zone,
	}

	filters, err := buildFilters(attrs.Filters)
	if err != nil {
		return nil, fmt.Errorf("error building filters: %w", err)
	}

	if len(filters) > 0 {
		filters := strings.Join(filters, " AND ")
		request.Filter = &filters
	}

	return request, nil
}
