// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package inventory lists the Compute Engine instances of one zone and turns
// them into host variables the connection service understands.
//
// # Filters
// Filters narrow down the instances returned. Each filter is expected to be
// in the format "key operator value", where the operator is one of
// =, !=, >, <, <=, >=, :, eq, ne, as per the GCP API documentation:
// https://cloud.google.com/compute/docs/reference/rest/v1/instances/list#filter
//
// When no filter names the instance status, `status = running` is added.
// Multiple filters are joined with a logical AND.
package inventory
