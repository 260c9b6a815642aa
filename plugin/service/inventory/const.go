// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

const (
	// ConstListInstancesFilter refers to a Google Cloud SDK filter to search for instances
	ConstListInstancesFilter = "filters"

	// defaultStatusFilter is applied when no status filter is given, so
	// only running instances are listed.
	defaultStatusFilter = "status = running"
)
