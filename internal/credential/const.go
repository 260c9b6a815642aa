// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package credential

const (
	// ConstProject defines the attribute name for a GCP project
	ConstProject = "project"

	// ConstZone defines the attribute name for a GCP zone
	ConstZone = "zone"

	// ConstCredentialsFile is the path to a service account key file. When
	// unset, Application Default Credentials are used.
	ConstCredentialsFile = "credentials_file"

	// ConstImpersonateServiceAccount is the email of the service account that will be impersonated.
	ConstImpersonateServiceAccount = "impersonate_service_account"

	// ComputeScope is the OAuth scope needed by the Compute Engine API.
	ComputeScope = "https://www.googleapis.com/auth/compute"

	// CloudPlatformScope is the OAuth scope needed by the Resource Manager API.
	CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
)
