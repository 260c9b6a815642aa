// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package credential

import (
	"fmt"

	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/errors"
	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/values"
	"google.golang.org/protobuf/types/known/structpb"
)

// CredentialAttributes contain attributes used for authenticating to Google Cloud
// and locating an instance
type CredentialAttributes struct {
	ProjectId                 string
	Zone                      string
	CredentialsFile           string
	ImpersonateServiceAccount string
}

// GetCredentialAttributes checks the attributes required by Google Cloud to
// reach an instance.
func GetCredentialAttributes(in *structpb.Struct) (*CredentialAttributes, error) {
	badFields := make(map[string]string)

	project, err := values.GetStringValue(in, ConstProject, true)
	if err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstProject)] = err.Error()
	}

	zone, err := values.GetStringValue(in, ConstZone, true)
	if err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstZone)] = err.Error()
	}

	credentialsFile, err := values.GetStringValue(in, ConstCredentialsFile, false)
	if err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstCredentialsFile)] = err.Error()
	}

	impersonate, err := values.GetStringValue(in, ConstImpersonateServiceAccount, false)
	if err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstImpersonateServiceAccount)] = err.Error()
	}

	if len(badFields) > 0 {
		return nil, errors.InvalidArgumentError("Error in the attributes provided", badFields)
	}

	return &CredentialAttributes{
		ProjectId:                 project,
		Zone:                      zone,
		CredentialsFile:           credentialsFile,
		ImpersonateServiceAccount: impersonate,
	}, nil
}

// GetCredentialsConfig builds a Config from the attributes, reading the
// service account key file when one is named.
func GetCredentialsConfig(attrs *CredentialAttributes, scopes ...string) (*Config, error) {
	opts := []Option{
		WithProjectId(attrs.ProjectId),
		WithTargetServiceAccountId(attrs.ImpersonateServiceAccount),
		WithScopes(scopes),
	}
	if attrs.CredentialsFile != "" {
		opts = append(opts, WithCredentialsFile(attrs.CredentialsFile))
	}
	return NewConfig(opts...)
}
