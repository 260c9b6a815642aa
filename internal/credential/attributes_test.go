// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package credential

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestGetCredentialAttributes(t *testing.T) {
	cases := []struct {
		name                string
		in                  map[string]any
		expected            *CredentialAttributes
		expectedErrContains []string
	}{
		{
			name:                "missing project and zone",
			in:                  map[string]any{},
			expectedErrContains: []string{`missing required value "project"`, `missing required value "zone"`},
		},
		{
			name:                "missing zone",
			in:                  map[string]any{ConstProject: "test-project"},
			expectedErrContains: []string{`missing required value "zone"`},
		},
		{
			name:                "wrong type",
			in:                  map[string]any{ConstProject: "p", ConstZone: "z", ConstCredentialsFile: true},
			expectedErrContains: []string{"attributes.credentials_file"},
		},
		{
			name: "valid project and zone",
			in: map[string]any{
				ConstProject: "test-project",
				ConstZone:    "us-central1-a",
			},
			expected: &CredentialAttributes{
				ProjectId: "test-project",
				Zone:      "us-central1-a",
			},
		},
		{
			name: "with impersonation and key file",
			in: map[string]any{
				ConstProject:                   "test-project",
				ConstZone:                      "us-central1-a",
				ConstCredentialsFile:           "/etc/gcp/key.json",
				ConstImpersonateServiceAccount: "sa@test-project.iam.gserviceaccount.com",
			},
			expected: &CredentialAttributes{
				ProjectId:                 "test-project",
				Zone:                      "us-central1-a",
				CredentialsFile:           "/etc/gcp/key.json",
				ImpersonateServiceAccount: "sa@test-project.iam.gserviceaccount.com",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)

			input, err := structpb.NewStruct(tc.in)
			require.NoError(err)

			actual, err := GetCredentialAttributes(input)
			if len(tc.expectedErrContains) > 0 {
				require.Error(err)
				for _, s := range tc.expectedErrContains {
					require.Contains(err.Error(), s)
				}
				require.Equal(codes.InvalidArgument, status.Code(err))
				return
			}

			require.NoError(err)
			require.Equal(tc.expected, actual)
		})
	}
}

func TestGetCredentialsConfig(t *testing.T) {
	c, err := GetCredentialsConfig(&CredentialAttributes{
		ProjectId:                 "test-project",
		Zone:                      "us-central1-a",
		ImpersonateServiceAccount: "sa@test-project.iam.gserviceaccount.com",
	}, ComputeScope)
	require.NoError(t, err)
	require.Equal(t, "test-project", c.ProjectId)
	require.Equal(t, "sa@test-project.iam.gserviceaccount.com", c.TargetServiceAccountId)
	require.Equal(t, []string{ComputeScope}, c.Scopes)

	_, err = GetCredentialsConfig(&CredentialAttributes{CredentialsFile: "/does/not/exist.json"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}
