// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tunnel

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestConfigArgs(t *testing.T) {
	cases := []struct {
		name     string
		config   Config
		expected []string
	}{
		{
			name: "defaults",
			config: Config{
				Instance: "win-01",
				Project:  "my-project",
				Zone:     "us-east4-a",
			},
			expected: []string{
				"compute", "start-iap-tunnel", "win-01", "5986",
				"--local-host-port=localhost:0",
				"--zone", "us-east4-a",
				"--project", "my-project",
			},
		},
		{
			name: "impersonation and custom port",
			config: Config{
				Instance:                  "win-02",
				Project:                   "my-project",
				Zone:                      "europe-west1-b",
				RemotePort:                5985,
				ImpersonateServiceAccount: "iap@my-project.iam.gserviceaccount.com",
			},
			expected: []string{
				"compute", "start-iap-tunnel", "win-02", "5985",
				"--local-host-port=localhost:0",
				"--zone", "europe-west1-b",
				"--project", "my-project",
				"--impersonate-service-account", "iap@my-project.iam.gserviceaccount.com",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.expected, tc.config.Args()); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	c := Config{Instance: "i"}.withDefaults()
	require.Equal(t, DefaultRemotePort, c.RemotePort)
	require.Equal(t, DefaultTimeout, c.Timeout)

	c = Config{RemotePort: 5985, Timeout: 2 * time.Second}.withDefaults()
	require.Equal(t, 5985, c.RemotePort)
	require.Equal(t, 2*time.Second, c.Timeout)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name                string
		config              Config
		expectedErrContains []string
	}{
		{
			name:   "valid",
			config: Config{Instance: "i", Project: "p", Zone: "z"},
		},
		{
			name:                "missing project",
			config:              Config{Instance: "i", Zone: "z"},
			expectedErrContains: []string{"gcp_project"},
		},
		{
			name:                "missing zone",
			config:              Config{Instance: "i", Project: "p"},
			expectedErrContains: []string{"gcp_zone"},
		},
		{
			name:                "missing everything",
			config:              Config{},
			expectedErrContains: []string{"gcp_instance_name", "gcp_project", "gcp_zone"},
		},
		{
			name:                "bad port",
			config:              Config{Instance: "i", Project: "p", Zone: "z", RemotePort: 70000},
			expectedErrContains: []string{"port must be between"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if len(tc.expectedErrContains) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, codes.InvalidArgument, status.Code(err))
			for _, s := range tc.expectedErrContains {
				require.Contains(t, err.Error(), s)
			}
		})
	}
}
