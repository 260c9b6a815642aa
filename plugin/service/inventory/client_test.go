// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"strconv"
	"testing"

	"cloud.google.com/go/compute/apiv1/computepb"
	"github.com/stretchr/testify/require"
)

func TestInstanceToHost(t *testing.T) {
	exampleId := uint64(123456789)
	examplePrivateIp := "10.0.0.1"
	examplePrivateIp2 := "10.0.0.2"
	examplePublicIp := "1.1.1.1"
	examplePublicIp2 := "1.1.1.2"
	exampleIPv6 := "2001:db8::1"
	exampleName := "win-1"

	cases := []struct {
		name        string
		instance    *computepb.Instance
		expected    *Host
		expectedErr string
	}{
		{
			name: "missing instance id",
			instance: &computepb.Instance{
				Name: &exampleName,
			},
			expectedErr: "response integrity error: missing instance id",
		},
		{
			name: "missing instance name",
			instance: &computepb.Instance{
				Id: &exampleId,
			},
			expectedErr: "response integrity error: missing instance name",
		},
		{
			name: "single private IP with public IP address",
			instance: &computepb.Instance{
				Id:   &exampleId,
				Name: &exampleName,
				NetworkInterfaces: []*computepb.NetworkInterface{
					{
						NetworkIP: &examplePrivateIp,
						AccessConfigs: []*computepb.AccessConfig{
							{NatIP: &examplePublicIp},
						},
					},
				},
			},
			expected: &Host{
				Id:          strconv.FormatUint(exampleId, 10),
				Name:        exampleName,
				InternalIP:  examplePrivateIp,
				IpAddresses: []string{examplePrivateIp, examplePublicIp},
			},
		},
		{
			name: "no network interfaces",
			instance: &computepb.Instance{
				Id:       &exampleId,
				Name:     &exampleName,
				Hostname: pointer("win-1.c.my-project.internal"),
				Labels:   map[string]string{"os": "windows"},
			},
			expected: &Host{
				Id:       strconv.FormatUint(exampleId, 10),
				Name:     exampleName,
				Hostname: "win-1.c.my-project.internal",
				Labels:   map[string]string{"os": "windows"},
			},
		},
		{
			name: "multiple interfaces, first one is internal",
			instance: &computepb.Instance{
				Id:   &exampleId,
				Name: &exampleName,
				NetworkInterfaces: []*computepb.NetworkInterface{
					{
						NetworkIP: &examplePrivateIp,
						AccessConfigs: []*computepb.AccessConfig{
							{NatIP: &examplePublicIp},
						},
					},
					{
						NetworkIP: &examplePrivateIp2,
						AccessConfigs: []*computepb.AccessConfig{
							{NatIP: &examplePublicIp2},
						},
					},
				},
			},
			expected: &Host{
				Id:          strconv.FormatUint(exampleId, 10),
				Name:        exampleName,
				InternalIP:  examplePrivateIp,
				IpAddresses: []string{examplePrivateIp, examplePublicIp, examplePrivateIp2, examplePublicIp2},
			},
		},
		{
			name: "duplicate and IPv6 addresses",
			instance: &computepb.Instance{
				Id:   &exampleId,
				Name: &exampleName,
				NetworkInterfaces: []*computepb.NetworkInterface{
					{
						NetworkIP:   &examplePrivateIp,
						Ipv6Address: &exampleIPv6,
						AccessConfigs: []*computepb.AccessConfig{
							{NatIP: &examplePrivateIp},
						},
						Ipv6AccessConfigs: []*computepb.AccessConfig{
							{ExternalIpv6: &exampleIPv6},
						},
					},
				},
			},
			expected: &Host{
				Id:          strconv.FormatUint(exampleId, 10),
				Name:        exampleName,
				InternalIP:  examplePrivateIp,
				IpAddresses: []string{examplePrivateIp, exampleIPv6},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)
			actual, err := instanceToHost(tc.instance)
			if tc.expectedErr != "" {
				require.EqualError(err, tc.expectedErr)
				return
			}
			require.NoError(err)
			require.Equal(tc.expected, actual)
		})
	}
}

func TestAppendDistinct(t *testing.T) {
	empty := ""
	a, b := "a", "b"
	got := appendDistinct([]string{"a"}, nil, &empty, &a, &b, &b)
	require.Equal(t, []string{"a", "b"}, got)
}
