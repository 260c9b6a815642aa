// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVar(t *testing.T) {
	cases := []struct {
		name        string
		in          string
		expectedKey string
		expectedVal any
		expectedErr string
	}{
		{
			name:        "string",
			in:          "ansible_user=admin",
			expectedKey: "ansible_user",
			expectedVal: "admin",
		},
		{
			name:        "integer",
			in:          "ansible_port=5985",
			expectedKey: "ansible_port",
			expectedVal: 5985,
		},
		{
			name:        "boolean",
			in:          "flag=true",
			expectedKey: "flag",
			expectedVal: true,
		},
		{
			name:        "value containing equals",
			in:          "ansible_password=a=b",
			expectedKey: "ansible_password",
			expectedVal: "a=b",
		},
		{
			name:        "empty value",
			in:          "ansible_password=",
			expectedKey: "ansible_password",
			expectedVal: "",
		},
		{
			name:        "mapping kept as text",
			in:          "x=a: b",
			expectedKey: "x",
			expectedVal: "a: b",
		},
		{
			name:        "missing equals",
			in:          "ansible_user",
			expectedErr: `invalid variable "ansible_user", want key=value`,
		},
		{
			name:        "missing key",
			in:          "=value",
			expectedErr: `invalid variable "=value", want key=value`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)
			k, v, err := parseVar(tc.in)
			if tc.expectedErr != "" {
				require.EqualError(err, tc.expectedErr)
				return
			}
			require.NoError(err)
			require.Equal(tc.expectedKey, k)
			require.Equal(tc.expectedVal, v)
		})
	}
}

func TestReadVarsFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yml")
	require.NoError(t, os.WriteFile(good, []byte("ansible_host: win-1\nansible_port: 5986\n"), 0o600))
	vars, err := readVarsFile(good)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ansible_host": "win-1", "ansible_port": 5986}, vars)

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("- a\n- b\n"), 0o600))
	_, err = readVarsFile(bad)
	require.ErrorContains(t, err, "error parsing vars file")

	_, err = readVarsFile(filepath.Join(dir, "missing.yml"))
	require.ErrorContains(t, err, "error reading vars file")
}

func TestHostVarsAttributes(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yml")
	second := filepath.Join(dir, "second.yml")
	require.NoError(t, os.WriteFile(first, []byte("ansible_gcp_project: p1\nansible_gcp_zone: z1\nansible_host: win-1\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("ansible_gcp_zone: z2\nunrelated: x\n"), 0o600))

	f := &hostVarsFlags{
		varsFiles: []string{first, second},
		vars:      []string{"ansible_host=win-2", "ansible_port=5985"},
	}
	attrs, err := f.attributes(hclog.NewNullLogger())
	require.NoError(t, err)

	got := attrs.AsMap()
	assert.Equal(t, map[string]any{
		"gcp_project": "p1",
		"gcp_zone":    "z2",
		"remote_addr": "win-2",
		"port":        float64(5985),
	}, got)
}

func TestHostVarsAttributesErrors(t *testing.T) {
	f := &hostVarsFlags{vars: []string{"novalue"}}
	_, err := f.attributes(hclog.NewNullLogger())
	require.ErrorContains(t, err, "want key=value")

	f = &hostVarsFlags{varsFiles: []string{filepath.Join(t.TempDir(), "missing.yml")}}
	_, err = f.attributes(hclog.NewNullLogger())
	require.ErrorContains(t, err, "error reading vars file")
}
