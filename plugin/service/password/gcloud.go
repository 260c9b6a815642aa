// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package password

import (
	"bytes"
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Credentials are the account details produced by a reset.
type Credentials struct {
	Username  string
	Password  string
	IPAddress string
}

// gcloudOutput is the JSON printed by
// `gcloud compute reset-windows-password --format json`.
type gcloudOutput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	IPAddress string `json:"ip_address"`
}

func gcloudResetArgs(attrs *PasswordAttributes) []string {
	args := []string{
		"compute", "reset-windows-password",
		attrs.InstanceName,
		"--user", attrs.User,
		"--zone", attrs.Zone,
		"--project", attrs.ProjectId,
		"--format", "json",
		"--quiet",
	}
	if attrs.ImpersonateServiceAccount != "" {
		args = append(args, "--impersonate-service-account", attrs.ImpersonateServiceAccount)
	}
	if attrs.CredentialsFile != "" {
		args = append(args, "--credential-file-override", attrs.CredentialsFile)
	}
	return args
}

// resetWithGcloud resets the password by running gcloud.
func (s *PasswordService) resetWithGcloud(ctx context.Context, attrs *PasswordAttributes) (*Credentials, error) {
	args := gcloudResetArgs(attrs)
	s.logger.Debug("resetting windows password", "command", commandLine(s.opts.WithGcloudPath, args))

	res, err := runCommandFn(ctx, s.opts.WithGcloudPath, args...)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "error running gcloud: %s", err)
	}
	if res.ExitCode != 0 {
		return nil, status.Errorf(codes.Unknown, "gcloud reset-windows-password failed (rc=%d): %s",
			res.ExitCode, bytes.TrimSpace(res.Stderr))
	}

	var out gcloudOutput
	if err := json.Unmarshal(res.Stdout, &out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to parse gcloud output: %s", bytes.TrimSpace(res.Stdout))
	}
	if out.Username == "" {
		out.Username = attrs.User
	}
	return &Credentials{
		Username:  out.Username,
		Password:  out.Password,
		IPAddress: out.IPAddress,
	}, nil
}
