// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package password

import (
	"context"

	"github.com/hashicorp/go-hclog"
	cred "github.com/hashicorp/winrm-iap-plugin-gcp/internal/credential"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Result is the outcome of a password reset.
type Result struct {
	Username  string
	Password  string
	IPAddress string
	// VaultFile is the encrypted credentials file, when one was written.
	VaultFile string
	// Changed is always true after a successful reset.
	Changed bool
}

// PasswordService resets local account passwords on Windows instances.
type PasswordService struct {
	opts   *Options
	logger hclog.Logger
}

// NewPasswordService returns a PasswordService.
func NewPasswordService(opt ...Option) (*PasswordService, error) {
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "error reading password service options: %s", err)
	}
	return &PasswordService{
		opts:   opts,
		logger: opts.WithLogger.Named("reset-windows-password"),
	}, nil
}

// Reset sets a new password for the configured user on the instance and,
// when asked to, writes the credentials to an encrypted vault file.
func (s *PasswordService) Reset(ctx context.Context, in *structpb.Struct) (*Result, error) {
	attrs, err := getPasswordAttributes(in)
	if err != nil {
		return nil, err
	}
	logger := s.logger.With("instance", attrs.InstanceName, "backend", attrs.Backend)

	var creds *Credentials
	switch attrs.Backend {
	case BackendAPI:
		creds, err = s.resetThroughAPI(ctx, attrs)
	default:
		creds, err = s.resetWithGcloud(ctx, attrs)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("reset windows password", "user", creds.Username)

	result := &Result{
		Username:  creds.Username,
		Password:  creds.Password,
		IPAddress: creds.IPAddress,
		Changed:   true,
	}
	if attrs.VaultEncrypt {
		vaultFile, err := s.writeVault(ctx, attrs, creds)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "error writing vault file: %s", err)
		}
		logger.Info("wrote vault file", "path", vaultFile)
		result.VaultFile = vaultFile
	}
	return result, nil
}

func (s *PasswordService) resetThroughAPI(ctx context.Context, attrs *PasswordAttributes) (*Credentials, error) {
	credConfig, err := cred.GetCredentialsConfig(attrs.CredentialAttributes)
	if err != nil {
		return nil, err
	}
	clientOpts, err := s.opts.withClientOptionsFn(ctx, credConfig)
	if err != nil {
		return nil, err
	}
	clientOpts = append(clientOpts, s.opts.WithClientOptions...)

	if attrs.ValidatePermissions {
		if _, err := credConfig.ValidateIamPermissions(ctx, cred.ResetWindowsPasswordPermissions, clientOpts...); err != nil {
			return nil, err
		}
	}

	client, err := s.opts.withInstancesClientFn(ctx, clientOpts...)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "error creating instances client: %s", err)
	}
	defer client.Close()

	email := credConfig.TargetServiceAccountId
	if email == "" {
		email = credConfig.ClientEmail
	}
	return s.resetWithAPI(ctx, attrs, client, email)
}
