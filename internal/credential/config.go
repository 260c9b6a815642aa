// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package credential

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/impersonate"
	googleOption "google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// impersonateServiceAccount is a function variable that creates a TokenSource
var impersonateServiceAccountFn = func(
	ctx context.Context,
	config impersonate.CredentialsConfig,
	opts ...googleOption.ClientOption,
) (oauth2.TokenSource, error) {
	return impersonate.CredentialsTokenSource(ctx, config, opts...)
}

// findDefaultCredentialsFn is a function variable that finds the default credentials
var findDefaultCredentialsFn = func(ctx context.Context, scopes ...string) (*google.Credentials, error) {
	return google.FindDefaultCredentials(ctx, scopes...)
}

// Config is the configuration for the GCP credential.
type Config struct {
	ProjectId              string
	PrivateKey             string
	PrivateKeyId           string
	ClientEmail            string
	TargetServiceAccountId string
	Scopes                 []string
}

// credentials represents a simplified version of the GCP credentials file format.
type credentials struct {
	ClientEmail  string `json:"client_email"`
	Type         string `json:"type"`
	ProjectId    string `json:"project_id"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyId string `json:"private_key_id"`
}

// NewConfig builds a Config from the options. When a credentials file is
// given, its key material is loaded and its project is used unless one was
// set explicitly.
func NewConfig(opt ...Option) (*Config, error) {
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, err
	}
	c := &Config{
		ProjectId:              opts.WithProjectId,
		TargetServiceAccountId: opts.WithTargetServiceAccountId,
		Scopes:                 opts.WithScopes,
	}
	if opts.WithCredentialsFile != "" {
		if err := c.loadCredentialsFile(opts.WithCredentialsFile); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Config) loadCredentialsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "error reading credentials file: %v", err)
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return status.Errorf(codes.InvalidArgument, "error parsing credentials file %q: %v", path, err)
	}
	if creds.Type != "" && creds.Type != "service_account" {
		return status.Errorf(codes.InvalidArgument, "credentials file %q is of type %q, want service_account", path, creds.Type)
	}
	c.PrivateKey = creds.PrivateKey
	c.PrivateKeyId = creds.PrivateKeyId
	c.ClientEmail = creds.ClientEmail
	if c.ProjectId == "" {
		c.ProjectId = creds.ProjectId
	}
	return nil
}

// toCredentials converts the config to credentials.
func (c *Config) toCredentials() *credentials {
	return &credentials{
		Type:         "service_account",
		ProjectId:    c.ProjectId,
		PrivateKey:   c.PrivateKey,
		PrivateKeyId: c.PrivateKeyId,
		ClientEmail:  c.ClientEmail,
	}
}

func (c *Config) hasServiceAccountKey() bool {
	return c.PrivateKey != "" && c.ClientEmail != ""
}

// ClientOptions returns the client options that authenticate Google Cloud
// API clients with this configuration.
func (c *Config) ClientOptions(ctx context.Context) ([]googleOption.ClientOption, error) {
	creds, err := c.GenerateCredentials(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Unauthenticated, "error generating credentials: %v", err)
	}
	if creds.TokenSource == nil {
		return nil, status.Error(codes.Unauthenticated, "error generating credentials: token source is nil")
	}
	return []googleOption.ClientOption{googleOption.WithTokenSource(creds.TokenSource)}, nil
}

// GenerateCredentials generates GCP credentials based on the provided configuration.
// It supports Service Account Key, Service Account Impersonation, and ADC.
// Impersonation uses the service account key as the base identity when one is
// configured, and ADC otherwise.
func (c *Config) GenerateCredentials(ctx context.Context) (*google.Credentials, error) {
	var creds *google.Credentials
	var err error

	switch {
	case c.TargetServiceAccountId != "":
		creds, err = c.credentialsFromImpersonation(ctx)
	case c.hasServiceAccountKey():
		creds, err = c.credentialsFromServiceAccountKey(ctx)
	default:
		creds, err = c.credentialsFromADC(ctx)
	}

	if err != nil {
		return nil, err
	}

	return creds, nil
}

// credentialsFromServiceAccountKey generates the credentials from the service account key.
func (c *Config) credentialsFromServiceAccountKey(ctx context.Context) (*google.Credentials, error) {
	if c.PrivateKey == "" {
		return nil, status.Error(codes.InvalidArgument, "private_key is required")
	}
	if c.ClientEmail == "" {
		return nil, status.Error(codes.InvalidArgument, "client_email is required")
	}

	credBytes, err := json.Marshal(c.toCredentials())
	if err != nil {
		return nil, status.Error(codes.Internal, "error marshaling credentials")
	}
	creds, err := google.CredentialsFromJSON(ctx, credBytes, c.Scopes...)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to parse credentials: %v", err)
	}
	return creds, nil
}

// credentialsFromImpersonation generates the credentials from the impersonation.
func (c *Config) credentialsFromImpersonation(ctx context.Context) (*google.Credentials, error) {
	if c.TargetServiceAccountId == "" {
		return nil, status.Error(codes.InvalidArgument, "target_service_account_id is required")
	}

	var baseCredentialsJSON []byte
	if c.PrivateKey != "" || c.ClientEmail != "" {
		if c.PrivateKey == "" {
			return nil, status.Error(codes.InvalidArgument, "private_key is required")
		}
		if c.ClientEmail == "" {
			return nil, status.Error(codes.InvalidArgument, "client_email is required")
		}
		var err error
		baseCredentialsJSON, err = json.Marshal(c.toCredentials())
		if err != nil {
			return nil, status.Error(codes.Internal, "error marshaling credentials")
		}
	}

	creds, err := impersonateServiceAccount(ctx, c.ProjectId, baseCredentialsJSON, c.TargetServiceAccountId, c.Scopes)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "error impersonating service account: %v", err)
	}
	return creds, nil
}

// credentialsFromADC generates the credentials from the Application Default Credentials (ADC).
func (c *Config) credentialsFromADC(ctx context.Context) (*google.Credentials, error) {
	creds, err := findDefaultCredentialsFn(ctx, c.Scopes...)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to find default credentials: %v", err)
	}
	return creds, nil
}

// impersonateServiceAccount impersonates the service account. A nil
// baseCredentialsJSON makes the impersonate package fall back to ADC for the
// calling identity.
func impersonateServiceAccount(
	ctx context.Context,
	projectId string,
	baseCredentialsJSON []byte,
	targetServiceAccountId string,
	scopes []string,
) (*google.Credentials, error) {
	if targetServiceAccountId == "" {
		return nil, status.Error(codes.InvalidArgument, "target_service_account_id is required")
	}
	if len(scopes) == 0 {
		return nil, status.Error(codes.InvalidArgument, "scope is required")
	}

	var opts []googleOption.ClientOption
	if baseCredentialsJSON != nil {
		opts = append(opts, googleOption.WithCredentialsJSON(baseCredentialsJSON))
	}

	ts, err := impersonateServiceAccountFn(ctx, impersonate.CredentialsConfig{
		TargetPrincipal: targetServiceAccountId,
		Scopes:          scopes,
		Lifetime:        time.Hour,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create impersonated token source: %v", err)
	}

	return &google.Credentials{
		ProjectID:   projectId,
		TokenSource: ts,
	}, nil
}
