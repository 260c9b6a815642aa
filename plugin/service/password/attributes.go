// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package password

import (
	"fmt"

	cred "github.com/hashicorp/winrm-iap-plugin-gcp/internal/credential"
	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/errors"
	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/values"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// PasswordAttributes are the validated inputs of a password reset.
type PasswordAttributes struct {
	*cred.CredentialAttributes

	InstanceName        string
	User                string
	VaultEncrypt        bool
	VaultPasswordFile   string
	HostVarsDir         string
	Backend             string
	ValidatePermissions bool
}

func getPasswordAttributes(in *structpb.Struct) (*PasswordAttributes, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "attributes are required")
	}

	unknownFields := values.StructFields(in)
	badFields := make(map[string]string)

	credAttributes, err := cred.GetCredentialAttributes(in)
	if err != nil {
		return nil, err
	}

	for s := range unknownFields {
		switch s {
		// Ignore knownFields from CredentialAttributes
		case cred.ConstProject, cred.ConstZone, cred.ConstCredentialsFile, cred.ConstImpersonateServiceAccount:
			continue
		case ConstInstanceName, ConstUser, ConstVaultEncrypt, ConstVaultPasswordFile,
			ConstHostVarsDir, ConstBackend, ConstValidatePermissions:
			continue
		default:
			badFields[fmt.Sprintf("attributes.%s", s)] = "unrecognized field"
		}
	}

	attrs := &PasswordAttributes{CredentialAttributes: credAttributes}

	if attrs.InstanceName, err = values.GetStringValue(in, ConstInstanceName, true); err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstInstanceName)] = err.Error()
	}
	if attrs.User, err = values.GetStringValue(in, ConstUser, false); err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstUser)] = err.Error()
	}
	if attrs.VaultEncrypt, err = values.GetBoolValue(in, ConstVaultEncrypt, false); err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstVaultEncrypt)] = err.Error()
	}
	if attrs.VaultPasswordFile, err = values.GetStringValue(in, ConstVaultPasswordFile, false); err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstVaultPasswordFile)] = err.Error()
	}
	if attrs.HostVarsDir, err = values.GetStringValue(in, ConstHostVarsDir, false); err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstHostVarsDir)] = err.Error()
	}
	if attrs.Backend, err = values.GetStringValue(in, ConstBackend, false); err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstBackend)] = err.Error()
	}
	if attrs.ValidatePermissions, err = values.GetBoolValue(in, ConstValidatePermissions, false); err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstValidatePermissions)] = err.Error()
	}

	if attrs.VaultEncrypt && attrs.VaultPasswordFile == "" {
		if _, ok := badFields[fmt.Sprintf("attributes.%s", ConstVaultPasswordFile)]; !ok {
			badFields[fmt.Sprintf("attributes.%s", ConstVaultPasswordFile)] = "vault_password_file is required when vault_encrypt is true"
		}
	}

	switch attrs.Backend {
	case "":
		attrs.Backend = BackendGcloud
	case BackendGcloud, BackendAPI:
	default:
		badFields[fmt.Sprintf("attributes.%s", ConstBackend)] = fmt.Sprintf("backend must be %q or %q", BackendGcloud, BackendAPI)
	}
	if attrs.ValidatePermissions && attrs.Backend == BackendGcloud {
		badFields[fmt.Sprintf("attributes.%s", ConstValidatePermissions)] = "permission validation is only available with the api backend"
	}

	if len(badFields) > 0 {
		return nil, errors.InvalidArgumentError("Error in the attributes provided", badFields)
	}

	if attrs.User == "" {
		attrs.User = DefaultUser
	}
	if attrs.HostVarsDir == "" {
		attrs.HostVarsDir = DefaultHostVarsDir
	}

	return attrs, nil
}
