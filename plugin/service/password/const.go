// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package password

import "time"

const (
	// ConstInstanceName is the instance whose password is reset.
	ConstInstanceName = "instance_name"
	// ConstUser is the Windows account to reset. It is created when it does
	// not exist.
	ConstUser = "user"
	// ConstVaultEncrypt writes the credentials to an encrypted vault file
	// when true.
	ConstVaultEncrypt = "vault_encrypt"
	// ConstVaultPasswordFile is passed to ansible-vault. Required when
	// vault_encrypt is set.
	ConstVaultPasswordFile = "vault_password_file"
	// ConstHostVarsDir is the directory holding one directory of variables
	// per instance.
	ConstHostVarsDir = "host_vars_dir"
	// ConstBackend selects how the password is reset: "gcloud" or "api".
	ConstBackend = "backend"
	// ConstValidatePermissions checks the caller's IAM permissions before
	// resetting through the api backend.
	ConstValidatePermissions = "validate_permissions"
)

const (
	BackendGcloud = "gcloud"
	BackendAPI    = "api"

	DefaultUser             = "ansible_admin"
	DefaultHostVarsDir      = "host_vars"
	DefaultGcloudPath       = "gcloud"
	DefaultAnsibleVaultPath = "ansible-vault"

	// DefaultPasswordTimeout bounds how long the api backend waits for the
	// guest agent to publish the new password.
	DefaultPasswordTimeout = 2 * time.Minute
	DefaultPollInterval    = 2 * time.Second

	vaultFileName = "vault.yml"

	windowsKeysMetadataKey = "windows-keys"
	windowsKeyLifetime     = 5 * time.Minute
	windowsKeyBits         = 2048
	// The guest agent writes credentials to COM4.
	credentialsSerialPort = 4
)
