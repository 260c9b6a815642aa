// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package password

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// vaultContent is the plaintext written to the vault file.
type vaultContent struct {
	AnsibleUser     string `yaml:"ansible_user"`
	AnsiblePassword string `yaml:"ansible_password"`
}

// writeVault stores the credentials in <hostVarsDir>/<instance>/vault.yml,
// encrypted with ansible-vault. The plaintext only ever exists in a
// temporary file next to the target, which is removed if anything fails.
func (s *PasswordService) writeVault(ctx context.Context, attrs *PasswordAttributes, creds *Credentials) (string, error) {
	passwordFile, err := expandPath(attrs.VaultPasswordFile)
	if err != nil {
		return "", fmt.Errorf("error resolving vault password file: %w", err)
	}

	hostDir := filepath.Join(attrs.HostVarsDir, attrs.InstanceName)
	if err := os.MkdirAll(hostDir, 0o755); err != nil {
		return "", fmt.Errorf("error creating %s: %w", hostDir, err)
	}
	vaultFile := filepath.Join(hostDir, vaultFileName)

	content, err := yaml.Marshal(&vaultContent{
		AnsibleUser:     creds.Username,
		AnsiblePassword: creds.Password,
	})
	if err != nil {
		return "", fmt.Errorf("error encoding vault content: %w", err)
	}

	tmp, err := os.CreateTemp(hostDir, ".vault-*.yml")
	if err != nil {
		return "", fmt.Errorf("error creating temporary vault file: %w", err)
	}
	tmpPath := tmp.Name()
	_, writeErr := tmp.Write(content)
	closeErr := tmp.Close()
	if err := multierror.Append(writeErr, closeErr).ErrorOrNil(); err != nil {
		return "", removeAfter(tmpPath, fmt.Errorf("error writing temporary vault file: %w", err))
	}

	args := []string{"encrypt", tmpPath, "--vault-password-file", passwordFile}
	s.logger.Debug("encrypting vault file", "command", commandLine(s.opts.WithAnsibleVaultPath, args))
	res, err := runCommandFn(ctx, s.opts.WithAnsibleVaultPath, args...)
	if err != nil {
		return "", removeAfter(tmpPath, fmt.Errorf("error running ansible-vault: %w", err))
	}
	if res.ExitCode != 0 {
		return "", removeAfter(tmpPath, fmt.Errorf("ansible-vault encrypt failed: %s", bytes.TrimSpace(res.Stderr)))
	}

	if err := os.Rename(tmpPath, vaultFile); err != nil {
		return "", removeAfter(tmpPath, fmt.Errorf("error moving vault file into place: %w", err))
	}
	return vaultFile, nil
}

// removeAfter removes path and returns cause together with any removal
// failure.
func removeAfter(path string, cause error) error {
	var result *multierror.Error
	result = multierror.Append(result, cause)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		result = multierror.Append(result, fmt.Errorf("error removing %s: %w", path, err))
	}
	return result.ErrorOrNil()
}

// expandPath resolves a leading ~ and makes p absolute.
func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}
