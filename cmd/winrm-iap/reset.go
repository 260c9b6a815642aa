// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/json"
	"fmt"

	cred "github.com/hashicorp/winrm-iap-plugin-gcp/internal/credential"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/password"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

// resetOutput is printed after a reset.
type resetOutput struct {
	Changed   bool   `json:"changed" yaml:"changed"`
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
	IPAddress string `json:"ip_address" yaml:"ip_address"`
	VaultFile string `json:"vault_file,omitempty" yaml:"vault_file,omitempty"`
}

type resetFlags struct {
	instance            string
	project             string
	zone                string
	user                string
	vaultEncrypt        bool
	vaultPasswordFile   string
	hostVarsDir         string
	backend             string
	impersonate         string
	credentialsFile     string
	validatePermissions bool
	output              string
}

// attributes converts the flags that were set into password attributes.
// Unset flags are left out so the service applies its defaults.
func (f *resetFlags) attributes(flags *pflag.FlagSet) (*structpb.Struct, error) {
	m := map[string]any{
		password.ConstInstanceName: f.instance,
		cred.ConstProject:          f.project,
		cred.ConstZone:             f.zone,
	}
	optional := []struct {
		flag string
		key  string
		val  any
	}{
		{"user", password.ConstUser, f.user},
		{"vault-encrypt", password.ConstVaultEncrypt, f.vaultEncrypt},
		{"vault-password-file", password.ConstVaultPasswordFile, f.vaultPasswordFile},
		{"host-vars-dir", password.ConstHostVarsDir, f.hostVarsDir},
		{"backend", password.ConstBackend, f.backend},
		{"impersonate-service-account", cred.ConstImpersonateServiceAccount, f.impersonate},
		{"credentials-file", cred.ConstCredentialsFile, f.credentialsFile},
		{"validate-permissions", password.ConstValidatePermissions, f.validatePermissions},
	}
	for _, o := range optional {
		if flags.Changed(o.flag) {
			m[o.key] = o.val
		}
	}
	return structpb.NewStruct(m)
}

func (f *resetFlags) bind(flags *pflag.FlagSet) {
	flags.StringVar(&f.instance, "instance", "", "instance name")
	flags.StringVar(&f.project, "project", "", "project of the instance")
	flags.StringVar(&f.zone, "zone", "", "zone of the instance")
	flags.StringVar(&f.user, "user", password.DefaultUser, "Windows account to reset")
	flags.BoolVar(&f.vaultEncrypt, "vault-encrypt", false, "write the credentials to an ansible-vault encrypted file")
	flags.StringVar(&f.vaultPasswordFile, "vault-password-file", "", "ansible-vault password file")
	flags.StringVar(&f.hostVarsDir, "host-vars-dir", password.DefaultHostVarsDir, "directory for the vault file")
	flags.StringVar(&f.backend, "backend", password.BackendGcloud, "reset through gcloud or the Compute Engine api")
	flags.StringVar(&f.impersonate, "impersonate-service-account", "", "service account to impersonate")
	flags.StringVar(&f.credentialsFile, "credentials-file", "", "service account key file")
	flags.BoolVar(&f.validatePermissions, "validate-permissions", false, "check IAM permissions first (api backend)")
	flags.StringVarP(&f.output, "output", "o", "yaml", "output format: yaml or json")
}

func newResetPasswordCmd(root *rootFlags) *cobra.Command {
	f := &resetFlags{}
	cmd := &cobra.Command{
		Use:   "reset-windows-password",
		Short: "Reset a local account password on a Windows instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.output != "yaml" && f.output != "json" {
				return fmt.Errorf("unknown output format %q", f.output)
			}
			logger, err := root.logger()
			if err != nil {
				return err
			}
			attrs, err := f.attributes(cmd.Flags())
			if err != nil {
				return err
			}
			p, err := root.plugin(logger)
			if err != nil {
				return err
			}
			res, err := p.Password.Reset(cmd.Context(), attrs)
			if err != nil {
				return err
			}

			out := resetOutput{
				Changed:   res.Changed,
				Username:  res.Username,
				Password:  res.Password,
				IPAddress: res.IPAddress,
				VaultFile: res.VaultFile,
			}
			if f.output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(out)
		},
	}

	f.bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("instance")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("zone")
	return cmd
}
