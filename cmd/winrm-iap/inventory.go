// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	cred "github.com/hashicorp/winrm-iap-plugin-gcp/internal/credential"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/inventory"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

type inventoryFlags struct {
	project         string
	zone            string
	filters         []string
	impersonate     string
	credentialsFile string
}

func (f *inventoryFlags) attributes() (*structpb.Struct, error) {
	m := map[string]any{
		cred.ConstProject: f.project,
		cred.ConstZone:    f.zone,
	}
	if len(f.filters) > 0 {
		filters := make([]any, 0, len(f.filters))
		for _, filter := range f.filters {
			filters = append(filters, filter)
		}
		m[inventory.ConstListInstancesFilter] = filters
	}
	if f.impersonate != "" {
		m[cred.ConstImpersonateServiceAccount] = f.impersonate
	}
	if f.credentialsFile != "" {
		m[cred.ConstCredentialsFile] = f.credentialsFile
	}
	return structpb.NewStruct(m)
}

// inventoryDocument lays the hosts out as a YAML inventory. Each host's
// variables can be passed back to exec with --vars-file.
func inventoryDocument(inv *inventory.Inventory) map[string]any {
	hosts := make(map[string]any, len(inv.Hosts))
	for _, h := range inv.Hosts {
		hosts[h.Name] = inv.HostVars(h)
	}
	return map[string]any{
		"all": map[string]any{
			"hosts": hosts,
		},
	}
}

func newInventoryCmd(root *rootFlags) *cobra.Command {
	f := &inventoryFlags{}
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "List the instances of a zone as a YAML inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}
			attrs, err := f.attributes()
			if err != nil {
				return err
			}
			p, err := root.plugin(logger)
			if err != nil {
				return err
			}
			inv, err := p.Inventory.ListHosts(cmd.Context(), attrs)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(inventoryDocument(inv))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.project, "project", "", "project to list")
	flags.StringVar(&f.zone, "zone", "", "zone to list")
	flags.StringArrayVar(&f.filters, "filter", nil, "instance filter such as 'labels.os = windows'; may be repeated")
	flags.StringVar(&f.impersonate, "impersonate-service-account", "", "service account to impersonate")
	flags.StringVar(&f.credentialsFile, "credentials-file", "", "service account key file")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("zone")
	return cmd
}
