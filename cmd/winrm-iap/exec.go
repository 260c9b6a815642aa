// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"strings"

	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/connection"
	"github.com/spf13/cobra"
)

func newExecCmd(root *rootFlags) *cobra.Command {
	var vars hostVarsFlags
	var powershell bool
	cmd := &cobra.Command{
		Use:   "exec [flags] -- COMMAND [ARGS...]",
		Short: "Run a command on an instance over WinRM through an IAP tunnel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger, err := root.logger()
			if err != nil {
				return err
			}
			attrs, err := vars.attributes(logger)
			if err != nil {
				return err
			}
			p, err := root.plugin(logger)
			if err != nil {
				return err
			}
			conn, err := p.NewConnection(attrs, root.protocol)
			if err != nil {
				return err
			}
			defer func() {
				if err := conn.Close(); err != nil {
					logger.Warn("error closing connection", "error", err)
				}
			}()

			command := strings.Join(args, " ")
			if powershell {
				command = connection.Powershell(command)
			}
			res, err := conn.Exec(ctx, command)
			if err != nil {
				return err
			}
			_, _ = cmd.OutOrStdout().Write(res.Stdout)
			_, _ = cmd.ErrOrStderr().Write(res.Stderr)
			if res.ExitCode != 0 {
				return &exitCodeError{code: res.ExitCode}
			}
			return nil
		},
	}
	vars.bind(cmd)
	cmd.Flags().BoolVar(&powershell, "powershell", false, "run the command as a PowerShell script")
	return cmd
}
