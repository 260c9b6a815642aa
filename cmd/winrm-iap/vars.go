// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/connection"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

// hostVarsFlags collect connection settings the way an inventory would:
// a YAML file of host variables plus key=value overrides.
type hostVarsFlags struct {
	varsFiles []string
	vars      []string
}

func (f *hostVarsFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.varsFiles, "vars-file", "f", nil, "YAML file of host variables; may be repeated, later files win")
	cmd.Flags().StringArrayVarP(&f.vars, "var", "e", nil, "host variable as key=value; overrides --vars-file")
}

// attributes merges the variables and converts them to connection
// attributes. Variables the connection does not use are logged and dropped.
func (f *hostVarsFlags) attributes(logger hclog.Logger) (*structpb.Struct, error) {
	vars := make(map[string]any)
	for _, path := range f.varsFiles {
		fileVars, err := readVarsFile(path)
		if err != nil {
			return nil, err
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for _, kv := range f.vars {
		k, v, err := parseVar(kv)
		if err != nil {
			return nil, err
		}
		vars[k] = v
	}

	attrs, ignored, err := connection.NormalizeVars(vars)
	if err != nil {
		return nil, err
	}
	if len(ignored) > 0 {
		logger.Debug("ignoring host variables", "names", ignored)
	}
	return attrs, nil
}

func readVarsFile(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading vars file: %w", err)
	}
	vars := make(map[string]any)
	if err := yaml.Unmarshal(b, &vars); err != nil {
		return nil, fmt.Errorf("error parsing vars file %s: %w", path, err)
	}
	return vars, nil
}

// parseVar splits key=value. The value is read as a YAML scalar so that
// numbers and booleans keep their type.
func parseVar(kv string) (string, any, error) {
	k, raw, ok := strings.Cut(kv, "=")
	if !ok || k == "" {
		return "", nil, fmt.Errorf("invalid variable %q, want key=value", kv)
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return k, raw, nil
	}
	switch v.(type) {
	case map[string]any:
		return k, raw, nil
	}
	return k, v, nil
}
