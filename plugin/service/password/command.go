// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package password

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// commandResult is the outcome of a command that ran to completion, even
// unsuccessfully.
type commandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// runCommandFn runs an external command. An error means the command could
// not be run at all; a non-zero exit is reported in the result.
var runCommandFn = func(ctx context.Context, name string, args ...string) (*commandResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, err
	}
	return &commandResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
