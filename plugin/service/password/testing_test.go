// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package password

import (
	"context"
	"testing"
)

type commandCall struct {
	Name string
	Args []string
}

// fakeCommands replaces runCommandFn for the duration of the test.
func fakeCommands(t *testing.T, fn func(name string, args []string) (*commandResult, error)) *[]commandCall {
	t.Helper()
	calls := &[]commandCall{}
	orig := runCommandFn
	runCommandFn = func(_ context.Context, name string, args ...string) (*commandResult, error) {
		*calls = append(*calls, commandCall{Name: name, Args: args})
		return fn(name, args)
	}
	t.Cleanup(func() { runCommandFn = orig })
	return calls
}
