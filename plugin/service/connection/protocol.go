// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package connection

import (
	"context"
	"time"
)

// Target is where and how a Protocol connects. When produced by a
// Connection it always points at the local end of the tunnel.
type Target struct {
	Host               string
	Port               int
	Scheme             string
	Path               string
	User               string
	Password           string
	Transport          []string
	InsecureSkipVerify bool
	Timeout            time.Duration
	Kerberos           KerberosOptions
}

// ExecResult is the outcome of one remote command.
type ExecResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Protocol is a remote shell protocol session. Connection wraps one and
// only redirects where it connects.
type Protocol interface {
	// Connect opens a session to t.
	Connect(ctx context.Context, t Target) error
	// Exec runs command in the open session.
	Exec(ctx context.Context, command string) (*ExecResult, error)
	// Close closes the session.
	Close() error
	// Reset drops any cached session state without contacting the remote.
	Reset()
}
