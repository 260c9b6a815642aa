// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package connection

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/errors"
	"github.com/masterzen/winrm"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// WinRM is a Protocol backed by github.com/masterzen/winrm. It supports the
// ntlm and basic transports; plaintext is treated as basic.
type WinRM struct {
	mu     sync.Mutex
	client *winrm.Client
	shell  *winrm.Shell
}

var _ Protocol = (*WinRM)(nil)

// NewWinRM returns an unconnected WinRM protocol.
func NewWinRM() *WinRM {
	return &WinRM{}
}

// Connect opens a remote shell on t.
func (w *WinRM) Connect(_ context.Context, t Target) error {
	endpoint, params, err := winrmParameters(t)
	if err != nil {
		return err
	}
	client, err := winrm.NewClientWithParameters(endpoint, t.User, t.Password, params)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "error creating WinRM client: %s", err)
	}
	shell, err := client.CreateShell()
	if err != nil {
		return status.Errorf(codes.Unavailable, "error creating WinRM shell: %s", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.shell != nil {
		_ = w.shell.Close()
	}
	w.client = client
	w.shell = shell
	return nil
}

// Exec runs command in the open shell and collects its output.
func (w *WinRM) Exec(ctx context.Context, command string) (*ExecResult, error) {
	w.mu.Lock()
	shell := w.shell
	w.mu.Unlock()
	if shell == nil {
		return nil, status.Error(codes.FailedPrecondition, "WinRM shell is not open")
	}

	cmd, err := shell.ExecuteWithContext(ctx, command)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "error executing command: %s", err)
	}
	defer cmd.Close()

	var stdout, stderr bytes.Buffer
	g := new(errgroup.Group)
	g.Go(func() error {
		_, err := io.Copy(&stdout, cmd.Stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, cmd.Stderr)
		return err
	})
	cmd.Wait()
	if err := g.Wait(); err != nil {
		return nil, status.Errorf(codes.Unavailable, "error reading command output: %s", err)
	}

	return &ExecResult{
		ExitCode: cmd.ExitCode(),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}

// Close closes the remote shell, if one is open.
func (w *WinRM) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	shell := w.shell
	w.shell = nil
	w.client = nil
	if shell == nil {
		return nil
	}
	if err := shell.Close(); err != nil {
		return fmt.Errorf("error closing WinRM shell: %w", err)
	}
	return nil
}

// Reset forgets the shell without closing it; the tunnel it ran over is
// already gone.
func (w *WinRM) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shell = nil
	w.client = nil
}

// winrmParameters maps a Target to client settings.
func winrmParameters(t Target) (*winrm.Endpoint, *winrm.Parameters, error) {
	badFields := make(map[string]string)
	if t.Path != "" && t.Path != DefaultPath {
		badFields[ConstPath] = fmt.Sprintf("only %s is supported", DefaultPath)
	}
	decorator, err := transportDecorator(t.Transport)
	if err != nil {
		badFields[ConstTransport] = err.Error()
	}
	if len(badFields) > 0 {
		return nil, nil, errors.InvalidArgumentError("Unsupported WinRM settings", badFields)
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultConnectionTimeout
	}
	endpoint := winrm.NewEndpoint(t.Host, t.Port, t.Scheme == SchemeHTTPS, t.InsecureSkipVerify, nil, nil, nil, timeout)
	params := winrm.NewParameters(
		fmt.Sprintf("PT%dS", int(timeout.Seconds())),
		winrm.DefaultParameters.Locale,
		winrm.DefaultParameters.EnvelopeSize,
	)
	params.TransportDecorator = decorator
	return endpoint, params, nil
}

// transportDecorator picks the first supported transport in order.
func transportDecorator(transports []string) (func() winrm.Transporter, error) {
	if len(transports) == 0 {
		transports = []string{DefaultTransport}
	}
	for _, t := range transports {
		switch t {
		case "ntlm":
			return func() winrm.Transporter { return &winrm.ClientNTLM{} }, nil
		case "basic", "plaintext":
			return nil, nil
		}
	}
	if slices.Contains(transports, "kerberos") {
		return nil, fmt.Errorf("kerberos transport is not supported, use ntlm or basic")
	}
	return nil, fmt.Errorf("none of the transports %v are supported, use ntlm or basic", transports)
}

// Powershell wraps a PowerShell script so it runs through cmd.
func Powershell(script string) string {
	return winrm.Powershell(script)
}
