// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package password resets the password of a local account on a Windows
// Compute Engine instance.
//
// Two backends are available. The default, gcloud, runs
// `gcloud compute reset-windows-password` and parses its JSON output. The
// api backend talks to the Compute Engine API directly: it adds a freshly
// generated RSA public key to the instance's windows-keys metadata and
// waits for the guest agent to write the new password, encrypted with that
// key, to serial port 4. It needs no gcloud installation and can check the
// caller's IAM permissions first.
//
// With vault_encrypt set the credentials are written as ansible_user and
// ansible_password to <host_vars_dir>/<instance>/vault.yml and encrypted
// with ansible-vault.
package password
