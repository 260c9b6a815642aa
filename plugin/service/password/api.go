// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package password

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/compute/apiv1/computepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

// windowsKey is one entry of the windows-keys metadata value. The guest
// agent creates or resets UserName and publishes the new password encrypted
// with the key.
type windowsKey struct {
	UserName string `json:"userName"`
	Modulus  string `json:"modulus"`
	Exponent string `json:"exponent"`
	Email    string `json:"email,omitempty"`
	ExpireOn string `json:"expireOn"`
}

// agentCredentials is a line the guest agent writes to the credentials
// serial port.
type agentCredentials struct {
	UserName          string `json:"userName,omitempty"`
	Modulus           string `json:"modulus,omitempty"`
	EncryptedPassword string `json:"encryptedPassword,omitempty"`
	ErrorMessage      string `json:"errorMessage,omitempty"`
}

func newWindowsKey(pub *rsa.PublicKey, user, email string, now time.Time) *windowsKey {
	exp := make([]byte, 4)
	binary.BigEndian.PutUint32(exp, uint32(pub.E))
	return &windowsKey{
		UserName: user,
		Modulus:  base64.StdEncoding.EncodeToString(pub.N.Bytes()),
		Exponent: base64.StdEncoding.EncodeToString(exp),
		Email:    email,
		ExpireOn: now.Add(windowsKeyLifetime).UTC().Format(time.RFC3339),
	}
}

// withWindowsKey returns a copy of md with entry appended to the
// windows-keys value. Expired entries are dropped; entries that cannot be
// parsed are kept as they are.
func withWindowsKey(md *computepb.Metadata, entry string, now time.Time) *computepb.Metadata {
	out := &computepb.Metadata{}
	if md != nil {
		out = proto.Clone(md).(*computepb.Metadata)
	}

	for _, item := range out.GetItems() {
		if item.GetKey() != windowsKeysMetadataKey {
			continue
		}
		var keep []string
		for _, line := range strings.Split(item.GetValue(), "\n") {
			if strings.TrimSpace(line) == "" || expiredWindowsKey(line, now) {
				continue
			}
			keep = append(keep, line)
		}
		keep = append(keep, entry)
		item.Value = proto.String(strings.Join(keep, "\n"))
		return out
	}

	out.Items = append(out.Items, &computepb.Items{
		Key:   proto.String(windowsKeysMetadataKey),
		Value: proto.String(entry),
	})
	return out
}

func expiredWindowsKey(line string, now time.Time) bool {
	var k windowsKey
	if err := json.Unmarshal([]byte(line), &k); err != nil {
		return false
	}
	exp, err := time.Parse(time.RFC3339, k.ExpireOn)
	if err != nil {
		return false
	}
	return exp.Before(now)
}

// findEncryptedPassword looks through serial port output for the agent's
// answer to the key with the given modulus.
func findEncryptedPassword(contents, modulus string) (string, bool, error) {
	for _, line := range strings.Split(contents, "\n") {
		var c agentCredentials
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			continue
		}
		if c.Modulus != modulus {
			continue
		}
		if c.ErrorMessage != "" {
			return "", false, fmt.Errorf("error from guest agent: %s", c.ErrorMessage)
		}
		return c.EncryptedPassword, true, nil
	}
	return "", false, nil
}

func decryptPassword(key *rsa.PrivateKey, encrypted string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("error decoding password: %w", err)
	}
	pwd, err := rsa.DecryptOAEP(sha1.New(), rand.Reader, key, b, nil)
	if err != nil {
		return "", fmt.Errorf("error decrypting password: %w", err)
	}
	return string(pwd), nil
}

// resetWithAPI resets the password through the Compute Engine API the same
// way gcloud does: publish a public key in the windows-keys metadata, then
// read the encrypted password from serial port 4.
func (s *PasswordService) resetWithAPI(ctx context.Context, attrs *PasswordAttributes, client InstancesAPI, email string) (*Credentials, error) {
	logger := s.logger.With("instance", attrs.InstanceName)

	inst, err := client.Get(ctx, &computepb.GetInstanceRequest{
		Instance: attrs.InstanceName,
		Project:  attrs.ProjectId,
		Zone:     attrs.Zone,
	})
	if err != nil {
		return nil, status.Errorf(codes.Unknown, "error getting instance: %s", err)
	}

	key, err := rsa.GenerateKey(rand.Reader, windowsKeyBits)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "error generating key: %s", err)
	}
	now := time.Now()
	wk := newWindowsKey(&key.PublicKey, attrs.User, email, now)
	entry, err := json.Marshal(wk)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "error encoding windows key: %s", err)
	}

	logger.Debug("publishing windows-keys metadata", "user", attrs.User)
	if err := client.SetMetadata(ctx, &computepb.SetMetadataInstanceRequest{
		Instance:         attrs.InstanceName,
		Project:          attrs.ProjectId,
		Zone:             attrs.Zone,
		MetadataResource: withWindowsKey(inst.GetMetadata(), string(entry), now),
	}); err != nil {
		return nil, status.Errorf(codes.Unknown, "error setting instance metadata: %s", err)
	}

	encrypted, err := s.waitForPassword(ctx, client, attrs, wk.Modulus)
	if err != nil {
		return nil, err
	}
	pwd, err := decryptPassword(key, encrypted)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "%s", err)
	}

	var ip string
	if nics := inst.GetNetworkInterfaces(); len(nics) > 0 {
		ip = nics[0].GetNetworkIP()
	}
	return &Credentials{
		Username:  attrs.User,
		Password:  pwd,
		IPAddress: ip,
	}, nil
}

func (s *PasswordService) waitForPassword(ctx context.Context, client InstancesAPI, attrs *PasswordAttributes, modulus string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WithPasswordTimeout)
	defer cancel()

	req := &computepb.GetSerialPortOutputInstanceRequest{
		Instance: attrs.InstanceName,
		Project:  attrs.ProjectId,
		Zone:     attrs.Zone,
		Port:     proto.Int32(credentialsSerialPort),
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	var lastErr error
	for {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return "", status.Errorf(codes.DeadlineExceeded, "timed out waiting for the guest agent to publish the password (last error: %s)", lastErr)
			}
			return "", status.Error(codes.DeadlineExceeded, "timed out waiting for the guest agent to publish the password")
		case <-timer.C:
		}

		out, err := client.GetSerialPortOutput(ctx, req)
		if err != nil {
			lastErr = err
		} else {
			encrypted, found, err := findEncryptedPassword(out.GetContents(), modulus)
			if err != nil {
				return "", status.Errorf(codes.FailedPrecondition, "%s", err)
			}
			if found {
				return encrypted, nil
			}
		}
		timer.Reset(s.opts.WithPollInterval)
	}
}
