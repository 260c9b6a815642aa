// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package credential

import (
	"context"
	"fmt"
	"net"
	"sync"

	"cloud.google.com/go/iam/apiv1/iampb"
	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"google.golang.org/grpc"
)

// TestResourceServer is a fake Resource Manager Projects service that
// answers TestIamPermissions with a canned response.
type TestResourceServer struct {
	resourcemanagerpb.UnimplementedProjectsServer
	TestIamPermissionsResponse *iampb.TestIamPermissionsResponse
	TestIamPermissionsError    error

	mu       sync.Mutex
	requests []*iampb.TestIamPermissionsRequest
}

func NewTestResourceServer(testIamPermissionsResponse *iampb.TestIamPermissionsResponse, testIamPermissionsError error) *TestResourceServer {
	return &TestResourceServer{
		TestIamPermissionsResponse: testIamPermissionsResponse,
		TestIamPermissionsError:    testIamPermissionsError,
	}
}

func (f *TestResourceServer) TestIamPermissions(_ context.Context, req *iampb.TestIamPermissionsRequest) (*iampb.TestIamPermissionsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.TestIamPermissionsResponse, f.TestIamPermissionsError
}

// LastRequest returns the most recent TestIamPermissions request, or nil.
func (f *TestResourceServer) LastRequest() *iampb.TestIamPermissionsRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// GRPCServer serves fake Google Cloud services on a local port.
type GRPCServer struct {
	*grpc.Server
}

func NewGRPCServer() *GRPCServer {
	return &GRPCServer{Server: grpc.NewServer()}
}

// Start listens on an ephemeral local port and returns its address.
func (s *GRPCServer) Start() (string, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return "", fmt.Errorf("failed to listen: %v", err)
	}
	go func() {
		if err := s.Serve(l); err != nil {
			panic(err)
		}
	}()
	return l.Addr().String(), nil
}
