// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"cloud.google.com/go/compute/apiv1/computepb"
	"google.golang.org/protobuf/encoding/protojson"
)

// testServer answers Compute Engine instance list calls.
type testServer struct {
	server                *httptest.Server
	listInstancesResponse *computepb.InstanceList
	listInstancesError    error

	mu      sync.Mutex
	paths   []string
	filters []string
}

func (s *testServer) start() *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.paths = append(s.paths, r.URL.Path)
		s.filters = append(s.filters, r.URL.Query().Get("filter"))
		s.mu.Unlock()

		if !strings.Contains(r.URL.Path, "/compute/v1/projects") {
			http.Error(w, "unknown path: "+r.URL.Path, http.StatusNotFound)
			return
		}
		if s.listInstancesError != nil {
			http.Error(w, "error listing instances: "+s.listInstancesError.Error(), http.StatusBadRequest)
			return
		}
		resp := s.listInstancesResponse
		if resp == nil {
			resp = &computepb.InstanceList{}
		}

		b, err := protojson.Marshal(resp)
		if err != nil {
			http.Error(w, "unable to marshal response: "+err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(b); err != nil {
			http.Error(w, "unable to write response: "+err.Error(), http.StatusBadRequest)
			return
		}
	}))
	s.server = ts
	return ts
}

func (s *testServer) stop() {
	s.server.Close()
}

func (s *testServer) requests() ([]string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...), append([]string(nil), s.filters...)
}

func pointer[T any](input T) *T {
	ret := input
	return &ret
}
