// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package connection

import (
	"os"
	"sync"
)

const noProxyEnv = "NO_PROXY"

var noProxyOnce sync.Once

// EnsureNoProxyDefault excludes localhost from proxying by setting NO_PROXY
// when it is unset. It only does anything the first time it is called in a
// process.
func EnsureNoProxyDefault() {
	noProxyOnce.Do(setNoProxyDefault)
}

func setNoProxyDefault() {
	if _, ok := os.LookupEnv(noProxyEnv); ok {
		return
	}
	_ = os.Setenv(noProxyEnv, "localhost")
}
