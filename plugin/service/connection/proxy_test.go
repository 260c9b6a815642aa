// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package connection

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetNoProxyDefault(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv(noProxyEnv, "")
		require.NoError(t, os.Unsetenv(noProxyEnv))

		setNoProxyDefault()
		assert.Equal(t, "localhost", os.Getenv(noProxyEnv))
	})
	t.Run("already set", func(t *testing.T) {
		t.Setenv(noProxyEnv, "example.com")

		setNoProxyDefault()
		assert.Equal(t, "example.com", os.Getenv(noProxyEnv))
	})
	t.Run("set but empty", func(t *testing.T) {
		t.Setenv(noProxyEnv, "")

		setNoProxyDefault()
		v, ok := os.LookupEnv(noProxyEnv)
		assert.True(t, ok)
		assert.Empty(t, v)
	})
}
