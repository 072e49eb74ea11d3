package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseInsensitiveCompare(t *testing.T) {
	t.Parallel()

	assert.True(t, CaseInsensitiveCompare([]byte("Keep-Alive"), []byte("keep-alive")))
	assert.False(t, CaseInsensitiveCompare([]byte("close"), []byte("closed")))
	assert.True(t, CaseInsensitiveCompare(nil, nil))
}

func TestNormalizeHeaderKey(t *testing.T) {
	t.Parallel()

	b := []byte("content-length")
	NormalizeHeaderKey(b, false)
	assert.Equal(t, "Content-Length", string(b))

	b = []byte("x-REQUEST-id")
	NormalizeHeaderKey(b, false)
	assert.Equal(t, "X-Request-Id", string(b))

	b = []byte("unTouched")
	NormalizeHeaderKey(b, true)
	assert.Equal(t, "unTouched", string(b))
}

func TestTokenListContains(t *testing.T) {
	t.Parallel()

	assert.True(t, TokenListContains([]byte("keep-alive, Upgrade"), []byte("keep-alive")))
	assert.True(t, TokenListContains([]byte("Upgrade , Close"), []byte("close")))
	assert.False(t, TokenListContains([]byte("keep-alive"), []byte("close")))
	assert.False(t, TokenListContains(nil, []byte("close")))
}
