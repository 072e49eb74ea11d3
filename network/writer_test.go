package network

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_MallocAndFlush(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	w := NewWriter(&out)

	buf, err := w.Malloc(5)
	assert.Nil(t, err)
	copy(buf, "hello")
	assert.Nil(t, w.Flush())
	assert.Equal(t, "hello", out.String())
}

func TestWriter_WriteBinarySmallAndLarge(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	w := NewWriter(&out)

	small := []byte("abc")
	n, err := w.WriteBinary(small)
	assert.Nil(t, err)
	assert.Equal(t, 3, n)

	// 超过块余量的切片独占新块，顺序不变
	large := bytes.Repeat([]byte("x"), minBlockSize+1)
	n, err = w.WriteBinary(large)
	assert.Nil(t, err)
	assert.Equal(t, len(large), n)

	assert.Nil(t, w.Flush())
	assert.Equal(t, len(small)+len(large), out.Len())
	assert.Equal(t, "abc", out.String()[:3])
}

func TestWriter_MallocStableAcrossWrites(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	w := NewWriter(&out)

	// 先划出的缓冲区在后续写入（含开新块）之后仍然有效
	buf, err := w.Malloc(4)
	assert.Nil(t, err)
	_, err = w.WriteBinary(bytes.Repeat([]byte("y"), minBlockSize*2))
	assert.Nil(t, err)
	copy(buf, "head")

	assert.Nil(t, w.Flush())
	assert.Equal(t, "head", out.String()[:4])
	assert.Equal(t, 4+minBlockSize*2, out.Len())
}

func TestWriter_WritesAreCopied(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	w := NewWriter(&out)

	b := []byte("before")
	_, err := w.WriteBinary(b)
	assert.Nil(t, err)
	copy(b, "XXXXXX") // 调用方复用切片不影响已缓冲的数据
	assert.Nil(t, w.Flush())
	assert.Equal(t, "before", out.String())
}

func TestWriter_FlushResetsBuffer(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	w := NewWriter(&out)

	w.WriteBinary([]byte("one")) //nolint:errcheck
	assert.Nil(t, w.Flush())
	w.WriteBinary([]byte("two")) //nolint:errcheck
	assert.Nil(t, w.Flush())
	assert.Equal(t, "onetwo", out.String())
}
