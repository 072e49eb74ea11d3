package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaders_SetReplacesAllValues(t *testing.T) {
	t.Parallel()

	h := Headers{}
	h.SetValues("X-Test", []string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, h.GetAll("X-Test"))

	h.Set("X-Test", "c")
	assert.Equal(t, []string{"c"}, h.GetAll("X-Test"))
	assert.Equal(t, "c", h.Get("x-test"))
}

func TestHeaders_KeyNormalization(t *testing.T) {
	t.Parallel()

	h := Headers{}
	h.Set("content-length", "9")
	assert.True(t, h.Contains("Content-Length"))
	assert.Equal(t, "9", h.Get("CONTENT-LENGTH"))

	s := string(h.AppendBytes(nil))
	assert.True(t, strings.Contains(s, "Content-Length: 9\r\n"))
}

func TestHeaders_ContentLengthSetFlag(t *testing.T) {
	t.Parallel()

	h := Headers{}
	assert.False(t, h.ContentLengthSet())
	h.Set("Content-Length", "10")
	assert.True(t, h.ContentLengthSet())
	h.Del("Content-Length")
	assert.False(t, h.ContentLengthSet())

	assert.False(t, h.ContentTypeSet())
	h.Set("Content-Type", "text/plain")
	assert.True(t, h.ContentTypeSet())
}

func TestHeaders_OrderPreserved(t *testing.T) {
	t.Parallel()

	h := Headers{}
	h.Set("A", "1")
	h.Set("B", "2")
	h.Set("C", "3")
	h.Set("B", "4") // 原地替换，不改变位置

	assert.Equal(t, "A: 1\r\nB: 4\r\nC: 3\r\n", string(h.AppendBytes(nil)))
}

func TestHeaders_DelAndVisit(t *testing.T) {
	t.Parallel()

	h := Headers{}
	h.SetValues("X-Multi", []string{"1", "2"})
	h.Set("X-Keep", "y")
	h.Del("X-Multi")
	assert.False(t, h.Contains("X-Multi"))

	var keys []string
	h.VisitAll(func(key, value []byte) {
		keys = append(keys, string(key))
	})
	assert.Equal(t, []string{"X-Keep"}, keys)
}

func TestHeaders_CopyTo(t *testing.T) {
	t.Parallel()

	h := Headers{}
	h.Set("Content-Length", "3")
	h.Set("X-A", "b")

	var dst Headers
	h.CopyTo(&dst)
	assert.True(t, dst.ContentLengthSet())
	assert.Equal(t, "b", dst.Get("X-A"))
	assert.Equal(t, h.Len(), dst.Len())
}
