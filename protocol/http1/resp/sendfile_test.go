package resp

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/mockey"
	errs "github.com/favbox/breeze/common/errors"
	"github.com/favbox/breeze/common/mock"
	"github.com/favbox/breeze/protocol/consts"
	"github.com/stretchr/testify/assert"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.Nil(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSendFile_WholeFile(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "index.html", "<html></html>")
	ch := mock.NewChannel()
	r := newTestResponse(ch, consts.HTTP11, "", false)

	bodyEnds := 0
	assert.Nil(t, r.BodyEndHandler(func() { bodyEnds++ }))

	var got error
	called := 0
	assert.Nil(t, r.SendFile(path, 0, -1, func(err error) {
		called++
		got = err
	}))

	wire := ch.WireString()
	assert.True(t, strings.Contains(wire, "Content-Length: 13\r\n"))
	assert.True(t, strings.Contains(wire, "Content-Type: text/html"))
	assert.True(t, strings.HasSuffix(wire, "\r\n\r\n<html></html>"))

	assert.Equal(t, 1, called)
	assert.Nil(t, got)
	assert.Equal(t, 1, bodyEnds)
	assert.True(t, r.Ended())
	assert.Equal(t, uint64(13), r.BytesWritten())

	calls := ch.SendFileCalls()
	assert.Equal(t, 1, len(calls))
	assert.Equal(t, int64(0), calls[0].Offset)
	assert.Equal(t, int64(13), calls[0].Length)
}

func TestSendFile_RangeClamped(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "data.bin", "0123456789")

	// 段在文件内
	ch := mock.NewChannel()
	r := newTestResponse(ch, consts.HTTP11, "", false)
	assert.Nil(t, r.SendFile(path, 2, 5, nil))
	assert.True(t, strings.Contains(ch.WireString(), "Content-Length: 5\r\n"))
	assert.True(t, strings.HasSuffix(ch.WireString(), "23456"))

	// 长度越界钳制到文件末尾
	ch = mock.NewChannel()
	r = newTestResponse(ch, consts.HTTP11, "", false)
	assert.Nil(t, r.SendFile(path, 8, 100, nil))
	assert.True(t, strings.Contains(ch.WireString(), "Content-Length: 2\r\n"))
	assert.True(t, strings.HasSuffix(ch.WireString(), "89"))

	// 偏移越界得到空正文
	ch = mock.NewChannel()
	r = newTestResponse(ch, consts.HTTP11, "", false)
	assert.Nil(t, r.SendFile(path, 100, -1, nil))
	assert.True(t, strings.Contains(ch.WireString(), "Content-Length: 0\r\n"))
}

func TestSendFile_CallerContentTypeWins(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "page.html", "x")
	ch := mock.NewChannel()
	r := newTestResponse(ch, consts.HTTP11, "", false)

	assert.Nil(t, r.PutHeader("Content-Type", "application/octet-stream"))
	assert.Nil(t, r.SendFile(path, 0, -1, nil))
	assert.True(t, strings.Contains(ch.WireString(), "Content-Type: application/octet-stream\r\n"))
	assert.False(t, strings.Contains(ch.WireString(), "text/html"))
}

func TestSendFile_Head(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "doc.html", "hello")
	ch := mock.NewChannel()
	r := newTestResponse(ch, consts.HTTP11, "", true)

	called := 0
	assert.Nil(t, r.SendFile(path, 0, -1, func(err error) {
		called++
		assert.Nil(t, err)
	}))

	// HEAD：只有标头上线，不发送文件段
	assert.True(t, strings.HasSuffix(ch.WireString(), "\r\n\r\n"))
	assert.Equal(t, 0, len(ch.SendFileCalls()))
	assert.Equal(t, 1, called)
	assert.Equal(t, uint64(0), r.BytesWritten())
	assert.True(t, r.Ended())
}

func TestSendFile_CloseAfterWrite(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "last.txt", "bye")
	ch := mock.NewChannel()
	r := newTestResponse(ch, consts.HTTP10, "", false)

	assert.Nil(t, r.SendFile(path, 0, -1, nil))
	assert.True(t, ch.Closed())
}

func TestSendFile_NotFound(t *testing.T) {
	t.Parallel()

	ch := mock.NewChannel()
	r := newTestResponse(ch, consts.HTTP11, "", false)

	var got error
	called := 0
	assert.Nil(t, r.SendFile(filepath.Join(t.TempDir(), "missing"), 0, -1, func(err error) {
		called++
		got = err
	}))

	assert.Equal(t, 1, called)
	var e *errs.Error
	assert.True(t, errors.As(got, &e))
	assert.True(t, e.IsType(errs.ErrorTypeResource))
	assert.True(t, errors.Is(got, os.ErrNotExist))

	// 打开失败不改变响应状态，仍可正常完成
	assert.Equal(t, 0, len(ch.WireBytes()))
	assert.False(t, r.HeadWritten())
	assert.Nil(t, r.End([]byte("fallback")))
}

func TestSendFile_AfterHeadWritten(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "late.txt", "x")
	ch := mock.NewChannel()
	r := newTestResponse(ch, consts.HTTP11, "", false)

	assert.Nil(t, r.SetChunked(true))
	assert.Nil(t, r.Write([]byte("early")))

	err := r.SendFile(path, 0, -1, nil)
	assert.True(t, errors.Is(err, errs.ErrHeadAlreadyWritten))
}

func TestSendFile_OpenError(t *testing.T) {
	mockey.PatchConvey("打开文件返回权限错误", t, func() {
		wantErr := os.ErrPermission
		mockey.Mock(os.Open).Return(nil, wantErr).Build()

		ch := mock.NewChannel()
		r := newTestResponse(ch, consts.HTTP11, "", false)

		var got error
		assert.Nil(t, r.SendFile("/etc/secret", 0, -1, func(err error) { got = err }))
		assert.True(t, errors.Is(got, os.ErrPermission))
		assert.False(t, r.HeadWritten())
	})
}
