package http1

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"

	errs "github.com/favbox/breeze/common/errors"
	"github.com/favbox/breeze/network"
	"github.com/favbox/breeze/protocol/consts"
	"github.com/stretchr/testify/assert"
)

func TestServerConn_ResponseRoundTrip(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	defer client.Close()

	sc := NewServerConn(server, network.ChannelOptions{})
	defer sc.Close()

	r := sc.NewResponse(consts.HTTP11, nil, false)
	assert.Nil(t, r.PutHeader("X-Test", "1"))
	assert.Nil(t, r.End([]byte("hi")))

	want := "HTTP/1.1 200 OK\r\nX-Test: 1\r\nContent-Length: 2\r\n\r\nhi"
	buf := make([]byte, len(want))
	_, err := io.ReadFull(client, buf)
	assert.Nil(t, err)
	assert.Equal(t, want, string(buf))
}

func TestServerConn_CloseAfterWrite(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	defer client.Close()

	sc := NewServerConn(server, network.ChannelOptions{})

	// HTTP/1.1 请求声明 close
	r := sc.NewResponse(consts.HTTP11, []byte("close"), false)
	assert.Nil(t, r.End(nil))

	want := "HTTP/1.1 200 OK\r\nConnection: close\r\nContent-Length: 0\r\n\r\n"
	buf := make([]byte, len(want))
	_, err := io.ReadFull(client, buf)
	assert.Nil(t, err)
	assert.Equal(t, want, string(buf))

	// 响应写完后连接被服务端关闭
	_, err = client.Read(make([]byte, 1))
	assert.Equal(t, io.EOF, err)
}

func TestServerConn_PeerCloseForwarded(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()

	userClosed := make(chan struct{})
	sc := NewServerConn(server, network.ChannelOptions{
		OnClosed: func() { close(userClosed) },
	})

	r := sc.NewResponse(consts.HTTP11, nil, false)

	excCh := make(chan error, 2)
	r.ExceptionHandler(func(err error) { excCh <- err })
	closedCh := make(chan struct{})
	assert.Nil(t, r.CloseHandler(func() { close(closedCh) }))

	// 对端断开，随后的写入触发连接拆除
	client.Close()
	assert.Nil(t, r.PutHeader("Content-Length", "1"))
	assert.Nil(t, r.Write([]byte("x")))

	select {
	case <-closedCh:
	case <-time.After(time.Second):
		t.Fatal("未派发关闭处理器")
	}
	select {
	case err := <-excCh:
		var e *errs.Error
		assert.True(t, errors.As(err, &e))
	case <-time.After(time.Second):
		t.Fatal("未派发异常处理器")
	}
	select {
	case <-userClosed:
	case <-time.After(time.Second):
		t.Fatal("未调用用户关闭回调")
	}
}
