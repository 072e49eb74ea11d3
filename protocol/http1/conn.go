// Package http1 将事件通道与响应状态机装配为一条 HTTP/1.x 服务端连接。
package http1

import (
	"net"
	"sync"

	"github.com/favbox/breeze/network"
	"github.com/favbox/breeze/protocol/consts"
	"github.com/favbox/breeze/protocol/http1/resp"
)

// ServerConn 表示一条 HTTP/1.x 服务端连接。
//
// 连接与其上的每个响应共享同一把锁。通道层的排空与关闭事件被转发给
// 当前在途的响应。
type ServerConn struct {
	mu      sync.Mutex
	ch      network.Channel
	current *resp.Response
}

// NewServerConn 基于 c 创建服务端连接。opts 中的 OnDrained 与 OnClosed
// 在转发给当前响应之后仍会被调用。
func NewServerConn(c net.Conn, opts network.ChannelOptions) *ServerConn {
	sc := &ServerConn{}

	userDrained := opts.OnDrained
	opts.OnDrained = func() {
		if r := sc.currentResponse(); r != nil {
			r.HandleDrained()
		}
		if userDrained != nil {
			userDrained()
		}
	}
	userClosed := opts.OnClosed
	opts.OnClosed = func() {
		if r := sc.currentResponse(); r != nil {
			r.HandleClosed()
		}
		if userClosed != nil {
			userClosed()
		}
	}

	sc.ch = network.NewEventChannel(c, opts)
	return sc
}

// NewResponse 为一次请求创建响应并将其设为连接的当前响应。
//
// reqConnection 是请求的 Connection 标头原值，isHead 标记 HEAD 请求。
func (sc *ServerConn) NewResponse(version consts.Version, reqConnection []byte, isHead bool) *resp.Response {
	r := resp.NewResponse(sc.ch, &sc.mu, version, reqConnection, isHead)
	sc.mu.Lock()
	sc.current = r
	sc.mu.Unlock()
	return r
}

// Channel 返回连接的底层事件通道。
func (sc *ServerConn) Channel() network.Channel {
	return sc.ch
}

// Close 关闭底层连接。
func (sc *ServerConn) Close() error {
	return sc.ch.Close()
}

func (sc *ServerConn) currentResponse() *resp.Response {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.current
}
