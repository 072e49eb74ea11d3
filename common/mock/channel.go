// Package mock 提供测试用的同步事件通道与写入记录器。
package mock

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/cloudwego/netpoll"
	errs "github.com/favbox/breeze/common/errors"
	"github.com/favbox/breeze/common/utils"
	"github.com/favbox/breeze/network"
)

// SendFileCall 记录一次文件段发送的参数。
type SendFileCall struct {
	Name   string
	Offset int64
	Length int64
}

// Channel 是同步的内存事件通道：帧在 WriteFrame 内立即编码进缓冲区并完成，
// RunOnContext 内联执行。用于在单协程测试里观察响应写出的线上字节。
type Channel struct {
	mu sync.Mutex

	buf bytes.Buffer
	zw  network.Writer

	frames    int
	payload   int
	full      bool
	closed    bool
	failErr   error
	onClosed  func()
	sendFiles []SendFileCall
}

var _ network.Channel = (*Channel)(nil)

// NewChannel 创建同步事件通道。
func NewChannel() *Channel {
	c := &Channel{}
	c.zw = netpoll.NewReadWriter(&c.buf)
	return c
}

func (c *Channel) WriteFrame(f network.Frame) *network.Future {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return network.CompletedFuture(errs.ErrConnectionClosed)
	}
	if c.failErr != nil {
		err := c.failErr
		c.mu.Unlock()
		return network.CompletedFuture(err)
	}
	c.frames++
	c.payload += f.Payload()
	err := f.Encode(c.zw)
	if err == nil {
		err = c.zw.Flush()
	}
	c.mu.Unlock()
	return network.CompletedFuture(err)
}

func (c *Channel) SendFileRange(file *os.File, offset, length int64) *network.Future {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		file.Close() //nolint:errcheck
		return network.CompletedFuture(errs.ErrConnectionClosed)
	}
	c.sendFiles = append(c.sendFiles, SendFileCall{Name: file.Name(), Offset: offset, Length: length})
	if c.failErr != nil {
		err := c.failErr
		c.mu.Unlock()
		file.Close() //nolint:errcheck
		return network.CompletedFuture(err)
	}
	_, err := utils.CopyZeroAlloc(c.zw, io.NewSectionReader(file, offset, length))
	c.mu.Unlock()
	file.Close() //nolint:errcheck
	return network.CompletedFuture(err)
}

func (c *Channel) WriteQueueFull() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.full
}

func (c *Channel) SetWriteQueueMaxSize(n int) {}

// Close 标记通道关闭并派发一次关闭回调。
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	fn := c.onClosed
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
	return nil
}

// RunOnContext 内联执行 fn。
func (c *Channel) RunOnContext(fn func()) {
	fn()
}

func (c *Channel) Executor() network.Executor {
	return c
}

// --- 测试钩子与观察器 ---

// FailWrites 使后续写入以 err 失败。err 为 nil 时恢复正常。
func (c *Channel) FailWrites(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failErr = err
}

// SetFull 设置背压状态。
func (c *Channel) SetFull(full bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.full = full
}

// OnClosed 注册通道关闭回调。
func (c *Channel) OnClosed(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClosed = fn
}

// WireBytes 返回已写到线上的字节副本。
func (c *Channel) WireBytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.buf.Bytes()
	dst := make([]byte, len(b))
	copy(dst, b)
	return dst
}

// WireString 返回已写到线上的字节串。
func (c *Channel) WireString() string {
	return string(c.WireBytes())
}

// Frames 返回已写入的帧数。
func (c *Channel) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Payload 返回帧声明的累计负载字节数。
func (c *Channel) Payload() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payload
}

// Closed 报告通道是否已关闭。
func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// SendFileCalls 返回文件段发送记录。
func (c *Channel) SendFileCalls() []SendFileCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendFiles
}
