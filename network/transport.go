package network

import (
	"io"
	"net"
	"os"
	"sync"

	errs "github.com/favbox/breeze/common/errors"
	"github.com/favbox/breeze/common/hlog"
)

// DefaultWriteQueueMaxSize 写入队列高水位线的默认值（字节）。
const DefaultWriteQueueMaxSize = 64 * 1024

// ChannelOptions 配置事件通道。
type ChannelOptions struct {
	// WriteQueueMaxSize 写入队列高水位线（字节）。0 表示 DefaultWriteQueueMaxSize。
	WriteQueueMaxSize int

	// WriteQueueLowMark 低水位线。队列占用回落到该线以下时触发 OnDrained。
	// 0 表示高水位线的一半。
	WriteQueueLowMark int

	// OnDrained 在队列占用从高水位回落至低水位线以下时被调用，运行于通道的执行上下文。
	OnDrained func()

	// OnClosed 在底层连接关闭后被调用一次，运行于通道的执行上下文。
	OnClosed func()
}

// 写入队列中的一个任务：帧写入、文件发送或上下文任务，三者取其一。
type channelTask struct {
	frame Frame
	file  *os.File
	off   int64
	n     int64
	run   func()
	fut   *Future
	size  int
}

// eventChannel 在单个写入协程上串行执行所有写入与回调，该协程即通道的执行上下文。
//
// 帧按入队顺序编码并刷新到底层连接，完成情况通过 Future 在写入协程上通知。
type eventChannel struct {
	conn net.Conn
	zw   Writer
	opts ChannelOptions

	mu      sync.Mutex
	tasks   []*channelTask
	pending int  // 队列中未写完的负载字节数
	full    bool // 是否已越过高水位线
	closed  bool
	notify  chan struct{}
	done    chan struct{}
}

var _ Channel = (*eventChannel)(nil)

// NewEventChannel 基于 conn 创建事件通道并启动其写入协程。
func NewEventChannel(conn net.Conn, opts ChannelOptions) Channel {
	if opts.WriteQueueMaxSize <= 0 {
		opts.WriteQueueMaxSize = DefaultWriteQueueMaxSize
	}
	if opts.WriteQueueLowMark <= 0 {
		opts.WriteQueueLowMark = opts.WriteQueueMaxSize / 2
	}
	c := &eventChannel{
		conn:   conn,
		zw:     NewWriter(conn),
		opts:   opts,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go c.loop()
	return c
}

func (c *eventChannel) WriteFrame(f Frame) *Future {
	fut := NewFuture()
	c.enqueue(&channelTask{frame: f, fut: fut, size: f.Payload()})
	return fut
}

func (c *eventChannel) SendFileRange(file *os.File, offset, length int64) *Future {
	fut := NewFuture()
	size := int(length)
	if int64(size) != length {
		size = 0
	}
	if !c.enqueue(&channelTask{file: file, off: offset, n: length, fut: fut, size: size}) {
		file.Close()
	}
	return fut
}

// RunOnContext 在写入协程上执行 fn，与队列中的写入保持先后顺序。
// 若通道已关闭，则在新协程上执行。
func (c *eventChannel) RunOnContext(fn func()) {
	if !c.enqueue(&channelTask{run: fn}) {
		go fn()
	}
}

func (c *eventChannel) Executor() Executor {
	return c
}

// WriteQueueFull 与排空通知共用滞回判定：越过高水位线后保持为真，
// 直到占用回落至低水位线以下。
func (c *eventChannel) WriteQueueFull() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.full
}

func (c *eventChannel) SetWriteQueueMaxSize(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 {
		n = DefaultWriteQueueMaxSize
	}
	c.opts.WriteQueueMaxSize = n
	c.opts.WriteQueueLowMark = n / 2
}

// Close 请求关闭通道。队列中已有的任务先被写完，之后关闭底层连接。
func (c *eventChannel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	c.wake()
	return nil
}

func (c *eventChannel) enqueue(t *channelTask) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if t.fut != nil {
			t.fut.Complete(errs.ErrConnectionClosed)
		}
		return false
	}
	c.tasks = append(c.tasks, t)
	c.pending += t.size
	if c.pending >= c.opts.WriteQueueMaxSize {
		c.full = true
	}
	c.mu.Unlock()
	c.wake()
	return true
}

func (c *eventChannel) wake() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *eventChannel) loop() {
	defer close(c.done)
	for {
		c.mu.Lock()
		for len(c.tasks) == 0 && !c.closed {
			c.mu.Unlock()
			<-c.notify
			c.mu.Lock()
		}
		if len(c.tasks) == 0 {
			// 关闭请求且队列已排空
			c.mu.Unlock()
			c.teardown()
			return
		}
		t := c.tasks[0]
		c.tasks = c.tasks[1:]
		c.mu.Unlock()

		err := c.process(t)

		c.mu.Lock()
		c.pending -= t.size
		drained := c.full && c.pending <= c.opts.WriteQueueLowMark
		if drained {
			c.full = false
		}
		c.mu.Unlock()

		if t.fut != nil {
			t.fut.Complete(err)
		}
		if drained && c.opts.OnDrained != nil {
			c.opts.OnDrained()
		}
		if err != nil && t.run == nil {
			// 传输已不可用，放弃剩余队列
			hlog.Errorf("通道写入失败，连接即将关闭：%v", err)
			c.teardown()
			return
		}
	}
}

func (c *eventChannel) process(t *channelTask) error {
	if t.run != nil {
		t.run()
		return nil
	}
	if t.file != nil {
		defer t.file.Close()
		if err := c.zw.Flush(); err != nil {
			return err
		}
		return c.sendFile(t.file, t.off, t.n)
	}
	if err := t.frame.Encode(c.zw); err != nil {
		return err
	}
	return c.zw.Flush()
}

// 关闭底层连接，使剩余任务以 ErrConnectionClosed 失败，并派发 OnClosed。
func (c *eventChannel) teardown() {
	c.mu.Lock()
	c.closed = true
	rest := c.tasks
	c.tasks = nil
	c.pending = 0
	c.mu.Unlock()

	c.conn.Close()
	for _, t := range rest {
		if t.file != nil {
			t.file.Close()
		}
		if t.fut != nil {
			t.fut.Complete(errs.ErrConnectionClosed)
		}
	}
	if c.opts.OnClosed != nil {
		c.opts.OnClosed()
	}
}

// 回退路径：经用户态缓冲把文件段拷贝到连接。
func (c *eventChannel) copyFileRange(f *os.File, off, n int64) error {
	written, err := io.Copy(c.conn, io.NewSectionReader(f, off, n))
	if err == nil && written != n {
		err = io.ErrUnexpectedEOF
	}
	return err
}
