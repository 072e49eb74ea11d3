package network

import "os"

// Writer 用于缓冲写入。
type Writer interface {
	// Malloc 分配一块 n 字节的内存缓冲区来暂存数据。
	Malloc(n int) (buf []byte, err error)

	// WriteBinary 向用户缓冲区写入字节切片。注意：在成功刷新之前，b 应有效。
	WriteBinary(b []byte) (n int, err error)

	// Flush 向对端发送数据。
	Flush() error
}

// Frame 表示响应的一个传输单元，可被编码为 HTTP/1.x 的线上字节。
//
// 帧由响应端组装，按入队顺序编码并写入底层连接。
type Frame interface {
	// Payload 返回该帧承载的正文负载字节数，不含状态行、标头及分块封装开销。
	Payload() int

	// Encode 将帧编码进写入器。编码不负责刷新。
	Encode(w Writer) error
}

// Executor 是连接的串行执行上下文。同一通道的所有事件回调都在其上派发，
// 彼此之间不会并发。
type Executor interface {
	RunOnContext(fn func())
}

// Channel 是响应引擎与传输层之间的边界。
//
// 写入都是异步的：帧先进入通道的写入队列，完成情况通过返回的 Future 通知。
// 通道保证同一响应的帧按入队顺序写到线上。
type Channel interface {
	// WriteFrame 将帧放入写入队列。若通道已关闭，返回的 Future 立即以
	// ErrConnectionClosed 失败。
	WriteFrame(f Frame) *Future

	// SendFileRange 将文件的 [offset, offset+length) 字节段直接交给传输层发送。
	// 无论成败，通道在传输结束后负责关闭 file。
	SendFileRange(file *os.File, offset, length int64) *Future

	// WriteQueueFull 报告写入队列占用是否已达高水位线。
	WriteQueueFull() bool

	// SetWriteQueueMaxSize 设置写入队列的高水位线（字节）。
	SetWriteQueueMaxSize(n int)

	// Close 关闭底层连接。队列中未完成的写入将以 ErrConnectionClosed 失败。
	// 多次调用为空操作。
	Close() error

	// Executor 返回通道的执行上下文。
	Executor() Executor
}
