package network

import (
	"io"

	"github.com/bytedance/gopkg/lang/mcache"
)

// 缓冲块的最小容量。
const minBlockSize = 4 * 1024

// networkWriter 将帧编码期间的零散写入聚合进 mcache 分配的缓冲块，
// Flush 时按序落盘并归还内存。
//
// 块一经分配不再搬移，Malloc 返回的切片在下一次 Flush 之前始终有效，
// 后续写入不会使其失效。所有写入均为拷贝，调用方的切片交还后即可复用。
type networkWriter struct {
	w      io.Writer
	blocks [][]byte // 已分配的缓冲块，len 即各块已写入的字节数
}

// 在尾块中划出 n 字节，余量不足时开新块。
func (w *networkWriter) grow(n int) []byte {
	if k := len(w.blocks); k > 0 {
		b := w.blocks[k-1]
		if cap(b)-len(b) >= n {
			w.blocks[k-1] = b[:len(b)+n]
			return w.blocks[k-1][len(b):]
		}
	}
	size := n
	if size < minBlockSize {
		size = minBlockSize
	}
	b := mcache.Malloc(n, size)
	w.blocks = append(w.blocks, b)
	return b
}

// Malloc 分配一块 n 字节的缓冲区，调用方在 Flush 之前填充。
func (w *networkWriter) Malloc(n int) (buf []byte, err error) {
	return w.grow(n), nil
}

// WriteBinary 将 b 拷贝进缓冲。超过块余量的大切片独占一个新块。
func (w *networkWriter) WriteBinary(b []byte) (n int, err error) {
	n = len(b)
	if n == 0 {
		return 0, nil
	}
	copy(w.grow(n), b)
	return n, nil
}

// Flush 将全部缓冲块按序写入底层数据流，无论成败都归还内存。
func (w *networkWriter) Flush() (err error) {
	for i, b := range w.blocks {
		if err == nil && len(b) > 0 {
			_, err = w.w.Write(b)
		}
		mcache.Free(b)
		w.blocks[i] = nil
	}
	w.blocks = w.blocks[:0]
	return err
}

// NewWriter 将 io.Writer 转为缓冲写入器。
func NewWriter(w io.Writer) Writer {
	return &networkWriter{w: w}
}
