package utils

import (
	"io"

	"github.com/favbox/breeze/network"
)

// CopyZeroAlloc 零分配拷贝。
func CopyZeroAlloc(w network.Writer, r io.Reader) (int64, error) {
	vBuf := CopyBufPool.Get()
	buf := vBuf.([]byte)
	n, err := copyBuffer(w, r, buf)
	CopyBufPool.Put(vBuf)
	return n, err
}

// 利用 buf 将 src 缓冲式写入 dst。
//
// 每轮读取后立即刷新：写入器可能零拷贝挂载 buf，复用前必须先落盘。
func copyBuffer(dst network.Writer, src io.Reader, buf []byte) (written int64, err error) {
	for {
		nr, er := src.Read(buf)
		if nr > 0 {
			nw, ew := dst.WriteBinary(buf[:nr])
			if nw > 0 {
				written += int64(nw)
			}
			if ew != nil {
				err = ew
				break
			}
			if nr != nw {
				err = io.ErrShortWrite
				break
			}
			if err = dst.Flush(); err != nil {
				break
			}
		}
		if er != nil {
			if er != io.EOF {
				err = er
			}
			break
		}
	}
	return written, err
}
