//go:build linux

package network

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// 单次 sendfile 的最大字节数，避免一次占用过长的内核时间。
const maxSendfileSize = 4 << 20

// sendFile 优先走内核 sendfile 零拷贝路径。
// 仅当底层连接暴露原始文件描述符时可用，否则回退到用户态拷贝。
func (c *eventChannel) sendFile(f *os.File, off, n int64) error {
	sc, ok := c.conn.(syscall.Conn)
	if !ok {
		return c.copyFileRange(f, off, n)
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return c.copyFileRange(f, off, n)
	}

	src := int(f.Fd())
	remain := n
	var opErr error
	err = raw.Write(func(fd uintptr) (done bool) {
		for remain > 0 {
			m := maxSendfileSize
			if int64(m) > remain {
				m = int(remain)
			}
			var sent int
			sent, opErr = unix.Sendfile(int(fd), src, &off, m)
			if sent > 0 {
				remain -= int64(sent)
			}
			if opErr == unix.EAGAIN {
				return false
			}
			if opErr != nil {
				return true
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	return opErr
}
