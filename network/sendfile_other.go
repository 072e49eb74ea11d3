//go:build !linux

package network

import "os"

// 非 Linux 平台统一走用户态拷贝。
func (c *eventChannel) sendFile(f *os.File, off, n int64) error {
	return c.copyFileRange(f, off, n)
}
