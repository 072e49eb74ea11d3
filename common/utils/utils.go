// Package utils 提供标头规范化与零分配拷贝等通用工具。
package utils

import (
	"github.com/favbox/breeze/internal/bytesconv"
)

// CaseInsensitiveCompare 不分大小写的快速比较两个字节切片。
func CaseInsensitiveCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	for i, n := 0, len(a); i < n; i++ {
		if a[i]|0x20 != b[i]|0x20 {
			return false
		}
	}
	return true
}

// NormalizeHeaderKey 规范标头键：将首字母及破折号后首字母转大写，其他转小写。
func NormalizeHeaderKey(b []byte, disableNormalizing bool) {
	if disableNormalizing {
		return
	}

	n := len(b)
	if n == 0 {
		return
	}

	// 首字母转大写
	b[0] = bytesconv.ToUpperTable[b[0]]

	// - 后面的字母转大写，其他字母转小写
	for i := 1; i < n; i++ {
		p := &b[i]
		if *p == '-' {
			i++
			if i < n {
				b[i] = bytesconv.ToUpperTable[b[i]]
			}
			continue
		}
		*p = bytesconv.ToLowerTable[*p]
	}
}

// TokenListContains 判断英文逗号分隔的标记列表 v 中是否含有标记 token，不分大小写。
//
// 用于检查请求 Connection 标头中的 close 或 keep-alive 意图。
func TokenListContains(v, token []byte) bool {
	for len(v) > 0 {
		i := 0
		for i < len(v) && v[i] != ',' {
			i++
		}
		item := v[:i]
		if i < len(v) {
			v = v[i+1:]
		} else {
			v = nil
		}
		for len(item) > 0 && item[0] == ' ' {
			item = item[1:]
		}
		for len(item) > 0 && item[len(item)-1] == ' ' {
			item = item[:len(item)-1]
		}
		if CaseInsensitiveCompare(item, token) {
			return true
		}
	}
	return false
}
