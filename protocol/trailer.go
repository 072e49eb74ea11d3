package protocol

import (
	errs "github.com/favbox/breeze/common/errors"
	"github.com/favbox/breeze/common/utils"
	"github.com/favbox/breeze/internal/bytestr"
)

// Trailer 是挂在分块正文终止块之后的标头挂车。
//
// 仅在分块传输下有意义。成帧相关的键（Content-Length、Transfer-Encoding 等）
// 禁止作为挂车发送。
type Trailer struct {
	h                  []argsKV
	bufKV              argsKV
	disableNormalizing bool
}

// Get 返回指定键的值。
func (t *Trailer) Get(key string) string {
	return string(t.Peek(key))
}

// Peek 返回指定键的值。别存值引用，改用副本。
func (t *Trailer) Peek(key string) []byte {
	k := getHeaderKeyBytes(&t.bufKV, key, t.disableNormalizing)
	return peekArgBytes(t.h, k)
}

// Del 删除所有指定键。
func (t *Trailer) Del(key string) {
	k := getHeaderKeyBytes(&t.bufKV, key, t.disableNormalizing)
	t.h = delAllArgsBytes(t.h, k)
}

// VisitAll 在每个挂车键值对上应用函数 f。
func (t *Trailer) VisitAll(f func(key, value []byte)) {
	visitArgs(t.h, f)
}

// Set 设置指定的键值对，替换所有旧值。
func (t *Trailer) Set(key, value string) error {
	initHeaderKV(&t.bufKV, key, value, t.disableNormalizing)
	return t.setArgBytes(t.bufKV.key, t.bufKV.value, argsHasValue)
}

// Add 添加指定键的值。支持单键多值，如需单键单值可使用 Set。
func (t *Trailer) Add(key, value string) error {
	initHeaderKV(&t.bufKV, key, value, t.disableNormalizing)
	return t.addArgBytes(t.bufKV.key, t.bufKV.value, argsHasValue)
}

// Empty 判断挂车是否为空。
func (t *Trailer) Empty() bool {
	return len(t.h) == 0
}

// GetBytes 返回英文逗号分隔的挂车键名称字节切片，用于响应头中的 Trailer 声明行。
func (t *Trailer) GetBytes() []byte {
	var dst []byte
	for i, n := 0, len(t.h); i < n; i++ {
		kv := &t.h[i]
		dst = append(dst, kv.key...)
		if i+1 < n {
			dst = append(dst, bytestr.StrCommaSpace...)
		}
	}
	return dst
}

// Reset 重置挂车。
func (t *Trailer) Reset() {
	t.disableNormalizing = false
	t.h = t.h[:0]
}

// DisableNormalizing 禁用键名称的规范化。
func (t *Trailer) DisableNormalizing() {
	t.disableNormalizing = true
}

// Header 返回挂车的分行字节切片，含结尾空行。
func (t *Trailer) Header() []byte {
	t.bufKV.value = t.AppendBytes(t.bufKV.value[:0])
	return t.bufKV.value
}

// AppendBytes 按行附加到 dst 并返回。
func (t *Trailer) AppendBytes(dst []byte) []byte {
	for i, n := 0, len(t.h); i < n; i++ {
		kv := &t.h[i]
		dst = appendHeaderLine(dst, kv.key, kv.value)
	}

	dst = append(dst, bytestr.StrCRLF...)
	return dst
}

func (t *Trailer) addArgBytes(key, value []byte, noValue bool) error {
	if IsBadTrailer(key) {
		return errs.NewPublicf("禁止使用的挂车键: %q", key)
	}
	t.h = appendArgBytes(t.h, key, value, noValue)
	return nil
}

func (t *Trailer) setArgBytes(key, value []byte, noValue bool) error {
	if IsBadTrailer(key) {
		return errs.NewPublicf("禁止使用的挂车键: %q", key)
	}
	t.h = setAllArgBytes(t.h, key, value, noValue)
	return nil
}

// 禁止作为挂车发送的标头键。
var badTrailerKeys = [][]byte{
	bytestr.StrAuthorization,
	bytestr.StrConnection,
	bytestr.StrContentEncoding,
	bytestr.StrContentLength,
	bytestr.StrContentRange,
	bytestr.StrContentType,
	bytestr.StrExpect,
	bytestr.StrHost,
	bytestr.StrKeepAlive,
	bytestr.StrMaxForwards,
	bytestr.StrProxyAuthenticate,
	bytestr.StrProxyAuthorization,
	bytestr.StrProxyConnection,
	bytestr.StrRange,
	bytestr.StrTE,
	bytestr.StrTrailer,
	bytestr.StrTransferEncoding,
	bytestr.StrWWWAuthenticate,
}

// IsBadTrailer 判断指定的 key 是否为禁用的挂车键名称。
func IsBadTrailer(key []byte) bool {
	if len(key) == 0 {
		return true
	}
	for _, bad := range badTrailerKeys {
		if utils.CaseInsensitiveCompare(key, bad) {
			return true
		}
	}
	return false
}
