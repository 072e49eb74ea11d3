package protocol

import (
	"github.com/favbox/breeze/internal/bytestr"
	"github.com/favbox/breeze/internal/nocopy"
)

// Headers 是响应标头的有序容器。
//
// 键名在写入时被规范化，因此查找与删除均不区分大小写；序列化保留插入顺序。
// Set 会替换同名键的全部旧值。容器本身不校验值的合法性，也不感知冻结状态，
// 冻结由响应状态机单向强制。
type Headers struct {
	noCopy nocopy.NoCopy

	h     []argsKV
	bufKV argsKV

	contentLengthSet bool
	contentTypeSet   bool

	disableNormalizing bool
}

// Set 设置指定键的值，替换所有旧值。
func (h *Headers) Set(key, value string) {
	initHeaderKV(&h.bufKV, key, value, h.disableNormalizing)
	h.SetCanonical(h.bufKV.key, h.bufKV.value)
}

// SetValues 设置指定键的一组值，替换所有旧值。
func (h *Headers) SetValues(key string, values []string) {
	k := getHeaderKeyBytes(&h.bufKV, key, h.disableNormalizing)
	h.h = delAllArgsBytes(h.h, k)
	h.markDel(k)
	for _, v := range values {
		h.h = appendArgBytes(h.h, k, []byte(v), argsHasValue)
		h.markSet(k)
	}
}

// SetCanonical 设置已规范化的键值对，替换所有旧值。
func (h *Headers) SetCanonical(key, value []byte) {
	h.h = setAllArgBytes(h.h, key, value, argsHasValue)
	h.markSet(key)
}

// Get 返回指定键的值。
func (h *Headers) Get(key string) string {
	return string(h.Peek(key))
}

// Peek 返回指定键的值。别存值引用，改用副本。
func (h *Headers) Peek(key string) []byte {
	k := getHeaderKeyBytes(&h.bufKV, key, h.disableNormalizing)
	return peekArgBytes(h.h, k)
}

// GetAll 返回指定键的全部值。
func (h *Headers) GetAll(key string) []string {
	k := getHeaderKeyBytes(&h.bufKV, key, h.disableNormalizing)
	var vs [][]byte
	vs = peekAllArgBytesToDst(vs, h.h, k)
	res := make([]string, 0, len(vs))
	for _, v := range vs {
		res = append(res, string(v))
	}
	return res
}

// Contains 判断指定键是否存在。
func (h *Headers) Contains(key string) bool {
	k := getHeaderKeyBytes(&h.bufKV, key, h.disableNormalizing)
	return hasArgBytes(h.h, k)
}

// Del 删除所有指定键。
func (h *Headers) Del(key string) {
	k := getHeaderKeyBytes(&h.bufKV, key, h.disableNormalizing)
	h.h = delAllArgsBytes(h.h, k)
	h.markDel(k)
}

// VisitAll 在每个标头键值对上应用函数 f。
func (h *Headers) VisitAll(f func(key, value []byte)) {
	visitArgs(h.h, f)
}

// Len 返回标头行数。
func (h *Headers) Len() int {
	return len(h.h)
}

// ContentLengthSet 快速判断 Content-Length 标头是否已被显式设置。
func (h *Headers) ContentLengthSet() bool {
	return h.contentLengthSet
}

// ContentTypeSet 快速判断 Content-Type 标头是否已被显式设置。
func (h *Headers) ContentTypeSet() bool {
	return h.contentTypeSet
}

// Reset 清空标头。
func (h *Headers) Reset() {
	h.h = h.h[:0]
	h.contentLengthSet = false
	h.contentTypeSet = false
	h.disableNormalizing = false
}

// DisableNormalizing 禁用键名称的规范化。
func (h *Headers) DisableNormalizing() {
	h.disableNormalizing = true
}

// CopyTo 复制标头到目标。
func (h *Headers) CopyTo(dst *Headers) {
	dst.Reset()
	dst.disableNormalizing = h.disableNormalizing
	dst.contentLengthSet = h.contentLengthSet
	dst.contentTypeSet = h.contentTypeSet
	dst.h = copyArgs(dst.h, h.h)
}

// AppendBytes 按行附加全部标头到 dst 并返回。不含结尾空行。
func (h *Headers) AppendBytes(dst []byte) []byte {
	for i, n := 0, len(h.h); i < n; i++ {
		kv := &h.h[i]
		dst = appendHeaderLine(dst, kv.key, kv.value)
	}
	return dst
}

func (h *Headers) markSet(key []byte) {
	if string(key) == string(bytestr.StrContentLength) {
		h.contentLengthSet = true
	} else if string(key) == string(bytestr.StrContentType) {
		h.contentTypeSet = true
	}
}

func (h *Headers) markDel(key []byte) {
	if string(key) == string(bytestr.StrContentLength) {
		h.contentLengthSet = false
	} else if string(key) == string(bytestr.StrContentType) {
		h.contentTypeSet = false
	}
}
