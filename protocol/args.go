// Package protocol 提供响应标头与挂车标头的有序容器。
package protocol

import (
	"bytes"

	"github.com/favbox/breeze/common/utils"
	"github.com/favbox/breeze/internal/bytestr"
)

const (
	argsNoValue  = true
	argsHasValue = false
)

var nilByteSlice = []byte{}

// 保留插入顺序的键值对。
type argsKV struct {
	key     []byte
	value   []byte
	noValue bool
}

func visitArgs(args []argsKV, f func(key, value []byte)) {
	for i, n := 0, len(args); i < n; i++ {
		kv := &args[i]
		f(kv.key, kv.value)
	}
}

// 获取参数切片中指定键的值。
func peekArgBytes(args []argsKV, key []byte) []byte {
	for i, n := 0, len(args); i < n; i++ {
		kv := &args[i]
		if bytes.Equal(kv.key, key) {
			if kv.value != nil {
				return kv.value
			}
			return nilByteSlice
		}
	}
	return nil
}

func peekAllArgBytesToDst(dst [][]byte, h []argsKV, k []byte) [][]byte {
	for i, n := 0, len(h); i < n; i++ {
		kv := &h[i]
		if bytes.Equal(kv.key, k) {
			dst = append(dst, kv.value)
		}
	}
	return dst
}

func hasArgBytes(args []argsKV, key []byte) bool {
	for i, n := 0, len(args); i < n; i++ {
		kv := &args[i]
		if bytes.Equal(kv.key, key) {
			return true
		}
	}
	return false
}

// 删除切片中所有与指定键相同的参数。
func delAllArgsBytes(args []argsKV, key []byte) []argsKV {
	for i, n := 0, len(args); i < n; i++ {
		kv := &args[i]
		if bytes.Equal(kv.key, key) {
			tmp := *kv
			copy(args[i:], args[i+1:])
			n--
			i--
			args[n] = tmp
			args = args[:n]
		}
	}
	return args
}

func copyArgs(dst, src []argsKV) []argsKV {
	if cap(dst) < len(src) {
		tmp := make([]argsKV, len(src))
		copy(tmp, dst)
		dst = tmp
	}
	n := len(src)
	dst = dst[:n]
	for i := 0; i < n; i++ {
		dstKV := &dst[i]
		srcKV := &src[i]
		dstKV.key = append(dstKV.key[:0], srcKV.key...)
		if srcKV.noValue {
			dstKV.value = dstKV.value[:0]
		} else {
			dstKV.value = append(dstKV.value[:0], srcKV.value...)
		}
		dstKV.noValue = srcKV.noValue
	}
	return dst
}

// 更新或追加参数切片 args 中指定 key 的 value。
func setArgBytes(args []argsKV, key, value []byte, noValue bool) []argsKV {
	n := len(args)
	for i := 0; i < n; i++ {
		kv := &args[i]
		if bytes.Equal(key, kv.key) {
			if noValue {
				kv.value = kv.value[:0]
			} else {
				kv.value = append(kv.value[:0], value...)
			}
			kv.noValue = noValue
			return args
		}
	}
	return appendArgBytes(args, key, value, noValue)
}

// 替换首个匹配的参数值并删除其余同键参数；无匹配时追加。
func setAllArgBytes(args []argsKV, key, value []byte, noValue bool) []argsKV {
	found := false
	for i, n := 0, len(args); i < n; i++ {
		kv := &args[i]
		if !bytes.Equal(key, kv.key) {
			continue
		}
		if !found {
			found = true
			if noValue {
				kv.value = kv.value[:0]
			} else {
				kv.value = append(kv.value[:0], value...)
			}
			kv.noValue = noValue
			continue
		}
		tmp := *kv
		copy(args[i:], args[i+1:])
		n--
		i--
		args[n] = tmp
		args = args[:n]
	}
	if !found {
		return appendArgBytes(args, key, value, noValue)
	}
	return args
}

// 附加一对字节切片形式的标头。
func appendArgBytes(args []argsKV, key, value []byte, noValue bool) []argsKV {
	var kv *argsKV
	args, kv = allocArg(args)
	kv.key = append(kv.key[:0], key...)
	if noValue {
		kv.value = kv.value[:0]
	} else {
		kv.value = append(kv.value[:0], value...)
	}
	kv.noValue = noValue
	return args
}

func allocArg(h []argsKV) ([]argsKV, *argsKV) {
	n := len(h)
	if cap(h) > n {
		h = h[:n+1]
	} else {
		h = append(h, argsKV{})
	}
	return h, &h[n]
}

// 初始化 kv 为规范化后的标头键值对。
func initHeaderKV(kv *argsKV, key, value string, disableNormalizing bool) {
	kv.key = append(kv.key[:0], key...)
	utils.NormalizeHeaderKey(kv.key, disableNormalizing)
	kv.value = append(kv.value[:0], value...)
}

// 返回规范化后的标头键字节。
func getHeaderKeyBytes(kv *argsKV, key string, disableNormalizing bool) []byte {
	kv.key = append(kv.key[:0], key...)
	utils.NormalizeHeaderKey(kv.key, disableNormalizing)
	return kv.key
}

// 按 "Key: value\r\n" 追加一行标头。
func appendHeaderLine(dst, key, value []byte) []byte {
	dst = append(dst, key...)
	dst = append(dst, bytestr.StrColonSpace...)
	dst = append(dst, value...)
	return append(dst, bytestr.StrCRLF...)
}
