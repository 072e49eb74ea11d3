// Package bytesconv 提供字节切片与字符串之间的零拷贝转换及数字序列化工具。
package bytesconv

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/favbox/breeze/network"
)

const (
	lowerHex = "0123456789abcdef" // 小写的十六进制字符

	maxHexIntChars = 15
)

var hexIntBufPool sync.Pool

// 大小写转换查找表。非字母字节保持原样。
var (
	ToLowerTable [256]byte
	ToUpperTable [256]byte
)

func init() {
	for i := 0; i < 256; i++ {
		c := byte(i)
		ToLowerTable[i] = c
		ToUpperTable[i] = c
		if c >= 'A' && c <= 'Z' {
			ToLowerTable[i] = c + ('a' - 'A')
		}
		if c >= 'a' && c <= 'z' {
			ToUpperTable[i] = c - ('a' - 'A')
		}
	}
}

// B2s 将字节切片转为字符串，且不分配内存。
//
// 注意：如果字符串或切片的标头在未来的go版本中更改，该方法可能会出错。
func B2s(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// S2b 将字符串转为字节切片，且不分配内存。
//
// 注意：如果字符串或切片的标头在未来的go版本中更改，该方法可能会出错。
func S2b(s string) (b []byte) {
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh := (*reflect.StringHeader)(unsafe.Pointer(&s))
	bh.Data = sh.Data
	bh.Len = sh.Len
	bh.Cap = sh.Len
	return b
}

// AppendUint 向 dst 追加十进制整数 n 并返回。
func AppendUint(dst []byte, n uint64) []byte {
	var b [20]byte
	buf := b[:]
	i := len(buf)
	var q uint64
	for n >= 10 {
		i--
		q = n / 10
		buf[i] = '0' + byte(n-q*10)
		n = q
	}
	i--
	buf[i] = '0' + byte(n)

	dst = append(dst, buf[i:]...)
	return dst
}

// WriteHexInt 向 w 写入十六进制整数值 n。
func WriteHexInt(w network.Writer, n int) error {
	if n < 0 {
		panic("BUG: int 必须为正整数")
	}

	v := hexIntBufPool.Get()
	if v == nil {
		v = make([]byte, maxHexIntChars+1)
	}
	buf := v.([]byte)

	i := len(buf) - 1
	for {
		buf[i] = lowerHex[n&0xf]
		n >>= 4
		if n == 0 {
			break
		}
		i--
	}
	safeBuf, err := w.Malloc(maxHexIntChars + 1 - i)
	copy(safeBuf, buf[i:])
	hexIntBufPool.Put(v)
	return err
}
