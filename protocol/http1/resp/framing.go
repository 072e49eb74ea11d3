package resp

import (
	"github.com/favbox/breeze/internal/bytestr"
	"github.com/favbox/breeze/protocol/consts"
)

// FramingMode 表示响应正文边界的界定方式。
type FramingMode int

const (
	// FramingNone 既无 Content-Length 也无分块。仅 HTTP/1.0 以连接关闭界定正文时合法。
	FramingNone FramingMode = iota
	// FramingChunked 分块传输编码。
	FramingChunked
	// FramingFixed 定长正文。
	FramingFixed
)

// BodyLength 表示可能未知的正文长度。显式的可选类型，不使用 -1 哨兵值。
type BodyLength struct {
	Known bool
	N     uint64
}

// KnownLength 构造已知长度。零长度也是已知长度。
func KnownLength(n uint64) BodyLength {
	return BodyLength{Known: true, N: n}
}

// UnknownLength 表示长度未知。
var UnknownLength = BodyLength{}

// Framing 是成帧策略的决策结果：需要补充的 Connection 标头值，
// 是否声明分块传输，以及需要发出的 Content-Length。
//
// 决策在首批正文字节（或空的正文结束信号）交给传输层的那一刻做出，
// 且只做一次；此后标头被冻结。
type Framing struct {
	// Connection 为 nil 表示不发 Connection 标头。
	Connection []byte
	// Chunked 为真表示发出 Transfer-Encoding: chunked。
	Chunked bool
	// ContentLength 为已知时发出 Content-Length 标头。
	ContentLength BodyLength
}

// Mode 返回该决策的有效成帧方式。
func (f Framing) Mode() FramingMode {
	if f.Chunked {
		return FramingChunked
	}
	if f.ContentLength.Known {
		return FramingFixed
	}
	return FramingNone
}

// DecideFraming 是成帧策略的纯函数实现。
//
// 规则按顺序：
//  1. HTTP/1.0 且保活：发 Connection: keep-alive（1.0 默认不保活）。
//  2. HTTP/1.1 且不保活：发 Connection: close（1.1 默认保活）。
//  3. HEAD 请求：不发成帧标头，也无正文。
//  4. 否则若已声明分块：分块传输，优先于任何长度。
//  5. 否则若调用方未显式设置 Content-Length 且长度已知（含零）：发 Content-Length。
//  6. 否则不发任何成帧标头，正文以连接关闭界定。
func DecideFraming(version consts.Version, keepAlive, head, chunked bool, length BodyLength, contentLengthSet bool) Framing {
	var f Framing
	if version == consts.HTTP10 && keepAlive {
		f.Connection = bytestr.StrKeepAlive
	} else if version == consts.HTTP11 && !keepAlive {
		f.Connection = bytestr.StrClose
	}
	if head {
		return f
	}
	if chunked {
		f.Chunked = true
		return f
	}
	if !contentLengthSet && length.Known {
		f.ContentLength = length
	}
	return f
}
