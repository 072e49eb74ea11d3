// Package consts 定义 HTTP 协议常量。
package consts

// Version 表示 HTTP/1.x 协议版本，在响应构造时由请求确定，之后不可变。
type Version int

const (
	// HTTP10 即 HTTP/1.0：默认短连接，允许以连接关闭界定正文结束。
	HTTP10 Version = iota
	// HTTP11 即 HTTP/1.1：默认长连接，未知长度的正文必须分块传输。
	HTTP11
)

func (v Version) String() string {
	if v == HTTP10 {
		return "HTTP/1.0"
	}
	return "HTTP/1.1"
}

// 标头名称。
const (
	HeaderConnection       = "Connection"
	HeaderContentLength    = "Content-Length"
	HeaderContentType      = "Content-Type"
	HeaderTransferEncoding = "Transfer-Encoding"
	HeaderTrailer          = "Trailer"

	HeaderProxyConnection = "Proxy-Connection"
)
