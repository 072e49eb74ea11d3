// Package bytestr 定义线上协议常用的字节串常量。
package bytestr

var (
	StrCRLF       = []byte("\r\n")
	StrCommaSpace = []byte(", ")
	StrColonSpace = []byte(": ")

	StrHTTP10 = []byte("HTTP/1.0")
	StrHTTP11 = []byte("HTTP/1.1")

	StrClose     = []byte("close")
	StrKeepAlive = []byte("keep-alive")
	StrChunked   = []byte("chunked")

	StrConnection         = []byte("Connection")
	StrContentLength      = []byte("Content-Length")
	StrContentType        = []byte("Content-Type")
	StrContentEncoding    = []byte("Content-Encoding")
	StrContentRange       = []byte("Content-Range")
	StrTransferEncoding   = []byte("Transfer-Encoding")
	StrTrailer            = []byte("Trailer")
	StrAuthorization      = []byte("Authorization")
	StrExpect             = []byte("Expect")
	StrHost               = []byte("Host")
	StrMaxForwards        = []byte("Max-Forwards")
	StrProxyConnection    = []byte("Proxy-Connection")
	StrProxyAuthenticate  = []byte("Proxy-Authenticate")
	StrProxyAuthorization = []byte("Proxy-Authorization")
	StrRange              = []byte("Range")
	StrTE                 = []byte("TE")
	StrWWWAuthenticate    = []byte("WWW-Authenticate")

	Str100Continue = []byte(" 100 Continue\r\n\r\n")
)
