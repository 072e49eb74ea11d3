// Package resp 实现 HTTP/1.x 响应侧协议引擎：状态行与标头的序列化、
// 定长与分块的成帧决策、背压观测、生命周期回调以及连接收尾。
package resp

import (
	"sync"

	errs "github.com/favbox/breeze/common/errors"
	"github.com/favbox/breeze/common/utils"
	"github.com/favbox/breeze/internal/bytesconv"
	"github.com/favbox/breeze/internal/bytestr"
	"github.com/favbox/breeze/network"
	"github.com/favbox/breeze/protocol"
	"github.com/favbox/breeze/protocol/consts"
)

// Response 是单个 HTTP/1.x 响应的状态机。
//
// 响应与其所在连接共享同一把锁，所有公开方法都先取锁再改状态；
// 处理器回调一律在锁外派发，回调内可安全地再次调用响应方法。
//
// 状态单向推进：标头一经写出即冻结，End 之后写入报错，Close 之后
// 除查询外的操作报错。
type Response struct {
	conn network.Channel
	mu   *sync.Mutex

	version   consts.Version
	keepAlive bool
	head      bool

	statusCode    int
	statusMessage string
	headers       protocol.Headers
	trailer       *protocol.Trailer

	chunked      bool
	headWritten  bool
	written      bool
	closed       bool
	closeHandled bool

	bytesWritten uint64

	drainHandler      func()
	exceptionHandler  func(error)
	closeHandler      func()
	endHandler        func()
	headersEndHandler func()
	bodyEndHandler    func()
}

// NewResponse 按请求属性构造响应。
//
// 保活意图由协议版本与请求的 Connection 标头共同决定：
// HTTP/1.1 默认保活，除非请求声明 close；HTTP/1.0 默认不保活，
// 除非请求声明 keep-alive。isHead 标记 HEAD 请求，正文将被抑制。
func NewResponse(conn network.Channel, mu *sync.Mutex, version consts.Version, reqConnection []byte, isHead bool) *Response {
	keepAlive := false
	if version == consts.HTTP11 {
		keepAlive = !utils.TokenListContains(reqConnection, bytestr.StrClose)
	} else {
		keepAlive = utils.TokenListContains(reqConnection, bytestr.StrKeepAlive)
	}
	return &Response{
		conn:       conn,
		mu:         mu,
		version:    version,
		keepAlive:  keepAlive,
		head:       isHead,
		statusCode: consts.StatusOK,
	}
}

// 检查响应是否仍可变更。须在持锁状态下调用。
func (r *Response) checkValid() error {
	if r.written {
		return errs.New(errs.ErrResponseEnded, errs.ErrorTypeUsage, nil)
	}
	if r.closed {
		return errs.New(errs.ErrResponseClosed, errs.ErrorTypeUsage, nil)
	}
	return nil
}

// 检查响应头是否尚未写出。须在持锁状态下调用。
func (r *Response) checkOpen() error {
	if err := r.checkValid(); err != nil {
		return err
	}
	if r.headWritten {
		return errs.New(errs.ErrHeadAlreadyWritten, errs.ErrorTypeUsage, nil)
	}
	return nil
}

// SetStatusCode 设置响应状态码。标头写出后不可再改。
func (r *Response) SetStatusCode(code int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen(); err != nil {
		return err
	}
	r.statusCode = code
	return nil
}

// StatusCode 返回当前状态码。
func (r *Response) StatusCode() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusCode
}

// SetStatusMessage 覆盖状态行的原因短语。空值回退为状态码的标准短语。
func (r *Response) SetStatusMessage(msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen(); err != nil {
		return err
	}
	r.statusMessage = msg
	return nil
}

// SetChunked 声明或取消分块传输。
//
// HTTP/1.0 不支持分块，声明被静默忽略，正文改以连接关闭界定。
func (r *Response) SetChunked(chunked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen(); err != nil {
		return err
	}
	if r.version == consts.HTTP10 {
		return nil
	}
	r.chunked = chunked
	return nil
}

// IsChunked 报告响应是否声明了分块传输。
func (r *Response) IsChunked() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chunked
}

// PutHeader 设置响应标头，替换同名键的全部旧值。
func (r *Response) PutHeader(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen(); err != nil {
		return err
	}
	r.headers.Set(key, value)
	return nil
}

// PutHeaderValues 设置响应标头的一组值，替换同名键的全部旧值。
func (r *Response) PutHeaderValues(key string, values []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen(); err != nil {
		return err
	}
	r.headers.SetValues(key, values)
	return nil
}

// Headers 返回标头容器。标头写出后对容器的修改不再生效于线上。
func (r *Response) Headers() *protocol.Headers {
	return &r.headers
}

// PutTrailer 设置挂车键值对。禁用键返回错误。
func (r *Response) PutTrailer(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkValid(); err != nil {
		return err
	}
	if r.trailer == nil {
		r.trailer = &protocol.Trailer{}
	}
	return r.trailer.Set(key, value)
}

// Trailer 返回挂车容器，按需创建。
func (r *Response) Trailer() *protocol.Trailer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.trailer == nil {
		r.trailer = &protocol.Trailer{}
	}
	return r.trailer
}

// Write 写入一段正文。
//
// 首次写入时冻结标头并做成帧决策。HTTP/1.1 下既未声明分块也未设置
// Content-Length 时返回成帧错误；HTTP/1.0 允许以连接关闭界定正文。
// 写入是异步的，传输失败经由异常处理器报告。
func (r *Response) Write(p []byte) error {
	r.mu.Lock()
	if err := r.checkValid(); err != nil {
		r.mu.Unlock()
		return err
	}
	if !r.headWritten && !r.chunked && !r.headers.ContentLengthSet() && r.version != consts.HTTP10 {
		r.mu.Unlock()
		return errs.New(errs.ErrBodyLengthUnknown, errs.ErrorTypeFraming, nil)
	}

	var after []func()
	var fut *network.Future
	if !r.headWritten {
		onHeadersEnd := r.prepareHeaders(UnknownLength)
		if onHeadersEnd != nil {
			after = append(after, onHeadersEnd)
		}
		fut = r.conn.WriteFrame(&headFrame{
			head:     r.headBytes(),
			body:     p,
			chunked:  r.chunked,
			skipBody: r.head,
		})
	} else {
		fut = r.conn.WriteFrame(&contentFrame{
			body:     p,
			chunked:  r.chunked,
			skipBody: r.head,
		})
	}
	if !r.head {
		r.bytesWritten += uint64(len(p))
	}
	r.mu.Unlock()

	for _, fn := range after {
		fn()
	}
	r.watch(fut)
	return nil
}

// End 结束响应，可附带最后一段正文。
//
// 标头尚未写出时走单趟路径：正文长度此刻已知，未声明分块则自动补
// Content-Length。不保活的响应在全部字节落地后关闭连接。
func (r *Response) End(body []byte) error {
	r.mu.Lock()
	if err := r.checkValid(); err != nil {
		r.mu.Unlock()
		return err
	}
	after, fut := r.end0(body)
	r.mu.Unlock()

	for _, fn := range after {
		fn()
	}
	if fut != nil {
		r.watch(fut)
	}
	return nil
}

// 须在持锁状态下调用。返回锁外待执行的回调与待观测的写入结果。
func (r *Response) end0(body []byte) (after []func(), fut *network.Future) {
	trailer := r.trailer
	if trailer != nil && trailer.Empty() {
		trailer = nil
	}

	if !r.headWritten {
		if !r.head {
			r.bytesWritten += uint64(len(body))
		}
		onHeadersEnd := r.prepareHeaders(KnownLength(r.bytesWritten))
		if onHeadersEnd != nil {
			after = append(after, onHeadersEnd)
		}
		fut = r.conn.WriteFrame(&fullFrame{
			head:     r.headBytes(),
			body:     body,
			chunked:  r.chunked,
			skipBody: r.head,
			trailer:  trailer,
		})
	} else {
		if !r.head {
			r.bytesWritten += uint64(len(body))
		}
		fut = r.conn.WriteFrame(&lastContentFrame{
			body:     body,
			chunked:  r.chunked,
			skipBody: r.head,
			trailer:  trailer,
		})
	}

	r.written = true
	if h := r.bodyEndHandler; h != nil {
		after = append(after, h)
	}
	if h := r.endHandler; h != nil {
		after = append(after, h)
	}
	if !r.keepAlive {
		after = append(after, r.closeConnAfterWrite(fut))
		r.closed = true
	}
	return after, fut
}

// Close 提前关闭连接，不完成响应。
//
// 标头已写出时先等已入队的帧落地再关闭，否则立即关闭。多次调用为空操作。
func (r *Response) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	var after func()
	if r.headWritten {
		fut := r.conn.WriteFrame(&barrierFrame{})
		after = func() {
			fut.OnComplete(func(error) {
				r.conn.Close() //nolint:errcheck
			})
		}
	} else {
		conn := r.conn
		after = func() {
			conn.Close() //nolint:errcheck
		}
	}
	r.mu.Unlock()

	after()
	return nil
}

// 返回在锁外注册写后关闭的闭包。须在持锁状态下调用。
func (r *Response) closeConnAfterWrite(fut *network.Future) func() {
	conn := r.conn
	return func() {
		fut.OnComplete(func(error) {
			conn.Close() //nolint:errcheck
		})
	}
}

// 做一次性的成帧决策并冻结标头。须在持锁状态下调用。
// 返回锁外待派发的标头结束处理器，可能为 nil。
func (r *Response) prepareHeaders(length BodyLength) func() {
	f := DecideFraming(r.version, r.keepAlive, r.head, r.chunked, length, r.headers.ContentLengthSet())
	if f.Connection != nil {
		r.headers.SetCanonical(bytestr.StrConnection, f.Connection)
	}
	if f.Chunked {
		r.headers.SetCanonical(bytestr.StrTransferEncoding, bytestr.StrChunked)
		if r.trailer != nil && !r.trailer.Empty() && !r.head {
			r.headers.SetCanonical(bytestr.StrTrailer, r.trailer.GetBytes())
		}
	}
	if f.ContentLength.Known {
		r.headers.SetCanonical(bytestr.StrContentLength, bytesconv.AppendUint(nil, f.ContentLength.N))
	}
	r.headWritten = true
	return r.headersEndHandler
}

// 序列化状态行与标头，含结尾空行。须在 prepareHeaders 之后持锁调用。
func (r *Response) headBytes() []byte {
	dst := appendStatusLine(nil, r.version, r.statusCode, r.statusMessage)
	dst = r.headers.AppendBytes(dst)
	return append(dst, bytestr.StrCRLF...)
}

// 观测异步写入结果，失败时换算为传输错误并派发给异常处理器。
func (r *Response) watch(fut *network.Future) {
	fut.OnComplete(func(err error) {
		if err == nil {
			return
		}
		r.HandleException(errs.New(err, errs.ErrorTypeTransport, nil))
	})
}

// HandleDrained 在写入队列自高水位回落后由连接调用，派发排空处理器。
func (r *Response) HandleDrained() {
	r.mu.Lock()
	h := r.drainHandler
	r.mu.Unlock()
	if h != nil {
		h()
	}
}

// HandleException 派发异常处理器。无处理器时静默。
func (r *Response) HandleException(err error) {
	r.mu.Lock()
	h := r.exceptionHandler
	r.mu.Unlock()
	if h != nil {
		h(err)
	}
}

// HandleClosed 在底层连接关闭后由连接调用。
//
// 至多生效一次。响应未完成时先派发异常处理器（连接提前关闭错误），
// 随后依次派发结束处理器与关闭处理器，全部在连接的执行上下文上进行。
func (r *Response) HandleClosed() {
	r.mu.Lock()
	if r.closeHandled {
		r.mu.Unlock()
		return
	}
	r.closeHandled = true
	r.closed = true

	var fns []func()
	if !r.written {
		if h := r.exceptionHandler; h != nil {
			fns = append(fns, func() {
				h(errs.New(errs.ErrConnectionClosed, errs.ErrorTypeTransport, nil))
			})
		}
	}
	if h := r.endHandler; h != nil && !r.written {
		fns = append(fns, h)
	}
	if h := r.closeHandler; h != nil {
		fns = append(fns, h)
	}
	exec := r.conn.Executor()
	r.mu.Unlock()

	for _, fn := range fns {
		exec.RunOnContext(fn)
	}
}

// DrainHandler 设置写入队列排空处理器。响应已结束时设置为空操作。
func (r *Response) DrainHandler(h func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h != nil && (r.written || r.closed) {
		return
	}
	r.drainHandler = h
}

// ExceptionHandler 设置异常处理器。响应已结束时设置为空操作。
func (r *Response) ExceptionHandler(h func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h != nil && (r.written || r.closed) {
		return
	}
	r.exceptionHandler = h
}

// CloseHandler 设置连接关闭处理器。
func (r *Response) CloseHandler(h func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h != nil {
		if err := r.checkValid(); err != nil {
			return err
		}
	}
	r.closeHandler = h
	return nil
}

// EndHandler 设置响应结束处理器。
func (r *Response) EndHandler(h func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h != nil {
		if err := r.checkValid(); err != nil {
			return err
		}
	}
	r.endHandler = h
	return nil
}

// HeadersEndHandler 设置标头写出处理器，在成帧决策完成、标头交给传输层时派发。
func (r *Response) HeadersEndHandler(h func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h != nil {
		if err := r.checkValid(); err != nil {
			return err
		}
	}
	r.headersEndHandler = h
	return nil
}

// BodyEndHandler 设置正文写完处理器，在最后一段正文交给传输层时派发。
func (r *Response) BodyEndHandler(h func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h != nil {
		if err := r.checkValid(); err != nil {
			return err
		}
	}
	r.bodyEndHandler = h
	return nil
}

// WriteQueueFull 报告写入队列是否已达高水位线，用于背压观测。
func (r *Response) WriteQueueFull() bool {
	return r.conn.WriteQueueFull()
}

// SetWriteQueueMaxSize 设置写入队列高水位线（字节）。
func (r *Response) SetWriteQueueMaxSize(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkValid(); err != nil {
		return err
	}
	r.conn.SetWriteQueueMaxSize(n)
	return nil
}

// WriteContinue 发送 100 Continue 中间响应，不影响最终响应的状态。
func (r *Response) WriteContinue() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return errs.New(errs.ErrResponseClosed, errs.ErrorTypeUsage, nil)
	}
	fut := r.conn.WriteFrame(&continueFrame{version: r.version})
	r.mu.Unlock()

	r.watch(fut)
	return nil
}

// Push 发起服务端推送。HTTP/1.x 不支持推送，总是异步回调失败。
func (r *Response) Push(method, path string, headers *protocol.Headers, fn func(*Response, error)) {
	r.conn.Executor().RunOnContext(func() {
		fn(nil, errs.New(errs.ErrPushUnsupported, errs.ErrorTypeUsage, nil))
	})
}

// Reset 发送流重置。HTTP/1.x 无流的概念，为空操作。
func (r *Response) Reset(code uint32) {}

// Ended 报告响应是否已结束。
func (r *Response) Ended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Closed 报告响应是否已关闭。
func (r *Response) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// HeadWritten 报告响应头是否已写出。
func (r *Response) HeadWritten() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.headWritten
}

// BytesWritten 返回已交给传输层的正文字节数。HEAD 响应恒为零。
func (r *Response) BytesWritten() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bytesWritten
}

// KeepAlive 报告该响应完成后连接是否保活。
func (r *Response) KeepAlive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keepAlive
}
