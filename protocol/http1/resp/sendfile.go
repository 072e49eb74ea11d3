package resp

import (
	"mime"
	"os"
	"path/filepath"

	errs "github.com/favbox/breeze/common/errors"
	"github.com/favbox/breeze/common/hlog"
	"github.com/favbox/breeze/network"
)

// SendFile 将本地文件的一个字节段作为完整响应发送。
//
// offset 为起始偏移，length 为负表示发到文件末尾；两者都会被钳制到
// 文件实际大小之内。标头在此冻结，Content-Length 取实际发送的段长，
// 未设置 Content-Type 时按扩展名推断。
//
// 文件的打开与测量在调用方协程上同步进行，打开失败不改变响应状态，
// 错误经 fn 异步报告。传输结束后由通道负责关闭文件。fn 为 nil 时
// 成败仅记录日志或走异常处理器。
func (r *Response) SendFile(filename string, offset, length int64, fn func(error)) error {
	r.mu.Lock()
	if err := r.checkValid(); err != nil {
		r.mu.Unlock()
		return err
	}
	if r.headWritten {
		r.mu.Unlock()
		return errs.New(errs.ErrHeadAlreadyWritten, errs.ErrorTypeUsage, nil)
	}
	r.mu.Unlock()

	file, err := os.Open(filename)
	if err == nil {
		var fi os.FileInfo
		fi, err = file.Stat()
		if err != nil {
			file.Close() //nolint:errcheck
		} else {
			return r.sendFile0(file, fi.Size(), offset, length, fn)
		}
	}

	resErr := errs.New(err, errs.ErrorTypeResource, nil)
	if fn != nil {
		r.conn.Executor().RunOnContext(func() {
			fn(resErr)
		})
	} else {
		hlog.Errorf("打开待发送文件 %q 失败: %v", filename, err)
	}
	return nil
}

func (r *Response) sendFile0(file *os.File, size, offset, length int64, fn func(error)) error {
	if offset < 0 {
		offset = 0
	}
	if offset > size {
		offset = size
	}
	contentLength := size - offset
	if length >= 0 && length < contentLength {
		contentLength = length
	}

	r.mu.Lock()
	if err := r.checkValid(); err != nil {
		r.mu.Unlock()
		file.Close() //nolint:errcheck
		return err
	}
	if r.headWritten {
		r.mu.Unlock()
		file.Close() //nolint:errcheck
		return errs.New(errs.ErrHeadAlreadyWritten, errs.ErrorTypeUsage, nil)
	}

	if !r.headers.ContentTypeSet() {
		if ct := mime.TypeByExtension(filepath.Ext(file.Name())); ct != "" {
			r.headers.Set("Content-Type", ct)
		}
	}
	if !r.head {
		r.bytesWritten = uint64(contentLength)
	}

	var after []func()
	onHeadersEnd := r.prepareHeaders(KnownLength(uint64(contentLength)))
	if onHeadersEnd != nil {
		after = append(after, onHeadersEnd)
	}

	var sendFut, lastFut *network.Future
	headFut := r.conn.WriteFrame(&headFrame{head: r.headBytes()})
	if r.head {
		file.Close() //nolint:errcheck
		lastFut = headFut
	} else {
		sendFut = r.conn.SendFileRange(file, offset, contentLength)
		// 空的终止帧，让下游在文件段之后观察到响应完成
		lastFut = r.conn.WriteFrame(&lastContentFrame{})
	}

	r.written = true
	if h := r.bodyEndHandler; h != nil {
		after = append(after, h)
	}
	if !r.keepAlive {
		after = append(after, r.closeConnAfterWrite(lastFut))
		r.closed = true
	}
	exec := r.conn.Executor()
	r.mu.Unlock()

	for _, f := range after {
		f()
	}
	if fn != nil {
		lastFut.OnComplete(func(err error) {
			// 文件段先于终止帧落地，其失败优先报告
			if err == nil && sendFut != nil {
				err = sendFut.Err()
			}
			exec.RunOnContext(func() {
				if err != nil {
					fn(errs.New(err, errs.ErrorTypeTransport, nil))
					return
				}
				fn(nil)
			})
		})
	} else {
		if sendFut != nil {
			r.watch(sendFut)
		}
		r.watch(lastFut)
	}
	return nil
}
