package resp

import (
	"github.com/favbox/breeze/internal/bytesconv"
	"github.com/favbox/breeze/internal/bytestr"
	"github.com/favbox/breeze/network"
	"github.com/favbox/breeze/protocol"
	"github.com/favbox/breeze/protocol/consts"
	"github.com/favbox/breeze/protocol/http1/ext"
)

// 组装 "HTTP/1.x <code> <reason>\r\n" 状态行。
func appendStatusLine(dst []byte, version consts.Version, statusCode int, statusMessage string) []byte {
	if statusCode <= 0 {
		statusCode = consts.StatusOK
	}
	if version == consts.HTTP10 {
		dst = append(dst, bytestr.StrHTTP10...)
	} else {
		dst = append(dst, bytestr.StrHTTP11...)
	}
	dst = append(dst, ' ')
	dst = bytesconv.AppendUint(dst, uint64(statusCode))
	dst = append(dst, ' ')
	if statusMessage == "" {
		statusMessage = consts.StatusMessage(statusCode)
	}
	dst = append(dst, statusMessage...)
	return append(dst, bytestr.StrCRLF...)
}

// fullFrame 单趟帧：状态行、标头与完整正文合并为一个传输单元，省去二次写入。
type fullFrame struct {
	head     []byte
	body     []byte
	chunked  bool
	skipBody bool
	trailer  *protocol.Trailer
}

func (f *fullFrame) Payload() int {
	if f.skipBody {
		return 0
	}
	return len(f.body)
}

func (f *fullFrame) Encode(w network.Writer) error {
	if _, err := w.WriteBinary(f.head); err != nil {
		return err
	}
	if f.skipBody {
		return nil
	}
	if !f.chunked {
		if len(f.body) == 0 {
			return nil
		}
		_, err := w.WriteBinary(f.body)
		return err
	}
	if len(f.body) > 0 {
		if err := ext.WriteChunk(w, f.body, false); err != nil {
			return err
		}
	}
	if err := ext.WriteChunk(w, nil, false); err != nil {
		return err
	}
	return ext.WriteTrailer(f.trailer, w)
}

// headFrame 首帧：状态行、标头与可选的首段正文。
type headFrame struct {
	head     []byte
	body     []byte
	chunked  bool
	skipBody bool
}

func (f *headFrame) Payload() int {
	if f.skipBody {
		return 0
	}
	return len(f.body)
}

func (f *headFrame) Encode(w network.Writer) error {
	if _, err := w.WriteBinary(f.head); err != nil {
		return err
	}
	if f.skipBody || len(f.body) == 0 {
		return nil
	}
	if f.chunked {
		return ext.WriteChunk(w, f.body, false)
	}
	_, err := w.WriteBinary(f.body)
	return err
}

// contentFrame 后续正文片段。
type contentFrame struct {
	body     []byte
	chunked  bool
	skipBody bool
}

func (f *contentFrame) Payload() int {
	if f.skipBody {
		return 0
	}
	return len(f.body)
}

func (f *contentFrame) Encode(w network.Writer) error {
	if f.skipBody || len(f.body) == 0 {
		return nil
	}
	if f.chunked {
		return ext.WriteChunk(w, f.body, false)
	}
	_, err := w.WriteBinary(f.body)
	return err
}

// lastContentFrame 终止帧：最后一段正文，分块传输下附终止块与挂车。
type lastContentFrame struct {
	body     []byte
	chunked  bool
	skipBody bool
	trailer  *protocol.Trailer
}

func (f *lastContentFrame) Payload() int {
	if f.skipBody {
		return 0
	}
	return len(f.body)
}

func (f *lastContentFrame) Encode(w network.Writer) error {
	if f.skipBody {
		return nil
	}
	if !f.chunked {
		if len(f.body) == 0 {
			return nil
		}
		_, err := w.WriteBinary(f.body)
		return err
	}
	if len(f.body) > 0 {
		if err := ext.WriteChunk(w, f.body, false); err != nil {
			return err
		}
	}
	if err := ext.WriteChunk(w, nil, false); err != nil {
		return err
	}
	return ext.WriteTrailer(f.trailer, w)
}

// continueFrame 中间响应帧："HTTP/1.x 100 Continue\r\n\r\n"。
type continueFrame struct {
	version consts.Version
}

func (f *continueFrame) Payload() int { return 0 }

func (f *continueFrame) Encode(w network.Writer) error {
	var dst []byte
	if f.version == consts.HTTP10 {
		dst = append(dst, bytestr.StrHTTP10...)
	} else {
		dst = append(dst, bytestr.StrHTTP11...)
	}
	dst = append(dst, bytestr.Str100Continue...)
	_, err := w.WriteBinary(dst)
	return err
}

// barrierFrame 屏障帧：不产生字节，在写入队列中标记一个可观察的完成点，
// 用于连接的写后关闭。
type barrierFrame struct{}

func (f *barrierFrame) Payload() int { return 0 }

func (f *barrierFrame) Encode(w network.Writer) error { return nil }
