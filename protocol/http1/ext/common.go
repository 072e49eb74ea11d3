// Package ext 提供 HTTP/1.x 分块编码与挂车的线上写入工具。
package ext

import (
	"github.com/favbox/breeze/internal/bytesconv"
	"github.com/favbox/breeze/internal/bytestr"
	"github.com/favbox/breeze/network"
	"github.com/favbox/breeze/protocol"
)

// WriteChunk 将数据 b 分块写入 w。
//
// b 为空表示终止块。终止块之后由 WriteTrailer 负责收尾的挂车与空行。
func WriteChunk(w network.Writer, b []byte, withFlush bool) (err error) {
	n := len(b)
	if err = bytesconv.WriteHexInt(w, n); err != nil {
		return err
	}

	w.WriteBinary(bytestr.StrCRLF) //nolint:errcheck
	if _, err = w.WriteBinary(b); err != nil {
		return err
	}

	// 若是正常区块，则在数据之后补 CRLF
	if n > 0 {
		w.WriteBinary(bytestr.StrCRLF) //nolint:errcheck
	}

	if !withFlush {
		return nil
	}
	err = w.Flush()
	return
}

// WriteTrailer 将挂车标头 t 写入 w，包含结尾空行。t 为 nil 时仅写空行。
func WriteTrailer(t *protocol.Trailer, w network.Writer) error {
	if t == nil {
		_, err := w.WriteBinary(bytestr.StrCRLF)
		return err
	}
	_, err := w.WriteBinary(t.Header())
	return err
}
