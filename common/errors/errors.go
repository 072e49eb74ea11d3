// Package errors 定义响应引擎的错误规范与哨兵错误。
package errors

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrConnectionClosed   = errors.New("连接在响应完成前已关闭")
	ErrResponseEnded      = errors.New("响应已结束")
	ErrResponseClosed     = errors.New("响应已关闭")
	ErrHeadAlreadyWritten = errors.New("响应头已写入")
	ErrBodyLengthUnknown  = errors.New("未使用分块编码时，必须在发送任何数据前将 Content-Length 标头设置为正文总大小")
	ErrPushUnsupported    = errors.New("服务端推送仅支持 HTTP/2，当前协议版本不支持")
	ErrTimeout            = errors.New("timeout")
)

type ErrorType uint64

const (
	// ErrorTypeUsage 表示调用方对状态机的误用，同步报告。
	ErrorTypeUsage ErrorType = 1 << iota
	// ErrorTypeFraming 表示违反 HTTP/1.x 成帧规则，同步报告。
	ErrorTypeFraming
	// ErrorTypeResource 表示打开发送源文件等资源失败，异步报告。
	ErrorTypeResource
	// ErrorTypeTransport 表示底层通道的写入失败，异步报告。
	ErrorTypeTransport
	// ErrorTypePrivate 表示一个私有的错误。
	ErrorTypePrivate
	// ErrorTypePublic 表示一个公开的错误。
	ErrorTypePublic
	// ErrorTypeAny 表示任何其他错误。
	ErrorTypeAny
)

// Error 表示一个带有错误类型和元信息的错误规范。
type Error struct {
	Err  error
	Type ErrorType
	Meta any
}

var _ error = (*Error)(nil)

// 返回错误的消息字符串。
func (msg *Error) Error() string {
	return msg.Err.Error()
}

func (msg *Error) Unwrap() error {
	return msg.Err
}

func (msg *Error) IsType(flags ErrorType) bool {
	return (msg.Type & flags) > 0
}

func (msg *Error) SetType(flags ErrorType) *Error {
	msg.Type = flags
	return msg
}

func (msg *Error) SetMeta(data any) *Error {
	msg.Meta = data
	return msg
}

func (msg *Error) JSON() any {
	jsonData := make(map[string]any)
	if msg.Meta != nil {
		value := reflect.ValueOf(msg.Meta)
		switch value.Kind() {
		case reflect.Struct:
			return msg.Meta
		case reflect.Map:
			for _, key := range value.MapKeys() {
				jsonData[key.String()] = value.MapIndex(key).Interface()
			}
		default:
			jsonData["meta"] = msg.Meta
		}
	}
	if _, ok := jsonData["error"]; !ok {
		jsonData["error"] = msg.Error()
	}
	return jsonData
}

// New 新建一个指定错误和错误类型及元数据的自定义错误。
func New(err error, t ErrorType, meta any) *Error {
	return &Error{
		Err:  err,
		Type: t,
		Meta: meta,
	}
}

func NewPublic(err string) *Error {
	return New(errors.New(err), ErrorTypePublic, nil)
}

func NewPrivate(err string) *Error {
	return New(errors.New(err), ErrorTypePrivate, nil)
}

func Newf(t ErrorType, meta any, format string, v ...any) *Error {
	return New(fmt.Errorf(format, v...), t, meta)
}

func NewPublicf(format string, v ...any) *Error {
	return New(fmt.Errorf(format, v...), ErrorTypePublic, nil)
}
