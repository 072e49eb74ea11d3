package network

import (
	"io"
	"net"
	"testing"
	"time"

	errs "github.com/favbox/breeze/common/errors"
	"github.com/stretchr/testify/assert"
)

// 测试用帧：原样写出 data。
type testFrame struct {
	data []byte
}

func (f *testFrame) Payload() int { return len(f.data) }

func (f *testFrame) Encode(w Writer) error {
	_, err := w.WriteBinary(f.data)
	return err
}

func readN(t *testing.T, r io.Reader, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	_, err := io.ReadFull(r, buf)
	assert.Nil(t, err)
	return buf
}

func TestEventChannel_WritesFramesInOrder(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	defer client.Close()

	ch := NewEventChannel(server, ChannelOptions{})
	defer ch.Close()

	ch.WriteFrame(&testFrame{data: []byte("one,")})
	ch.WriteFrame(&testFrame{data: []byte("two,")})
	fut := ch.WriteFrame(&testFrame{data: []byte("three")})

	assert.Equal(t, "one,two,three", string(readN(t, client, 13)))

	done := make(chan error, 1)
	fut.OnComplete(func(err error) { done <- err })
	assert.Nil(t, <-done)
}

func TestEventChannel_RunOnContextKeepsOrder(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	defer client.Close()

	ch := NewEventChannel(server, ChannelOptions{})
	defer ch.Close()

	ran := make(chan struct{})
	ch.WriteFrame(&testFrame{data: []byte("ab")})
	ch.Executor().RunOnContext(func() { close(ran) })

	// 上下文任务排在先入队的写入之后
	assert.Equal(t, "ab", string(readN(t, client, 2)))
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("上下文任务未执行")
	}
}

func TestEventChannel_BackpressureAndDrain(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	defer client.Close()

	drained := make(chan struct{}, 1)
	ch := NewEventChannel(server, ChannelOptions{
		WriteQueueMaxSize: 10,
		OnDrained:         func() { drained <- struct{}{} },
	})
	defer ch.Close()

	// 对端不读，两帧负载越过高水位线
	f1 := ch.WriteFrame(&testFrame{data: []byte("aaaaaa")})
	f2 := ch.WriteFrame(&testFrame{data: []byte("bbbbbb")})
	assert.True(t, ch.WriteQueueFull())

	readN(t, client, 12)

	done := make(chan error, 1)
	f2.OnComplete(func(err error) { done <- err })
	assert.Nil(t, <-done)
	assert.Nil(t, f1.Err())
	assert.False(t, ch.WriteQueueFull())

	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("未触发排空回调")
	}
}

func TestEventChannel_FullnessHysteresis(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	defer client.Close()

	drained := make(chan struct{}, 1)
	ch := NewEventChannel(server, ChannelOptions{
		WriteQueueMaxSize: 10,
		WriteQueueLowMark: 2,
		OnDrained:         func() { drained <- struct{}{} },
	})
	defer ch.Close()

	f1 := ch.WriteFrame(&testFrame{data: []byte("aaaaaa")})
	f2 := ch.WriteFrame(&testFrame{data: []byte("bbbbbb")})
	assert.True(t, ch.WriteQueueFull())

	// 只放行第一帧：占用回到高低水位线之间，满位信号保持
	readN(t, client, 6)
	done := make(chan error, 1)
	f1.OnComplete(func(err error) { done <- err })
	assert.Nil(t, <-done)
	assert.True(t, ch.WriteQueueFull())

	readN(t, client, 6)
	f2.OnComplete(func(err error) { done <- err })
	assert.Nil(t, <-done)

	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("未触发排空回调")
	}
	assert.False(t, ch.WriteQueueFull())
}

func TestEventChannel_WriteErrorTearsDown(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	client.Close() // 对端已断开，写入必然失败

	closed := make(chan struct{})
	ch := NewEventChannel(server, ChannelOptions{
		OnClosed: func() { close(closed) },
	})

	fut := ch.WriteFrame(&testFrame{data: []byte("x")})
	done := make(chan error, 1)
	fut.OnComplete(func(err error) { done <- err })
	assert.NotNil(t, <-done)

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("未触发关闭回调")
	}

	// 通道已关闭，后续写入立即失败
	late := ch.WriteFrame(&testFrame{data: []byte("y")})
	assert.True(t, late.Done())
	assert.Equal(t, errs.ErrConnectionClosed, late.Err())
}

func TestEventChannel_CloseDrainsQueueFirst(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	defer client.Close()

	closed := make(chan struct{})
	ch := NewEventChannel(server, ChannelOptions{
		OnClosed: func() { close(closed) },
	})

	fut := ch.WriteFrame(&testFrame{data: []byte("bye")})
	assert.Nil(t, ch.Close())

	assert.Equal(t, "bye", string(readN(t, client, 3)))
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("未触发关闭回调")
	}
	assert.Nil(t, fut.Err())
}
