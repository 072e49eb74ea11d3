package network

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuture_CompleteOnce(t *testing.T) {
	t.Parallel()

	f := NewFuture()
	assert.False(t, f.Done())

	f.Complete(nil)
	assert.True(t, f.Done())
	assert.Nil(t, f.Err())

	// 二次完成为空操作
	f.Complete(errors.New("late"))
	assert.Nil(t, f.Err())
}

func TestFuture_CallbackOrder(t *testing.T) {
	t.Parallel()

	f := NewFuture()
	var order []int
	f.OnComplete(func(error) { order = append(order, 1) })
	f.OnComplete(func(error) { order = append(order, 2) })
	f.Complete(nil)
	assert.Equal(t, []int{1, 2}, order)
}

func TestFuture_LateCallbackRunsImmediately(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("写入失败")
	f := CompletedFuture(wantErr)

	var got error
	called := false
	f.OnComplete(func(err error) {
		called = true
		got = err
	})
	assert.True(t, called)
	assert.Equal(t, wantErr, got)
}
