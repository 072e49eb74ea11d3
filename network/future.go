package network

import "sync"

// Future 表示一次异步写入的最终结果。
//
// 完成是一次性的：第二次 Complete 为空操作。回调按注册顺序在完成写入的
// 协程上调用；若注册时已完成，则立即在调用方协程上调用。
type Future struct {
	mu        sync.Mutex
	done      bool
	err       error
	callbacks []func(error)
}

// NewFuture 创建一个未完成的 Future。
func NewFuture() *Future {
	return &Future{}
}

// CompletedFuture 创建一个已按 err 完成的 Future。
func CompletedFuture(err error) *Future {
	return &Future{done: true, err: err}
}

// Complete 以 err 完成该 Future。err 为 nil 表示写入成功。
func (f *Future) Complete(err error) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	for _, fn := range callbacks {
		fn(err)
	}
}

// OnComplete 注册完成回调。
func (f *Future) OnComplete(fn func(error)) {
	f.mu.Lock()
	if f.done {
		err := f.err
		f.mu.Unlock()
		fn(err)
		return
	}
	f.callbacks = append(f.callbacks, fn)
	f.mu.Unlock()
}

// Done 报告该 Future 是否已完成。
func (f *Future) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// Err 返回完成错误。未完成时返回 nil。
func (f *Future) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
