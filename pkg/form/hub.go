package form

import "sync"

// listener 单个订阅者
type listener[T any] struct {
	fn   func(T)
	live bool
}

// hub 同步订阅中心
// 说明：emit 基于快照遍历，订阅者在回调中取消订阅是安全的
type hub[T any] struct {
	mu        sync.Mutex
	listeners []*listener[T]
}

// add 添加订阅，返回幂等的取消函数
func (h *hub[T]) add(fn func(T)) func() {
	l := &listener[T]{fn: fn, live: true}

	h.mu.Lock()
	h.listeners = append(h.listeners, l)
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if !l.live {
			return
		}
		l.live = false
		for i, cur := range h.listeners {
			if cur == l {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				break
			}
		}
	}
}

// emit 同步通知所有存活的订阅者
func (h *hub[T]) emit(v T) {
	h.mu.Lock()
	if len(h.listeners) == 0 {
		h.mu.Unlock()
		return
	}
	snapshot := make([]*listener[T], len(h.listeners))
	copy(snapshot, h.listeners)
	h.mu.Unlock()

	for _, l := range snapshot {
		h.mu.Lock()
		live := l.live
		h.mu.Unlock()
		if live {
			l.fn(v)
		}
	}
}

// size 当前订阅者数量
func (h *hub[T]) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
