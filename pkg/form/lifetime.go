package form

import (
	"context"
	"sync"
	"sync/atomic"
)

// Lifetime 表单实例的释放信号
//
// 表单构建期间创建的所有订阅都登记在 Lifetime 上，Dispose 时同步、逆序释放。
// Dispose 幂等；在已释放的 Lifetime 上登记的释放函数会被立即执行
type Lifetime struct {
	mu       sync.Mutex
	disposed atomic.Bool
	releases []func()
	stop     func() bool
}

// NewLifetime 创建一个独立的释放信号，由调用方负责 Dispose
func NewLifetime() *Lifetime {
	return &Lifetime{}
}

// LifetimeFromContext 创建与 ctx 绑定的释放信号：ctx 结束时自动 Dispose
// 注意：此时 Dispose 发生在 ctx 的回调 goroutine 上
func LifetimeFromContext(ctx context.Context) *Lifetime {
	l := &Lifetime{}
	l.stop = context.AfterFunc(ctx, l.Dispose)
	return l
}

// Track 登记一个释放函数
func (l *Lifetime) Track(release func()) {
	if release == nil {
		return
	}
	l.mu.Lock()
	if !l.disposed.Load() {
		l.releases = append(l.releases, release)
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	release()
}

// Disposed 是否已释放
func (l *Lifetime) Disposed() bool {
	return l.disposed.Load()
}

// Dispose 释放全部登记的订阅（幂等）
func (l *Lifetime) Dispose() {
	if !l.disposed.CompareAndSwap(false, true) {
		return
	}

	l.mu.Lock()
	releases := l.releases
	l.releases = nil
	stop := l.stop
	l.mu.Unlock()

	if stop != nil {
		stop()
	}
	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
	}
}

// Pending 尚未释放的登记数量（测试与诊断用）
func (l *Lifetime) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.releases)
}
