// Package snowflake 实体主键的 Snowflake ID 生成器
//
// ID结构：时间戳(41位) | 数据中心ID(5位) | 工作机器ID(5位) | 序列号(12位)
package snowflake

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Generator Snowflake ID 生成器（并发安全）
type Generator struct {
	mu            sync.Mutex
	lastTimestamp int64
	sequence      int64

	config Config
	// precomputed 数据中心与工作机器部分，生命周期内不变
	precomputed int64

	now    func() time.Time
	logger *zap.Logger
}

// Option 生成器选项
type Option func(*Generator)

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithClock 设置时间来源（测试用）
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New 创建生成器
func New(config Config, opts ...Option) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{
		lastTimestamp: -1,
		sequence:      -1,
		config:        config,
		precomputed:   (config.DatacenterID << DatacenterIDShift) | (config.WorkerID << WorkerIDShift),
		now:           time.Now,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger.Debug("snowflake generator created",
		zap.Int64("datacenter_id", config.DatacenterID),
		zap.Int64("worker_id", config.WorkerID))
	return g, nil
}

// NextID 生成下一个ID
func (g *Generator) NextID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.millis()
	if ts < g.lastTimestamp {
		if err := g.handleClockBackward(ts); err != nil {
			g.logger.Warn("snowflake clock moved backwards",
				zap.Int64("current", ts), zap.Int64("last", g.lastTimestamp), zap.Error(err))
			return 0, err
		}
		ts = g.millis()
	}

	if ts == g.lastTimestamp {
		if g.sequence >= MaxSequence {
			ts = g.waitNextMillis(g.lastTimestamp)
			g.sequence = 0
		} else {
			g.sequence++
		}
	} else {
		g.sequence = 0
	}
	g.lastTimestamp = ts

	return ((ts - Epoch) << TimestampShift) | g.precomputed | g.sequence, nil
}

// Info ID 的组成部分
type Info struct {
	ID           int64
	Time         time.Time
	DatacenterID int64
	WorkerID     int64
	Sequence     int64
}

// Parse 解析 ID
func Parse(id int64) (Info, error) {
	if id <= 0 {
		return Info{}, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return Info{
		ID:           id,
		Time:         time.UnixMilli((id >> TimestampShift) + Epoch).UTC(),
		DatacenterID: (id >> DatacenterIDShift) & MaxDatacenterID,
		WorkerID:     (id >> WorkerIDShift) & MaxWorkerID,
		Sequence:     id & MaxSequence,
	}, nil
}

func (g *Generator) millis() int64 {
	return g.now().UnixMilli()
}

// handleClockBackward 按策略处理时钟回拨
func (g *Generator) handleClockBackward(current int64) error {
	offset := g.lastTimestamp - current
	if g.config.ClockBackwardStrategy != StrategyWait {
		return fmt.Errorf("%w: detected backward drift of %d ms", ErrClockMovedBackwards, offset)
	}
	if offset > g.config.tolerance() {
		return fmt.Errorf("%w: backward drift %d ms exceeds tolerance %d ms",
			ErrClockMovedBackwards, offset, g.config.tolerance())
	}
	for retries := 0; retries < maxWaitRetries; retries++ {
		time.Sleep(time.Duration(offset+1) * time.Millisecond)
		now := g.millis()
		if now >= g.lastTimestamp {
			return nil
		}
		offset = g.lastTimestamp - now
	}
	return fmt.Errorf("%w: backward drift persisted after %d retries", ErrClockMovedBackwards, maxWaitRetries)
}

// waitNextMillis 序列号耗尽时等待下一毫秒
func (g *Generator) waitNextMillis(last int64) int64 {
	ts := g.millis()
	for ts <= last {
		time.Sleep(sleepDuration)
		ts = g.millis()
	}
	return ts
}
