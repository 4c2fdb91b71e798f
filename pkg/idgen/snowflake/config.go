package snowflake

import (
	"errors"
	"fmt"
	"time"
)

const (
	// Epoch 起始时间戳 (2024-01-01 00:00:00 UTC)，毫秒
	Epoch int64 = 1704067200000

	WorkerIDBits     = 5
	DatacenterIDBits = 5
	SequenceBits     = 12

	MaxWorkerID     = -1 ^ (-1 << WorkerIDBits)     // 31
	MaxDatacenterID = -1 ^ (-1 << DatacenterIDBits) // 31
	MaxSequence     = -1 ^ (-1 << SequenceBits)     // 4095

	WorkerIDShift     = SequenceBits
	DatacenterIDShift = SequenceBits + WorkerIDBits
	TimestampShift    = SequenceBits + WorkerIDBits + DatacenterIDBits

	// 等待下一毫秒时的休眠时间
	sleepDuration = 100 * time.Microsecond

	// 时钟回拨默认与最大容忍时间（毫秒）
	defaultClockBackwardTolerance = 5
	maxClockBackwardTolerance     = 1000

	maxWaitRetries = 10
)

var (
	// ErrInvalidDatacenterID 数据中心ID超出范围
	ErrInvalidDatacenterID = errors.New("invalid datacenter id")

	// ErrInvalidWorkerID 工作机器ID超出范围
	ErrInvalidWorkerID = errors.New("invalid worker id")

	// ErrClockMovedBackwards 检测到时钟回拨
	ErrClockMovedBackwards = errors.New("clock moved backwards")

	// ErrInvalidID ID不是本生成器格式
	ErrInvalidID = errors.New("invalid snowflake id")
)

// ClockBackwardStrategy 时钟回拨处理策略
type ClockBackwardStrategy int

const (
	// StrategyError 直接返回错误（默认）
	StrategyError ClockBackwardStrategy = iota
	// StrategyWait 在容忍范围内等待时钟追上
	StrategyWait
)

// Config 生成器配置
type Config struct {
	// DatacenterID 数据中心ID，范围 0-31
	DatacenterID int64 `mapstructure:"datacenter_id"`
	// WorkerID 工作机器ID，范围 0-31
	WorkerID int64 `mapstructure:"worker_id"`

	ClockBackwardStrategy ClockBackwardStrategy `mapstructure:"clock_backward_strategy"`
	// ClockBackwardTolerance 仅 StrategyWait 使用，0 表示默认 5ms
	ClockBackwardTolerance int64 `mapstructure:"clock_backward_tolerance"`
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.DatacenterID < 0 || c.DatacenterID > MaxDatacenterID {
		return fmt.Errorf("%w: got %d, valid range [0, %d]", ErrInvalidDatacenterID, c.DatacenterID, MaxDatacenterID)
	}
	if c.WorkerID < 0 || c.WorkerID > MaxWorkerID {
		return fmt.Errorf("%w: got %d, valid range [0, %d]", ErrInvalidWorkerID, c.WorkerID, MaxWorkerID)
	}
	if c.ClockBackwardTolerance < 0 || c.ClockBackwardTolerance > maxClockBackwardTolerance {
		return fmt.Errorf("clock backward tolerance must be within [0, %d] ms, got %d",
			maxClockBackwardTolerance, c.ClockBackwardTolerance)
	}
	return nil
}

func (c Config) tolerance() int64 {
	if c.ClockBackwardTolerance == 0 {
		return defaultClockBackwardTolerance
	}
	return c.ClockBackwardTolerance
}
