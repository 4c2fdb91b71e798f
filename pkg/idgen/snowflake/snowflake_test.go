package snowflake

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// TestNew 测试创建生成器
func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		datacenterID int64
		workerID     int64
		wantErr      error
	}{
		{"有效参数_最小值", 0, 0, nil},
		{"有效参数_最大值", 31, 31, nil},
		{"无效WorkerID_负数", 1, -1, ErrInvalidWorkerID},
		{"无效WorkerID_超出", 1, 32, ErrInvalidWorkerID},
		{"无效DatacenterID_负数", -1, 1, ErrInvalidDatacenterID},
		{"无效DatacenterID_超出", 32, 1, ErrInvalidDatacenterID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(Config{DatacenterID: tt.datacenterID, WorkerID: tt.workerID})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("期望错误 %v，得到 %v", tt.wantErr, err)
				}
				return
			}
			if err != nil || gen == nil {
				t.Fatalf("不期望错误，但得到: %v", err)
			}
		})
	}
}

// TestNextIDParse 生成的ID可以解析回配置与时间
func TestNextIDParse(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	gen, err := New(Config{DatacenterID: 3, WorkerID: 7}, WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatal(err)
	}

	first, _ := gen.NextID()
	second, _ := gen.NextID()
	if second <= first {
		t.Errorf("ID应递增: %d <= %d", second, first)
	}

	info, err := Parse(second)
	if err != nil {
		t.Fatal(err)
	}
	if info.DatacenterID != 3 || info.WorkerID != 7 {
		t.Errorf("解析结果错误: %+v", info)
	}
	if info.Sequence != 1 {
		t.Errorf("同一毫秒内序列号应为1，得到 %d", info.Sequence)
	}
	if !info.Time.Equal(at) {
		t.Errorf("时间 = %v, 期望 %v", info.Time, at)
	}

	if _, err := Parse(0); !errors.Is(err, ErrInvalidID) {
		t.Errorf("期望 ErrInvalidID，得到 %v", err)
	}
}

// TestClockBackward 时钟回拨默认返回错误
func TestClockBackward(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	gen, _ := New(Config{}, WithClock(func() time.Time { return at }))
	if _, err := gen.NextID(); err != nil {
		t.Fatal(err)
	}

	at = at.Add(-time.Second)
	if _, err := gen.NextID(); !errors.Is(err, ErrClockMovedBackwards) {
		t.Errorf("期望 ErrClockMovedBackwards，得到 %v", err)
	}
}

// TestConcurrentUnique 并发生成不重复
func TestConcurrentUnique(t *testing.T) {
	gen, _ := New(Config{DatacenterID: 1, WorkerID: 1})

	const workers, perWorker = 8, 500
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		ids = make(map[int64]struct{}, workers*perWorker)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id, err := gen.NextID()
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				ids[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(ids) != workers*perWorker {
		t.Errorf("期望 %d 个不重复ID，得到 %d", workers*perWorker, len(ids))
	}
}
