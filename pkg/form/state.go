package form

import "strings"

// State 控件状态位，使用位运算支持多状态叠加
// 说明：禁用、脏、已触碰三种状态相互独立，可任意组合
type State int64

// 预定义的控件状态位
const (
	StateNone State = 0 // 无状态

	StateDisabled State = 1 << (iota - 1) // 禁用：不参与 Value() 聚合与有效性计算
	StateDirty                            // 脏：用户修改过
	StateTouched                          // 已触碰：用户访问过
)

// Set 设置指定的状态位
func (s *State) Set(flag State) {
	*s |= flag
}

// Unset 取消指定的状态位
func (s *State) Unset(flag State) {
	*s &^= flag
}

// Contain 检查是否包含指定的状态位
func (s State) Contain(flag State) bool {
	return s&flag == flag
}

// ContainAny 检查是否包含任意一个指定的状态位
func (s State) ContainAny(flags State) bool {
	return s&flags != 0
}

// String 字符串表示（用于调试和日志）
func (s State) String() string {
	if s == StateNone {
		return "none"
	}
	parts := make([]string, 0, 3)
	if s.Contain(StateDisabled) {
		parts = append(parts, "disabled")
	}
	if s.Contain(StateDirty) {
		parts = append(parts, "dirty")
	}
	if s.Contain(StateTouched) {
		parts = append(parts, "touched")
	}
	return strings.Join(parts, "|")
}

// Status 控件的校验状态
type Status uint8

const (
	StatusValid    Status = iota // 有效
	StatusInvalid                // 无效
	StatusDisabled               // 禁用（不参与校验结果）
)

// String 字符串表示
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "VALID"
	case StatusInvalid:
		return "INVALID"
	case StatusDisabled:
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}
