// Package access 访问模式（Mode）与作用域（Scope）两条条件轴
//
// 两者都是封闭的和类型：Mode 通过 ModeVisitor 穷举分派，新增模式时所有访问者都会编译失败，
// 不存在运行期的"未处理模式"分支
package access

import (
	"fmt"
	"strings"
)

// Mode 访问模式
type Mode uint8

const (
	ModeUnset   Mode = iota // 未设置（零值），需要访问模式的实体会拒绝构建
	ModeAdd                 // 新增
	ModeEdit                // 编辑
	ModeView                // 查看（只读）
	ModeAddLike             // 参照新增：复制已有记录，清空身份字段
)

var modeNames = map[Mode]string{
	ModeUnset:   "",
	ModeAdd:     "add",
	ModeEdit:    "edit",
	ModeView:    "view",
	ModeAddLike: "add-like",
}

// String 字符串表示
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// IsSet 是否设置了访问模式
func (m Mode) IsSet() bool {
	return m != ModeUnset
}

// ParseMode 解析访问模式，空串解析为 ModeUnset
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return ModeUnset, nil
	case "add":
		return ModeAdd, nil
	case "edit":
		return ModeEdit, nil
	case "view":
		return ModeView, nil
	case "add-like", "addlike", "add_like":
		return ModeAddLike, nil
	}
	return ModeUnset, &UnhandledAccessModeError{Value: s}
}

// MarshalText 实现 encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ModeVisitor 按访问模式分派的访问者，四个方法缺一不可
type ModeVisitor interface {
	Add()
	Edit()
	View()
	AddLike()
}

// Visit 按 mode 调用访问者对应的方法
// ModeUnset 或未知值返回错误，调用方应在此之前完成 RequireMode 校验
func Visit(mode Mode, v ModeVisitor) error {
	switch mode {
	case ModeAdd:
		v.Add()
	case ModeEdit:
		v.Edit()
	case ModeView:
		v.View()
	case ModeAddLike:
		v.AddLike()
	case ModeUnset:
		return &MissingAccessModeError{}
	default:
		return &UnhandledAccessModeError{Value: mode.String()}
	}
	return nil
}

// ModeFuncs 以函数字段实现 ModeVisitor，便于就地构造
// 任一字段为 nil 表示该模式下无操作
type ModeFuncs struct {
	OnAdd     func()
	OnEdit    func()
	OnView    func()
	OnAddLike func()
}

func (f ModeFuncs) Add()     { call(f.OnAdd) }
func (f ModeFuncs) Edit()    { call(f.OnEdit) }
func (f ModeFuncs) View()    { call(f.OnView) }
func (f ModeFuncs) AddLike() { call(f.OnAddLike) }

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
