package form

import (
	"strconv"
	"strings"
)

// Find 按路径查找后代控件，支持 a.b、arr[0].f 与 arr.0.f 三种写法
// 路径为空时返回 c 本身，找不到时返回 nil
func Find(c Control, path string) Control {
	for _, seg := range splitPath(path) {
		if c == nil {
			return nil
		}
		switch cur := c.(type) {
		case *Group:
			c = cur.Control(seg)
		case *Array:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return nil
			}
			c = cur.At(i)
		default:
			return nil
		}
	}
	return c
}

// splitPath 把 arr[0].f 拆成 [arr 0 f]
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")
	parts := strings.Split(path, ".")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
