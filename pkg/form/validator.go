package form

// ValidatorFunc 校验函数：纯函数，读取控件（及其引用控件）的当前值，返回错误集合
// 返回 nil 表示校验通过；禁止在校验函数中写入任何控件
type ValidatorFunc func(c Control) Errors

// Validator 附加在控件上的校验器
//
// Key 用于识别与移除校验器（同一控件上 Key 唯一，重复添加会替换）
// Refs 为该校验器读取的其他控件：任一引用控件的值变化时，宿主控件会被重新校验，
// 订阅的生命周期与表单实例的释放信号绑定
type Validator struct {
	Key  string
	Fn   ValidatorFunc
	Refs []Control
}
