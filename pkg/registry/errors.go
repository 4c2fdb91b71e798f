package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntityName 实体名格式不合法
	ErrInvalidEntityName = errors.New("invalid entity name")

	// ErrNilFactory 注册的工厂为 nil
	ErrNilFactory = errors.New("factory cannot be nil")
)

// UnregisteredEntityError 请求构建未注册的实体
type UnregisteredEntityError struct {
	Entity string
}

func (e *UnregisteredEntityError) Error() string {
	return fmt.Sprintf("entity %q is not registered", e.Entity)
}

// InvalidSchemaError 实体声明不合法
type InvalidSchemaError struct {
	Entity string
	Reason string
}

func (e *InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid schema %q: %s", e.Entity, e.Reason)
}
