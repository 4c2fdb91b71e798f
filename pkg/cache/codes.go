package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"katydid-backoffice-forms/pkg/facade"
	"katydid-backoffice-forms/pkg/types"
)

const defaultCodeTTL = 10 * time.Minute

// CodeFacade 带缓存的通用代码门面；缓存故障时回退到下游
type CodeFacade struct {
	next   facade.CommonCodeFacade
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

var _ facade.CommonCodeFacade = (*CodeFacade)(nil)

// NewCodeFacade 创建带缓存的代码门面
func NewCodeFacade(next facade.CommonCodeFacade, cache Cache, ttl time.Duration, logger *zap.Logger) *CodeFacade {
	if ttl <= 0 {
		ttl = defaultCodeTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CodeFacade{next: next, cache: cache, ttl: ttl, logger: logger}
}

func codeKey(codeType string) string {
	return "codes:" + codeType
}

// FindByType 先查缓存，未命中时查询下游并回填
func (c *CodeFacade) FindByType(ctx context.Context, codeType string) ([]types.Code, error) {
	key := codeKey(codeType)
	data, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var codes []types.Code
		if err := json.Unmarshal(data, &codes); err == nil {
			return codes, nil
		}
		c.logger.Warn("corrupt cached codes", zap.String("type", codeType))
	case !errors.Is(err, ErrMiss):
		c.logger.Warn("code cache unavailable", zap.String("type", codeType), zap.Error(err))
	}

	codes, err := c.next.FindByType(ctx, codeType)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(codes); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("code cache write failed", zap.String("type", codeType), zap.Error(err))
		}
	}
	return codes, nil
}

// Invalidate 使某类代码的缓存失效
func (c *CodeFacade) Invalidate(ctx context.Context, codeTypes ...string) error {
	keys := make([]string, len(codeTypes))
	for i, t := range codeTypes {
		keys[i] = codeKey(t)
	}
	return c.cache.Delete(ctx, keys...)
}
