// Package server 表单引擎的 HTTP 接口
//
//	@title						Backoffice Forms API
//	@version					1.0
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "katydid-backoffice-forms/docs"
	"katydid-backoffice-forms/pkg/facade"
	"katydid-backoffice-forms/pkg/registry"
)

// 角色
const (
	RoleRead  = "backoffice:read"
	RoleWrite = "backoffice:write"
)

// Deps 路由依赖
type Deps struct {
	Registry      *registry.Registry
	Discounts     facade.DiscountFacade
	StoreProducts facade.StoreProductFacade
	Codes         facade.CommonCodeFacade
	Resources     facade.ResourceFacade
	Logger        *zap.Logger
	Auth          AuthConfig
}

// NewRouter 组装路由
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	h := &handler{Deps: d}

	r := gin.New()
	r.Use(requestID(), accessLog(d.Logger), recovery(d.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1", authenticate(d.Auth, d.Logger))
	read := api.Group("", requireRole(RoleRead, RoleWrite))
	write := api.Group("", requireRole(RoleWrite))

	read.GET("/entities", h.listEntities)
	read.POST("/forms/:entity/validate", h.validateForm)

	read.GET("/discounts", h.searchDiscounts)
	read.GET("/discounts/:id", h.getDiscount)
	write.POST("/discounts", h.createDiscount)
	write.PUT("/discounts/:id", h.updateDiscount)
	write.POST("/discounts/activate", h.activateDiscounts)
	write.POST("/discounts/deactivate", h.deactivateDiscounts)

	read.GET("/store-products", h.searchStoreProducts)
	read.GET("/store-products/:id", h.getStoreProduct)
	write.POST("/store-products", h.createStoreProduct)
	write.PUT("/store-products/:id", h.updateStoreProduct)
	write.POST("/store-products/activate", h.activateStoreProducts)
	write.POST("/store-products/deactivate", h.deactivateStoreProducts)
	write.POST("/store-products/mass-add", h.massAddStoreProducts)
	write.POST("/store-products/mass-update", h.massUpdateStoreProducts)

	read.GET("/codes/:type", h.listCodes)
	read.GET("/resources/:kind", h.listResources)
	return r
}

// Run 启动服务，ctx 取消时在 shutdownTimeout 内优雅退出
func Run(ctx context.Context, addr string, h http.Handler, shutdownTimeout time.Duration, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

type handler struct {
	Deps
}
