package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/config"
)

// Handler 价目表 API 处理器
type Handler struct {
	pipeline config.PipelineConfig
}

// NewHandler 创建处理器
func NewHandler(pipeline config.PipelineConfig) *Handler {
	return &Handler{
		pipeline: pipeline,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)

	// 上传价目表，返回全量 JSON / 客户 xlsx
	router.POST("/pricelist/full", h.FullExport)
	router.POST("/pricelist/client", h.ClientExport)
}
