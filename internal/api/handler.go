package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spracknow-droid/PO-Progress-Status/internal/config"
	sessions "github.com/spracknow-droid/PO-Progress-Status/internal/service/store"
	"github.com/spracknow-droid/PO-Progress-Status/internal/store"
)

// Handler HTTP 处理器
type Handler struct {
	store    *store.Store
	sessions *sessions.MemoryStore
	cfg      *config.AppConfig
}

// NewHandler 创建处理器
func NewHandler(st *store.Store, ss *sessions.MemoryStore, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:    st,
		sessions: ss,
		cfg:      cfg,
	}
}

// RegisterRoutes 注册路由；页面模板需由调用方通过 SetHTMLTemplate 设置
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	// 页面
	router.GET("/", h.Index)
	router.POST("/upload", h.UploadForm)

	api := router.Group("/api")
	{
		api.POST("/upload", h.Upload)
		api.GET("/report", h.GetReport)
		api.GET("/download/:artifact", h.Download)
		api.GET("/history", h.History)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
