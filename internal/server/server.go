package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spracknow-droid/PO-Progress-Status/internal/api"
	"github.com/spracknow-droid/PO-Progress-Status/internal/config"
	"github.com/spracknow-droid/PO-Progress-Status/internal/logger"
	sessions "github.com/spracknow-droid/PO-Progress-Status/internal/service/store"
	"github.com/spracknow-droid/PO-Progress-Status/internal/store"
)

// Server HTTP服务器
type Server struct {
	cfg      *config.AppConfig
	router   *gin.Engine
	store    *store.Store
	sessions *sessions.MemoryStore

	httpServer *http.Server
	stopOnce   sync.Once
	stop       chan struct{}
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	sqliteStore, err := store.New(cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		router:   gin.New(),
		store:    sqliteStore,
		sessions: sessions.NewMemoryStore(),
		stop:     make(chan struct{}),
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// setupRoutes 设置中间件与路由
func (s *Server) setupRoutes() {
	s.router.Use(requestLogger(), gin.Recovery(), cors())
	s.router.MaxMultipartMemory = s.cfg.Upload.MaxBytes
	s.router.SetHTMLTemplate(api.Templates())

	api.NewHandler(s.store, s.sessions, s.cfg).RegisterRoutes(s.router)
}

// Handler 返回 HTTP 处理器（测试用）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器并阻塞，直到 Shutdown 被调用或监听失败
func (s *Server) Run(addr string) error {
	s.httpServer.Addr = addr
	go s.janitor(s.cfg.Session.SweepInterval.Std())

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown 停止接收请求，等待处理中的请求结束后关闭存储
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })

	err := s.httpServer.Shutdown(ctx)
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// janitor 定期清理过期会话
func (s *Server) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

// sweep 清理 now - ttl 之前未访问的会话（内存与 SQLite）
func (s *Server) sweep(now time.Time) {
	before := now.Add(-s.cfg.Session.TTL.Std())

	n := s.sessions.PurgeExpired(before)
	m, err := s.store.PurgeSessions(before)
	if err != nil {
		logger.Errorf("purge sessions: %v", err)
		return
	}
	if n > 0 || m > 0 {
		logger.Infof("purged expired sessions: memory=%d sqlite=%d", n, m)
	}
}
