package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spracknow-droid/PO-Progress-Status/internal/logger"
	sessions "github.com/spracknow-droid/PO-Progress-Status/internal/service/store"
)

// GetReport 当前会话最近一次处理结果
// GET /api/report
func (h *Handler) GetReport(c *gin.Context) {
	sid := h.session(c)
	report, err := h.sessions.Report(sid)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "업로드된 파일이 없습니다."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newReportResponse(report, h.cfg.Display.MaxRows))
}

// History 当前会话的上传记录，以及目前可以下载的文件
// GET /api/history?limit=20
func (h *Handler) History(c *gin.Context) {
	sid := h.session(c)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit 값이 올바르지 않습니다."})
		return
	}

	logs, err := h.store.ListUploadLogs(sid, limit)
	if err != nil {
		logger.Errorf("list upload logs for %s: %v", sid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "업로드 기록을 불러오지 못했습니다."})
		return
	}
	artifacts, err := h.store.ListArtifacts(sid)
	if err != nil {
		logger.Errorf("list artifacts for %s: %v", sid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "업로드 기록을 불러오지 못했습니다."})
		return
	}
	downloads := make([]ArtifactResponse, 0, len(artifacts))
	for _, a := range artifacts {
		downloads = append(downloads, newArtifactResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"items": logs, "total": len(logs), "artifacts": downloads})
}
