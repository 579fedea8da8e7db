package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/spracknow-droid/PO-Progress-Status/internal/logger"
	"github.com/spracknow-droid/PO-Progress-Status/internal/model"
	"github.com/spracknow-droid/PO-Progress-Status/internal/store"
)

// Download 下载当前会话的 xlsx 文件
// GET /api/download/:artifact
func (h *Handler) Download(c *gin.Context) {
	sid := h.session(c)
	name := model.ArtifactName(c.Param("artifact"))

	file, err := h.store.GetArtifact(sid, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "다운로드할 파일이 없습니다. 먼저 엑셀 파일을 업로드하세요."})
			return
		}
		logger.Errorf("get artifact %s for %s: %v", name, sid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "파일을 불러오지 못했습니다."})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(file.Name, file.FileName))
	c.Data(http.StatusOK, model.XLSXContentType, file.Data)
}

// buildContentDisposition 生成附件头：ASCII 兜底文件名 + RFC 5987 UTF-8 文件名
func buildContentDisposition(name model.ArtifactName, fileName string) string {
	return fmt.Sprintf("attachment; filename=\"%s.xlsx\"; filename*=UTF-8''%s", name, url.PathEscape(fileName))
}
