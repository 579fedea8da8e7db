package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/spracknow-droid/PO-Progress-Status/internal/logger"
	"github.com/spracknow-droid/PO-Progress-Status/internal/model"
	"github.com/spracknow-droid/PO-Progress-Status/internal/service/excel"
	"github.com/spracknow-droid/PO-Progress-Status/internal/service/review"
	"github.com/spracknow-droid/PO-Progress-Status/internal/store"
)

// uploadError 上传失败：HTTP 状态码 + 页面展示信息
type uploadError struct {
	Status  int
	Message string
}

func (e *uploadError) Error() string {
	return e.Message
}

// UploadForm 页面表单上传，处理后重定向回首页
// POST /upload
func (h *Handler) UploadForm(c *gin.Context) {
	h.process(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// Upload 上传并返回处理结果
// POST /api/upload
func (h *Handler) Upload(c *gin.Context) {
	report, uerr := h.process(c)
	if uerr != nil {
		c.JSON(uerr.Status, gin.H{"error": uerr.Message})
		return
	}
	c.JSON(http.StatusOK, newReportResponse(report, h.cfg.Display.MaxRows))
}

// process 执行一次完整上传；结果（或错误）写入会话
func (h *Handler) process(c *gin.Context) (*review.Report, *uploadError) {
	sid := h.session(c)
	entry := &model.UploadLog{SessionID: sid, CreatedAt: time.Now()}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Upload.MaxBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, h.fail(entry, h.formError(err), err)
	}
	entry.Filename = fileHeader.Filename
	log := logger.With(map[string]interface{}{"session": sid, "file": fileHeader.Filename})

	f, err := fileHeader.Open()
	if err != nil {
		return nil, h.fail(entry, &uploadError{Status: http.StatusBadRequest, Message: review.UserMessage(err)}, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, h.fail(entry, &uploadError{Status: http.StatusBadRequest, Message: review.UserMessage(err)}, err)
	}

	sum := sha256.Sum256(data)
	entry.FileSize = int64(len(data))
	entry.FileHash = hex.EncodeToString(sum[:])
	_, entry.MimeType = excel.DetectFormat(data)

	started := time.Now()
	report, err := review.RunBytes(fileHeader.Filename, data)
	if err != nil {
		status := http.StatusInternalServerError
		var pe *review.ParseError
		if errors.As(err, &pe) {
			status = http.StatusBadRequest
			log.Warn().Err(err).Str("mime", entry.MimeType).Msg("upload rejected")
		} else {
			log.Error().Err(err).Msg("pipeline failed")
		}
		return nil, h.fail(entry, &uploadError{Status: status, Message: review.UserMessage(err)}, err)
	}

	if err := h.saveArtifacts(sid, report); err != nil {
		log.Error().Err(err).Msg("save artifacts failed")
		return nil, h.fail(entry, &uploadError{Status: http.StatusInternalServerError, Message: review.UserMessage(err)}, err)
	}
	h.sessions.SetReport(sid, report)

	entry.RunID = report.RunID
	entry.Format = string(report.Format)
	entry.TotalRows = report.InputRows
	entry.TotalColumns = report.InputColumns
	entry.DroppedColumns = len(report.DroppedColumns)
	entry.Status = report.Status()
	if report.Mismatch != nil {
		entry.ErrorMessage = report.Mismatch.Error()
	}
	h.writeLog(entry)

	log.Info().
		Str("run", report.RunID).
		Str("status", report.Status()).
		Int("rows", report.InputRows).
		Int("artifacts", len(report.Artifacts)).
		Dur("took", time.Since(started)).
		Msg("upload processed")
	return report, nil
}

// fail 上传失败：会话只保留错误信息，清空之前的下载文件，并记录失败日志
func (h *Handler) fail(entry *model.UploadLog, uerr *uploadError, cause error) *uploadError {
	h.sessions.SetError(entry.SessionID, uerr.Message)
	if err := h.store.SaveArtifacts(entry.SessionID, "", nil, time.Now()); err != nil {
		logger.Warnf("clear artifacts for %s: %v", entry.SessionID, err)
	}
	entry.Status = model.UploadStatusFailed
	entry.ErrorMessage = cause.Error()
	h.writeLog(entry)
	return uerr
}

func (h *Handler) formError(err error) *uploadError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &uploadError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("파일이 너무 큽니다. 최대 %s까지 업로드할 수 있습니다.", humanize.IBytes(uint64(h.cfg.Upload.MaxBytes))),
		}
	}
	return &uploadError{Status: http.StatusBadRequest, Message: "업로드할 엑셀 파일을 선택하세요."}
}

func (h *Handler) saveArtifacts(sid string, report *review.Report) error {
	files := make([]store.ArtifactFile, 0, len(report.Artifacts))
	for _, a := range report.Artifacts {
		files = append(files, store.ArtifactFile{ArtifactInfo: a.ArtifactInfo, RunID: report.RunID, Data: a.Data})
	}
	return h.store.SaveArtifacts(sid, report.RunID, files, time.Now())
}

func (h *Handler) writeLog(entry *model.UploadLog) {
	if _, err := h.store.CreateUploadLog(entry); err != nil {
		logger.Warnf("write upload log: %v", err)
	}
}
