package model

import "time"

// 上传处理结果状态
const (
	UploadStatusOK       = "ok"       // 三个视图均已生成
	UploadStatusFallback = "fallback" // 缺少必要列，仅提供清洗数据
	UploadStatusFailed   = "failed"   // 文件无法解析
)

// UploadLog 上传日志（会话级）
type UploadLog struct {
	ID             int64     `json:"id"`
	SessionID      string    `json:"sessionId"`
	RunID          string    `json:"runId"`
	Filename       string    `json:"filename"`
	FileSize       int64     `json:"fileSize"`
	FileHash       string    `json:"fileHash"`
	Format         string    `json:"format"`
	MimeType       string    `json:"mimeType"`
	TotalRows      int       `json:"totalRows"`
	TotalColumns   int       `json:"totalColumns"`
	DroppedColumns int       `json:"droppedColumns"`
	Status         string    `json:"status"`
	ErrorMessage   string    `json:"errorMessage"`
	CreatedAt      time.Time `json:"createdAt"`
}
