package store

import (
	"fmt"
	"time"

	"github.com/spracknow-droid/PO-Progress-Status/internal/model"
)

// CreateUploadLog 写入一条上传日志，返回日志 ID
func (s *Store) CreateUploadLog(log *model.UploadLog) (int64, error) {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	res, err := s.db.Exec(`
		INSERT INTO upload_logs (
			session_id, run_id, filename, file_size, file_hash, format, mime_type,
			total_rows, total_columns, dropped_columns, status, error_message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.SessionID, log.RunID, log.Filename, log.FileSize, log.FileHash, log.Format, log.MimeType,
		log.TotalRows, log.TotalColumns, log.DroppedColumns, log.Status, log.ErrorMessage, log.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to create upload log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get upload log id: %w", err)
	}
	log.ID = id
	return id, nil
}

// ListUploadLogs 按时间倒序列出会话的上传日志，limit <= 0 时不限制
func (s *Store) ListUploadLogs(sessionID string, limit int) ([]model.UploadLog, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT id, session_id, run_id, filename, file_size, file_hash, format, mime_type,
			total_rows, total_columns, dropped_columns, status, error_message, created_at
		FROM upload_logs WHERE session_id = ?
		ORDER BY id DESC LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upload logs: %w", err)
	}
	defer rows.Close()

	logs := []model.UploadLog{}
	for rows.Next() {
		var (
			l       model.UploadLog
			created int64
		)
		if err := rows.Scan(&l.ID, &l.SessionID, &l.RunID, &l.Filename, &l.FileSize, &l.FileHash, &l.Format, &l.MimeType,
			&l.TotalRows, &l.TotalColumns, &l.DroppedColumns, &l.Status, &l.ErrorMessage, &created); err != nil {
			return nil, fmt.Errorf("failed to scan upload log: %w", err)
		}
		l.CreatedAt = time.Unix(created, 0)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
