package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spracknow-droid/PO-Progress-Status/internal/model"
)

// ArtifactFile 一个可下载 xlsx 文件及其内容
type ArtifactFile struct {
	model.ArtifactInfo
	RunID     string
	Data      []byte
	CreatedAt time.Time
}

// SaveArtifacts 用本次处理结果替换会话之前的全部下载文件
func (s *Store) SaveArtifacts(sessionID, runID string, files []ArtifactFile, now time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM artifacts WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear artifacts: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO artifacts (session_id, name, run_id, file_name, sheet_name, label, row_count, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare artifact insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range files {
		if _, err := stmt.Exec(sessionID, string(f.Name), runID, f.FileName, f.SheetName, f.Label, f.RowCount, f.Data, now.Unix()); err != nil {
			return fmt.Errorf("failed to insert artifact %s: %w", f.Name, err)
		}
	}

	return tx.Commit()
}

// GetArtifact 获取会话的一个下载文件，不存在时返回 ErrNotFound
func (s *Store) GetArtifact(sessionID string, name model.ArtifactName) (*ArtifactFile, error) {
	var (
		f       ArtifactFile
		rawName string
		created int64
	)
	err := s.db.QueryRow(`
		SELECT name, run_id, file_name, sheet_name, label, row_count, data, created_at
		FROM artifacts WHERE session_id = ? AND name = ?
	`, sessionID, string(name)).Scan(&rawName, &f.RunID, &f.FileName, &f.SheetName, &f.Label, &f.RowCount, &f.Data, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	f.Name = model.ArtifactName(rawName)
	f.Size = len(f.Data)
	f.CreatedAt = time.Unix(created, 0)
	return &f, nil
}

// ListArtifacts 列出会话的下载文件（不含内容），按写入顺序
func (s *Store) ListArtifacts(sessionID string) ([]model.ArtifactInfo, error) {
	rows, err := s.db.Query(`
		SELECT name, file_name, sheet_name, label, row_count, length(data)
		FROM artifacts WHERE session_id = ? ORDER BY rowid
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	out := []model.ArtifactInfo{}
	for rows.Next() {
		var (
			info    model.ArtifactInfo
			rawName string
		)
		if err := rows.Scan(&rawName, &info.FileName, &info.SheetName, &info.Label, &info.RowCount, &info.Size); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		info.Name = model.ArtifactName(rawName)
		out = append(out, info)
	}
	return out, rows.Err()
}
