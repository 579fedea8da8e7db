package store

import (
	"fmt"
	"time"
)

// TouchSession 创建会话或刷新其最后访问时间
func (s *Store) TouchSession(id string, now time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, created_at, last_seen) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET last_seen = excluded.last_seen
	`, id, now.Unix(), now.Unix())
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// PurgeSessions 删除 before 之前未访问的会话，关联的日志与文件级联删除
func (s *Store) PurgeSessions(before time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE last_seen < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return res.RowsAffected()
}
