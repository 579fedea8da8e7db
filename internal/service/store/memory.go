package store

import (
	"errors"
	"sync"
	"time"

	"github.com/spracknow-droid/PO-Progress-Status/internal/service/review"
)

// ErrSessionNotFound 会话不存在或尚无处理结果
var ErrSessionNotFound = errors.New("session not found")

// Session 一个浏览器会话的页面状态
// 同一会话中新的上传会替换之前的结果
type Session struct {
	ID       string
	Report   *review.Report
	Error    string
	LastSeen time.Time
}

// MemoryStore 会话状态的内存存储
type MemoryStore struct {
	sessions map[string]*Session
	now      func() time.Time
	mu       sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Get 获取会话快照，并刷新最后访问时间
func (s *MemoryStore) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	sess.LastSeen = s.now()
	return *sess, true
}

// Report 获取会话最近一次的处理结果
func (s *MemoryStore) Report(id string) (*review.Report, error) {
	sess, ok := s.Get(id)
	if !ok || sess.Report == nil {
		return nil, ErrSessionNotFound
	}
	return sess.Report, nil
}

// SetReport 保存处理结果并清除上一次的错误
func (s *MemoryStore) SetReport(id string, report *review.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(id)
	sess.Report = report
	sess.Error = ""
}

// SetError 记录处理失败，之前的结果一并丢弃
func (s *MemoryStore) SetError(id, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(id)
	sess.Report = nil
	sess.Error = message
}

// session 调用方需持有写锁
func (s *MemoryStore) session(id string) *Session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id}
		s.sessions[id] = sess
	}
	sess.LastSeen = s.now()
	return sess
}

// PurgeExpired 清理 before 之前未访问的会话，返回清理数量
func (s *MemoryStore) PurgeExpired(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(before) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Count 会话数量
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
