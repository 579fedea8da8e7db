package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spracknow-droid/PO-Progress-Status/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleFiles() []ArtifactFile {
	return []ArtifactFile{
		{ArtifactInfo: model.ArtifactInfo{Name: model.ArtifactCleaned, FileName: model.CleanedFileName, SheetName: "Sheet1", Label: "cleaned", RowCount: 3}, Data: []byte("aaa")},
		{ArtifactInfo: model.ArtifactInfo{Name: model.ArtifactFixedAssets, FileName: "고정자산_필터링_데이터.xlsx", SheetName: "고정자산", Label: "fixed", RowCount: 1}, Data: []byte("bb")},
	}
}

func TestSaveAndGetArtifacts(t *testing.T) {
	s := newTestStore(t)
	now := time.Unix(1700000000, 0)
	require.NoError(t, s.TouchSession("sess-1", now))
	require.NoError(t, s.SaveArtifacts("sess-1", "run-1", sampleFiles(), now))

	got, err := s.GetArtifact("sess-1", model.ArtifactFixedAssets)
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "고정자산", got.SheetName)
	assert.Equal(t, []byte("bb"), got.Data)
	assert.Equal(t, 2, got.Size)
	assert.Equal(t, now.Unix(), got.CreatedAt.Unix())

	list, err := s.ListArtifacts("sess-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, model.ArtifactCleaned, list[0].Name)
	assert.Equal(t, 3, list[0].Size)
	assert.Equal(t, model.ArtifactFixedAssets, list[1].Name)
}

func TestSaveArtifacts_ReplacesPreviousRun(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	require.NoError(t, s.TouchSession("sess-1", now))
	require.NoError(t, s.SaveArtifacts("sess-1", "run-1", sampleFiles(), now))

	second := []ArtifactFile{
		{ArtifactInfo: model.ArtifactInfo{Name: model.ArtifactCleaned, FileName: model.CleanedFileName, SheetName: "Sheet1"}, Data: []byte("new")},
	}
	require.NoError(t, s.SaveArtifacts("sess-1", "run-2", second, now))

	_, err := s.GetArtifact("sess-1", model.ArtifactFixedAssets)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetArtifact("sess-1", model.ArtifactCleaned)
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.RunID)
	assert.Equal(t, []byte("new"), got.Data)
}

func TestGetArtifact_IsolatedBySession(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	require.NoError(t, s.TouchSession("sess-1", now))
	require.NoError(t, s.TouchSession("sess-2", now))
	require.NoError(t, s.SaveArtifacts("sess-1", "run-1", sampleFiles(), now))

	_, err := s.GetArtifact("sess-2", model.ArtifactCleaned)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.ListArtifacts("sess-2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUploadLogs(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.TouchSession("sess-1", time.Now()))

	for i, status := range []string{model.UploadStatusOK, model.UploadStatusFailed, model.UploadStatusFallback} {
		id, err := s.CreateUploadLog(&model.UploadLog{
			SessionID: "sess-1",
			Filename:  "orders.xlsx",
			FileSize:  int64(100 + i),
			MimeType:  "application/vnd.ms-excel",
			Status:    status,
			CreatedAt: time.Unix(int64(1700000000+i), 0),
		})
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	logs, err := s.ListUploadLogs("sess-1", 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, model.UploadStatusFallback, logs[0].Status)
	assert.Equal(t, model.UploadStatusFailed, logs[1].Status)
	assert.Equal(t, int64(1700000002), logs[0].CreatedAt.Unix())
	assert.Equal(t, "application/vnd.ms-excel", logs[0].MimeType)

	all, err := s.ListUploadLogs("sess-1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCreateUploadLog_RequiresSession(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateUploadLog(&model.UploadLog{SessionID: "missing", Filename: "x.xlsx", Status: model.UploadStatusOK})
	assert.Error(t, err)
}

func TestPurgeSessions_Cascades(t *testing.T) {
	s := newTestStore(t)
	old := time.Unix(1700000000, 0)
	fresh := old.Add(3 * time.Hour)
	require.NoError(t, s.TouchSession("old", old))
	require.NoError(t, s.TouchSession("fresh", fresh))
	require.NoError(t, s.SaveArtifacts("old", "run-1", sampleFiles(), old))
	_, err := s.CreateUploadLog(&model.UploadLog{SessionID: "old", Filename: "x.xlsx", Status: model.UploadStatusOK})
	require.NoError(t, err)

	n, err := s.PurgeSessions(old.Add(2 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := s.ListArtifacts("old")
	require.NoError(t, err)
	assert.Empty(t, list)
	logs, err := s.ListUploadLogs("old", 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestTouchSession_KeepsSessionAlive(t *testing.T) {
	s := newTestStore(t)
	start := time.Unix(1700000000, 0)
	require.NoError(t, s.TouchSession("sess-1", start))
	require.NoError(t, s.TouchSession("sess-1", start.Add(time.Hour)))

	n, err := s.PurgeSessions(start.Add(30 * time.Minute))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNew_FileDSNCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "postatus.db")
	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.TouchSession("sess-1", time.Now()))
	require.NoError(t, s.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()
	n, err := reopened.PurgeSessions(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNew_AddsMissingUploadLogColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE sessions (id TEXT PRIMARY KEY, created_at INTEGER NOT NULL, last_seen INTEGER NOT NULL);
		CREATE TABLE upload_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			run_id TEXT NOT NULL DEFAULT '',
			filename TEXT NOT NULL,
			file_size INTEGER NOT NULL DEFAULT 0,
			file_hash TEXT NOT NULL DEFAULT '',
			format TEXT NOT NULL DEFAULT '',
			total_rows INTEGER NOT NULL DEFAULT 0,
			total_columns INTEGER NOT NULL DEFAULT 0,
			dropped_columns INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		);
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := New(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.TouchSession("sess-1", time.Now()))
	_, err = s.CreateUploadLog(&model.UploadLog{SessionID: "sess-1", Filename: "a.xls", MimeType: "application/x-ole-storage", Status: model.UploadStatusFailed})
	require.NoError(t, err)

	logs, err := s.ListUploadLogs("sess-1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "application/x-ole-storage", logs[0].MimeType)
}
