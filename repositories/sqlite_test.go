package repositories

import (
	"log/slog"
	"path/filepath"
	"testing"

	"msg-kernel/domain"
	"msg-kernel/domain/component"
	errs "msg-kernel/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "storage.sqlite3"), component.Builtins(), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func Test_SQLite_Save_Load_Round_Trip(t *testing.T) {
	req := require.New(t)
	repo := newSQLiteRepo(t)
	thread := richThread(t)

	req.NoError(repo.SaveThread(thread))
	restored, err := repo.LoadThread(thread.ID)
	req.NoError(err)

	req.Equal(thread.ID, restored.ID)
	req.Equal(thread.Participants, restored.Participants)
	req.Equal(thread.Messages, restored.Messages)
}

func Test_SQLite_Resave_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	repo := newSQLiteRepo(t)
	thread := gameNightThread(t)

	req.NoError(repo.SaveThread(thread))
	req.NoError(repo.SaveThread(thread))
	req.NoError(thread.Append(domain.NewMessage(alice, bob, "Found one!")))
	req.NoError(repo.SaveThread(thread))

	restored, err := repo.LoadThread(thread.ID)
	req.NoError(err)
	req.Len(restored.Messages, 3)
	req.Equal(thread.Messages, restored.Messages)
}

func Test_SQLite_Keeps_Threads_Apart(t *testing.T) {
	req := require.New(t)
	repo := newSQLiteRepo(t)
	first := gameNightThread(t)
	second := richThread(t)

	req.NoError(repo.SaveThread(first))
	req.NoError(repo.SaveThread(second))

	restored, err := repo.LoadThread(first.ID)
	req.NoError(err)
	req.Len(restored.Messages, 2)
	req.Equal(first.Messages, restored.Messages)
}

func Test_SQLite_Unknown_ID_Is_Not_Found(t *testing.T) {
	req := require.New(t)
	repo := newSQLiteRepo(t)

	_, err := repo.LoadThread(uuid.New())
	req.ErrorIs(err, errs.ErrThreadNotFound)
}
