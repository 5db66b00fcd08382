package repositories

import (
	"log/slog"
	"testing"

	"msg-kernel/domain"
	"msg-kernel/domain/component"
	errs "msg-kernel/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newJSONRepo(t *testing.T) JSONFileRepository {
	t.Helper()
	repo, err := NewJSONFileRepository(t.TempDir(), component.Builtins(), slog.Default())
	require.NoError(t, err)
	return repo
}

func Test_JSONFile_Save_Load_Round_Trip(t *testing.T) {
	req := require.New(t)
	repo := newJSONRepo(t)
	thread := gameNightThread(t)

	req.NoError(repo.SaveThread(thread))
	restored, err := repo.LoadThread(thread.ID)
	req.NoError(err)

	req.Equal(thread.ID, restored.ID)
	req.Equal(thread.Participants, restored.Participants)
	req.Len(restored.Messages, 2)
	req.Equal(thread.Messages, restored.Messages)

	question := restored.Messages[0].Components[0].(*component.BinaryQuestion)
	req.Equal("Do you have tickets?", question.Question)
	req.Nil(question.Answer)
}

func Test_JSONFile_Save_Overwrites_Wholesale(t *testing.T) {
	req := require.New(t)
	repo := newJSONRepo(t)
	thread := gameNightThread(t)

	req.NoError(repo.SaveThread(thread))
	req.NoError(thread.Append(domain.NewMessage(alice, bob, "Found one!")))
	req.NoError(repo.SaveThread(thread))

	restored, err := repo.LoadThread(thread.ID)
	req.NoError(err)
	req.Len(restored.Messages, 3)
}

func Test_JSONFile_Unknown_ID_Is_Not_Found(t *testing.T) {
	req := require.New(t)
	repo := newJSONRepo(t)

	_, err := repo.LoadThread(uuid.New())
	req.ErrorIs(err, errs.ErrThreadNotFound)
}

func Test_JSONFile_Rejects_Empty_Thread(t *testing.T) {
	req := require.New(t)
	repo := newJSONRepo(t)

	err := repo.SaveThread(domain.NewThread(alice, bob))
	req.ErrorIs(err, errs.ErrEmptyThread)
}
