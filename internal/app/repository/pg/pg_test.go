package pg

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/model"
	"mom-generator/internal/app/repository"
)

var _ repository.MeetingDAO = (*PostgresDB)(nil)

var meetingColumns = []string{
	"id", "user_name", "created_at", "file_name", "audio_key", "audio_duration",
	"language", "speech_language", "provider", "transcript", "translated", "minutes", "steps", "error_message",
}

func newMock(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresDBWithDB(db), mock
}

func TestPostgresDB_Create(t *testing.T) {
	pdb, mock := newMock(t)

	created := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	m := &model.Meeting{
		User:       "admin",
		CreatedAt:  created,
		FileName:   "standup.wav",
		Language:   "English",
		Provider:   "deepgram",
		Transcript: "SPEAKER 0: hi",
		Minutes:    "## Minutes",
		Steps:      []model.Step{{Name: "transcribe", Duration: time.Second}},
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO meetings (user_name, created_at, file_name, audio_key, audio_duration, language, speech_language, provider, transcript, translated, minutes, steps, has_error, error_message) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id")).
		WithArgs("admin", created, "standup.wav", "", 0.0, "English", "", "deepgram", "SPEAKER 0: hi", "", "## Minutes",
			`[{"name":"transcribe","duration":1000000000}]`, 0, "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := pdb.Create(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.Equal(t, 7, m.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_CreateFailure(t *testing.T) {
	pdb, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO meetings").WillReturnError(errors.New("connection reset"))

	_, err := pdb.Create(context.Background(), &model.Meeting{User: "admin", ErrorMessage: "boom"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInsertFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_Get(t *testing.T) {
	pdb, mock := newMock(t)
	created := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM meetings WHERE id = $1 AND deleted_at IS NULL")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(meetingColumns).AddRow(
			3, "admin", created, "a.wav", "", 12.0, "Japanese", "en-US", "deepgram",
			"SPEAKER 0: hi", "田中: やあ", "## MoM", `[{"name":"generate","duration":2000000000}]`, ""))

	m, err := pdb.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Japanese", m.Language)
	assert.Equal(t, "田中: やあ", m.DisplayTranscript())
	require.Len(t, m.Steps, 1)
	assert.Equal(t, 2*time.Second, m.Steps[0].Duration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_GetNotFound(t *testing.T) {
	pdb, mock := newMock(t)

	mock.ExpectQuery("FROM meetings WHERE id").WithArgs(9).WillReturnError(sql.ErrNoRows)

	_, err := pdb.Get(context.Background(), 9)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestPostgresDB_List(t *testing.T) {
	pdb, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE deleted_at IS NULL AND user_name = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3")).
		WithArgs("admin", 10, 20).
		WillReturnRows(sqlmock.NewRows(meetingColumns).
			AddRow(2, "admin", now, "b.wav", "", 1.0, "English", "", "deepgram", "t2", "", "m2", nil, "").
			AddRow(1, "admin", now, "a.wav", "", 1.0, "English", "", "deepgram", "t1", "", "m1", "[]", ""))

	list, err := pdb.List(context.Background(), repository.ListFilter{User: "admin", Limit: 10, Offset: 20})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].ID)
	assert.Nil(t, list[0].Steps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_ListDefaultLimit(t *testing.T) {
	pdb, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WithArgs(repository.DefaultListLimit, 0).
		WillReturnRows(sqlmock.NewRows(meetingColumns))

	list, err := pdb.List(context.Background(), repository.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_Count(t *testing.T) {
	pdb, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM meetings WHERE deleted_at IS NULL AND user_name = $1")).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := pdb.Count(context.Background(), repository.ListFilter{User: "admin", Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_CountFailure(t *testing.T) {
	pdb, mock := newMock(t)

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("connection reset"))

	_, err := pdb.Count(context.Background(), repository.ListFilter{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresDB_SoftDelete(t *testing.T) {
	pdb, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE meetings SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL")).
		WithArgs(sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE meetings").
		WithArgs(sqlmock.AnyArg(), 6).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, pdb.SoftDelete(context.Background(), 5))
	err := pdb.SoftDelete(context.Background(), 6)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectClose()
	assert.NoError(t, NewPostgresDBWithDB(db).Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
