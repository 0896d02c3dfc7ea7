package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T, clock *fakeClock) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db, WithClock(clock.Now)), mock
}

func TestPostgres_Insert(t *testing.T) {
	clock := newFakeClock()
	s, mock := newMockPostgres(t, clock)

	mock.ExpectQuery("INSERT INTO submissions").
		WithArgs(`{"lang":"en"}`, "tok", "material-blue", clock.Now()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := s.Insert(context.Background(), []byte(`{"lang":"en"}`), "tok", "material-blue")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_InsertFailure(t *testing.T) {
	s, mock := newMockPostgres(t, newFakeClock())

	mock.ExpectQuery("INSERT INTO submissions").
		WillReturnError(errors.New("connection reset by peer"))

	_, err := s.Insert(context.Background(), []byte(`{}`), "tok", "material-blue")
	require.Error(t, err)

	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "insert", ue.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Lookup(t *testing.T) {
	clock := newFakeClock()
	s, mock := newMockPostgres(t, clock)

	mock.ExpectQuery("SELECT id, json, token, template, created_at FROM submissions").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "json", "token", "template", "created_at"}).
			AddRow(int64(7), `{"lang":"de"}`, "tok", "material-blue", clock.Now()))

	sub, err := s.Lookup(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sub.ID)
	assert.Equal(t, `{"lang":"de"}`, string(sub.RawJSON))
	assert.Equal(t, "tok", sub.Token)
	assert.Equal(t, "material-blue", sub.TemplateID)
	assert.True(t, clock.Now().Equal(sub.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LookupNotFound(t *testing.T) {
	s, mock := newMockPostgres(t, newFakeClock())

	mock.ExpectQuery("SELECT id, json, token, template, created_at FROM submissions").
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.Lookup(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LookupFailure(t *testing.T) {
	s, mock := newMockPostgres(t, newFakeClock())

	mock.ExpectQuery("SELECT id, json, token, template, created_at FROM submissions").
		WillReturnError(errors.New("too many connections"))

	_, err := s.Lookup(context.Background(), 9)
	var ue *UnavailableError
	assert.ErrorAs(t, err, &ue)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPostgres_Sweep(t *testing.T) {
	clock := newFakeClock()
	s, mock := newMockPostgres(t, clock)

	mock.ExpectExec("DELETE FROM submissions WHERE created_at <").
		WithArgs(clock.Now().Add(-10 * time.Minute)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := s.Sweep(context.Background(), 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SweepFailure(t *testing.T) {
	s, mock := newMockPostgres(t, newFakeClock())

	mock.ExpectExec("DELETE FROM submissions").
		WillReturnError(errors.New("disk full"))

	_, err := s.Sweep(context.Background(), time.Minute)
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "sweep", ue.Op)
}
