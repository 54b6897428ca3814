package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSQL(t *testing.T) (*SQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSQL(db), mock
}

func TestSQL_Get(t *testing.T) {
	query := regexp.QuoteMeta("SELECT value FROM storefront_kv WHERE key = $1")

	t.Run("found", func(t *testing.T) {
		s, mock := newMockSQL(t)
		mock.ExpectQuery(query).WithArgs("cart").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"items":[]}`)))

		got, err := s.Get(context.Background(), "cart")
		require.NoError(t, err)
		assert.Equal(t, `{"items":[]}`, string(got))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing key maps to ErrNotFound", func(t *testing.T) {
		s, mock := newMockSQL(t)
		mock.ExpectQuery(query).WithArgs("cart").WillReturnError(sql.ErrNoRows)

		_, err := s.Get(context.Background(), "cart")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		s, mock := newMockSQL(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery(query).WithArgs("cart").WillReturnError(boom)

		_, err := s.Get(context.Background(), "cart")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestSQL_Set(t *testing.T) {
	s, mock := newMockSQL(t)
	mock.ExpectExec("INSERT INTO storefront_kv").
		WithArgs("token", []byte("abc")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(context.Background(), "token", []byte("abc")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_Delete(t *testing.T) {
	s, mock := newMockSQL(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM storefront_kv WHERE key = $1")).
		WithArgs("token").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Delete(context.Background(), "token"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
