package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelviewer/internal/repository"
)

func TestTransactor_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM settings WHERE media_id = ?").
			WithArgs("m-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM media WHERE id = ?").
			WithArgs("m-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = NewTransactor(db).WithinTx(ctx, func(r repository.Repositories) error {
			if err := r.Settings.DeleteByMediaID(ctx, "m-1"); err != nil {
				return err
			}
			return r.Media.Delete(ctx, "m-1")
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM settings WHERE media_id = ?").
			WithArgs("m-1").
			WillReturnError(errors.New("lock timeout"))
		mock.ExpectRollback()

		err = NewTransactor(db).WithinTx(ctx, func(r repository.Repositories) error {
			return r.Settings.DeleteByMediaID(ctx, "m-1")
		})

		assert.EqualError(t, err, "lock timeout")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("no conn"))

		err = NewTransactor(db).WithinTx(ctx, func(r repository.Repositories) error {
			t.Fatal("fn must not run")
			return nil
		})

		assert.ErrorContains(t, err, "begin tx: no conn")
	})
}
