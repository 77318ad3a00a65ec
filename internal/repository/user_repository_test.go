package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateNormalizesAndHashes(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Dana", "dana", "dana@seatflow.local", sqlmock.AnyArg(), "batch1").
		WillReturnResult(sqlmock.NewResult(11, 1))

	id, err := repo.Create(context.Background(), "Dana", " Dana ", "Dana@Seatflow.LOCAL", "Password@123", "batch1", 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'dana' for key 'uq_users_username'"})

	_, err = repo.Create(context.Background(), "", "dana", "dana@seatflow.local", "pw", "batch2", 4)
	assert.ErrorIs(t, err, ErrUserExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectQuery(`SELECT id,name,username,email,password_hash,batch_type,created_at,updated_at FROM users WHERE email=`).
		WithArgs("ghost@seatflow.local").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "email", "password_hash", "batch_type", "created_at", "updated_at"}))

	_, err = repo.GetByEmail(context.Background(), "ghost@seatflow.local")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
