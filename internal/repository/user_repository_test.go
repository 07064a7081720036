package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/gala-seating/internal/model"
)

func TestUserRepo_CreateAdmin(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("ops@gala.test", sqlmock.AnyArg(), model.RoleAdmin).
		WillReturnResult(sqlmock.NewResult(3, 1))

	id, err := NewUserRepo(db).CreateAdmin(context.Background(), "  OPS@gala.test ", "long-enough", bcrypt.MinCost)
	require.NoError(t, err)
	assert.EqualValues(t, 3, id)
}

func TestUserRepo_CreateAdminDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := NewUserRepo(db).CreateAdmin(context.Background(), "ops@gala.test", "long-enough", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE email = ?")).WithArgs("ops@gala.test").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}).
			AddRow(3, "ops@gala.test", "h", "ADMIN", true, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ?")).WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewUserRepo(db)
	u, err := repo.GetByEmail(context.Background(), "OPS@gala.test")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.True(t, u.IsActive)

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
