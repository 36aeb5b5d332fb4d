package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	domain "github.com/BruksfildServices01/membership-api/internal/domain/enrollment"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

func newRepoWithMock(t *testing.T) (*GormRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormRepository(db), mock
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), models.ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), models.ErrDuplicate)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}), models.ErrDuplicate)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
	assert.NotErrorIs(t, translate(&pgconn.PgError{Code: "23503"}), models.ErrDuplicate)
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	u, err := repo.FindUserByEmail(context.Background(), "ghost@x.com")
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "email", "role"}).
			AddRow(id.String(), "Amina", "amina@x.com", "member"))

	u, err := repo.FindUserByEmail(context.Background(), "amina@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "Amina", u.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByEmail_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(errors.New("db down"))

	_, err := repo.FindUserByEmail(context.Background(), "amina@x.com")
	assert.Error(t, err)
}

func TestGetEnrollment_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetEnrollment(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEnrollments_FiltersAndPreloadsUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	enrollmentID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments" WHERE status = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE status = \$1 ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "status", "user_id", "created_at"}).
			AddRow(enrollmentID.String(), "amina@x.com", "approved", userID.String(), time.Now()))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "email"}).
			AddRow(userID.String(), "Amina", "amina@x.com"))

	list, total, err := repo.ListEnrollments(context.Background(), domain.ListFilter{Status: domain.StatusApproved})
	require.NoError(t, err)

	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].User)
	assert.Equal(t, "Amina", list[0].User.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountEnrollmentsByStatus(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT status, count\(\*\) AS count FROM "enrollments" GROUP BY "status"`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 3).
			AddRow("approved", 2))

	counts, err := repo.CountEnrollmentsByStatus(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, counts[domain.StatusPending])
	assert.EqualValues(t, 2, counts[domain.StatusApproved])
	assert.EqualValues(t, 0, counts[domain.StatusRejected])
}

func TestDeleteEnrollment_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "enrollments" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.DeleteEnrollment(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserCascade(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "enrollments" WHERE user_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "event_registrations" WHERE user_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteUserCascade(context.Background(), uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserCascade_MissingUserRollsBack(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "enrollments"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "event_registrations"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteUserCascade(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlugExists(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "events" WHERE slug = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.SlugExists(context.Background(), "forum", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateUserPassword(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "password_hash"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateUserPassword(context.Background(), uuid.New(), "hash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserPassword_Missing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "password_hash"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateUserPassword(context.Background(), uuid.New(), "hash")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateUserRole_Missing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "role"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateUserRole(context.Background(), uuid.New(), models.RoleAdmin)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateUserProfile_WritesEditableColumns(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "first_name"=\$1,"last_name"=\$2,"phone"=\$3,"photo"=\$4,.*"company_name"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u := &models.User{
		ID:             uuid.New(),
		FirstName:      "Amina",
		LastName:       "Diallo",
		Phone:          "+221770000000",
		CompanyDetails: models.CompanyDetails{Name: "Agro SA"},
	}
	require.NoError(t, repo.UpdateUserProfile(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAuditLogs_HugePageStaysOnLastPage(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "audit_logs" ORDER BY created_at DESC LIMIT .* OFFSET`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "action"}))

	logs, total, err := repo.ListAuditLogs(context.Background(), audit.Filter{Page: 922337203685477582, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Empty(t, logs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
