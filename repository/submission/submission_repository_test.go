package submission_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/muhammadheryan/landing-api/constant"
	"github.com/muhammadheryan/landing-api/model"
	"github.com/muhammadheryan/landing-api/repository/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "name", "email", "phone", "service_type", "message", "status", "created_at", "updated_at"}

func newRepo(t *testing.T) (submission.SubmissionRepository, *sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	conn := sqlx.NewDb(db, "mysql")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = conn.Close()
	})
	return submission.NewSubmissionRepository(conn), conn, mock
}

func TestSQL_Create(t *testing.T) {
	repo, _, mock := newRepo(t)

	email := "jane@example.com"
	created := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	ent := &model.SubmissionEntity{
		ID:          "7c0b4c0e-6a55-4b8f-9a53-7c4f2b0a9f11",
		Name:        "Jane Doe",
		Email:       &email,
		ServiceType: "General Inquiry",
		Message:     "Please call me back about the roof leak.",
		Status:      constant.SubmissionStatusNew,
		CreatedAt:   created,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO submissions (id, name, email, phone, service_type, message, status, created_at)")).
		WithArgs(ent.ID, ent.Name, &email, nil, ent.ServiceType, ent.Message, constant.SubmissionStatusNew, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), ent))
}

func TestSQL_List(t *testing.T) {
	repo, _, mock := newRepo(t)

	newer := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows(columns).
		AddRow("b", "Bob", nil, "555-123-4567", "Roof Repair", "Leak over the garage door.", "new", newer, nil).
		AddRow("a", "Ann", "ann@example.com", nil, "General Inquiry", "Do you service my area?", "resolved", older, newer)

	mock.ExpectQuery(regexp.QuoteMeta("FROM submissions ORDER BY created_at DESC")).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Nil(t, got[0].Email)
	assert.Equal(t, "555-123-4567", got[0].PhoneValue())
	assert.Equal(t, constant.SubmissionStatusResolved, got[1].Status)
	require.NotNil(t, got[1].UpdatedAt)
}

func TestSQL_List_Empty(t *testing.T) {
	repo, _, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM submissions ORDER BY created_at DESC")).WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQL_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM submissions WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQL_UpdateStatusTx(t *testing.T) {
	repo, conn, mock := newRepo(t)
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM submissions WHERE id = ? FOR UPDATE")).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("a", "Ann", "ann@example.com", nil, "General Inquiry", "Do you service my area?", "new", now.Add(-time.Hour), nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE submissions SET status = ?, updated_at = ? WHERE id = ?")).
		WithArgs(constant.SubmissionStatusInProgress, now, "a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := conn.BeginTxx(ctx, nil)
	require.NoError(t, err)

	got, err := repo.GetByIDTx(ctx, tx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NoError(t, repo.UpdateStatusTx(ctx, tx, "a", constant.SubmissionStatusInProgress, now))
	require.NoError(t, tx.Commit())
}
