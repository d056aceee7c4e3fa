package submission

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/muhammadheryan/landing-api/constant"
	"github.com/muhammadheryan/landing-api/model"
)

type SQL struct {
	conn *sqlx.DB
}

type SubmissionRepository interface {
	Create(ctx context.Context, data *model.SubmissionEntity) error
	List(ctx context.Context) ([]model.SubmissionEntity, error)
	GetByID(ctx context.Context, id string) (*model.SubmissionEntity, error)
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, id string) (*model.SubmissionEntity, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id string, status constant.SubmissionStatus, updatedAt time.Time) error
}

func NewSubmissionRepository(conn *sqlx.DB) SubmissionRepository {
	return &SQL{conn: conn}
}

const (
	insertSubmissionQuery = `INSERT INTO submissions (id, name, email, phone, service_type, message, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	selectSubmissionBase  = `SELECT id, name, email, phone, service_type, message, status, created_at, updated_at FROM submissions`
	listSubmissionsQuery  = selectSubmissionBase + ` ORDER BY created_at DESC, id DESC`
	getSubmissionQuery    = selectSubmissionBase + ` WHERE id = ?`
	lockSubmissionQuery   = getSubmissionQuery + ` FOR UPDATE`
	updateStatusQuery     = `UPDATE submissions SET status = ?, updated_at = ? WHERE id = ?`
)

func (s *SQL) Create(ctx context.Context, data *model.SubmissionEntity) error {
	_, err := s.conn.ExecContext(ctx, insertSubmissionQuery,
		data.ID, data.Name, data.Email, data.Phone, data.ServiceType, data.Message, data.Status, data.CreatedAt)
	return err
}

// List returns every submission, newest first.
func (s *SQL) List(ctx context.Context) ([]model.SubmissionEntity, error) {
	items := make([]model.SubmissionEntity, 0)
	if err := s.conn.SelectContext(ctx, &items, listSubmissionsQuery); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID returns nil, nil when no row matches.
func (s *SQL) GetByID(ctx context.Context, id string) (*model.SubmissionEntity, error) {
	return getByID(ctx, s.conn, getSubmissionQuery, id)
}

// GetByIDTx reads and locks the row until tx ends.
func (s *SQL) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id string) (*model.SubmissionEntity, error) {
	return getByID(ctx, tx, lockSubmissionQuery, id)
}

func (s *SQL) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id string, status constant.SubmissionStatus, updatedAt time.Time) error {
	_, err := tx.ExecContext(ctx, updateStatusQuery, status, updatedAt, id)
	return err
}

func getByID(ctx context.Context, q sqlx.QueryerContext, query, id string) (*model.SubmissionEntity, error) {
	var entity model.SubmissionEntity
	if err := q.QueryRowxContext(ctx, query, id).StructScan(&entity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}
