package admin_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	appadmin "github.com/muhammadheryan/landing-api/application/admin"
	"github.com/muhammadheryan/landing-api/cmd/config"
	"github.com/muhammadheryan/landing-api/constant"
	redismocks "github.com/muhammadheryan/landing-api/mocks/repository/redis"
	submissionmocks "github.com/muhammadheryan/landing-api/mocks/repository/submission"
	txmocks "github.com/muhammadheryan/landing-api/mocks/repository/tx"
	"github.com/muhammadheryan/landing-api/model"
	cerr "github.com/muhammadheryan/landing-api/utils/errors"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func authConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret-key-for-jwt-signing",
			JWTExpiration:     time.Hour,
			SessionExpTime:    time.Hour,
			AdminUsername:     "admin",
			AdminPasswordHash: string(hash),
		},
	}
}

func assertErrCode(t *testing.T, err error, want constant.ErrorType) {
	t.Helper()
	var ce cerr.CustomError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want CustomError", err)
	}
	if ce.ErrorCode() != constant.ErrorTypeCode[want] {
		t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[want])
	}
}

func TestAdminApp_Login(t *testing.T) {
	type fields struct {
		config    *config.Config
		redisRepo *redismocks.RedisRepository
	}
	tests := []struct {
		name     string
		fields   fields
		req      *model.LoginRequest
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name:   "success: session stored in redis",
			fields: fields{config: authConfig(t), redisRepo: redismocks.NewRedisRepository(t)},
			req:    &model.LoginRequest{Username: "admin", Password: "password123"},
			mockCall: func(f fields) {
				f.redisRepo.On("Available").Return(true).Once()
				f.redisRepo.On("SetSession", mock.Anything, mock.AnythingOfType("string"), "admin", time.Hour).Return(nil).Once()
			},
		},
		{
			name:   "success: without redis the token alone is issued",
			fields: fields{config: authConfig(t), redisRepo: redismocks.NewRedisRepository(t)},
			req:    &model.LoginRequest{Username: "admin", Password: "password123"},
			mockCall: func(f fields) {
				f.redisRepo.On("Available").Return(false).Once()
			},
		},
		{
			name:    "error: wrong username",
			fields:  fields{config: authConfig(t), redisRepo: redismocks.NewRedisRepository(t)},
			req:     &model.LoginRequest{Username: "root", Password: "password123"},
			wantErr: true,
			errCode: constant.ErrInvalidCredential,
		},
		{
			name:    "error: wrong password",
			fields:  fields{config: authConfig(t), redisRepo: redismocks.NewRedisRepository(t)},
			req:     &model.LoginRequest{Username: "admin", Password: "wrongpassword"},
			wantErr: true,
			errCode: constant.ErrInvalidCredential,
		},
		{
			name: "error: admin credentials not configured",
			fields: fields{
				config:    &config.Config{Auth: config.AuthConfig{JWTSecret: "x", AdminUsername: "admin"}},
				redisRepo: redismocks.NewRedisRepository(t),
			},
			req:     &model.LoginRequest{Username: "admin", Password: "password123"},
			wantErr: true,
			errCode: constant.ErrInvalidCredential,
		},
		{
			name:   "error: SetSession returns error",
			fields: fields{config: authConfig(t), redisRepo: redismocks.NewRedisRepository(t)},
			req:    &model.LoginRequest{Username: "admin", Password: "password123"},
			mockCall: func(f fields) {
				f.redisRepo.On("Available").Return(true).Once()
				f.redisRepo.On("SetSession", mock.Anything, mock.Anything, "admin", time.Hour).Return(errors.New("redis error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			app := appadmin.NewAdminApp(tt.fields.config, txmocks.NewTxRepository(t), submissionmocks.NewSubmissionRepository(t), tt.fields.redisRepo)

			got, err := app.Login(context.Background(), tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrCode(t, err, tt.errCode)
				return
			}
			if got.Token == "" || !got.Success {
				t.Fatalf("Login() = %+v, want token", got)
			}
			if !got.ExpiresAt.After(time.Now()) {
				t.Fatalf("ExpiresAt = %v, want future", got.ExpiresAt)
			}
		})
	}
}

func login(t *testing.T, cfg *config.Config) string {
	t.Helper()
	redisRepo := redismocks.NewRedisRepository(t)
	redisRepo.On("Available").Return(false).Once()
	app := appadmin.NewAdminApp(cfg, txmocks.NewTxRepository(t), submissionmocks.NewSubmissionRepository(t), redisRepo)
	res, err := app.Login(context.Background(), &model.LoginRequest{Username: "admin", Password: "password123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return res.Token
}

func TestAdminApp_ValidateToken(t *testing.T) {
	cfg := authConfig(t)
	token := login(t, cfg)

	tests := []struct {
		name     string
		token    string
		mockCall func(r *redismocks.RedisRepository)
		want     string
		wantErr  bool
	}{
		{
			name:  "success: session present",
			token: token,
			mockCall: func(r *redismocks.RedisRepository) {
				r.On("Available").Return(true).Once()
				r.On("GetSession", mock.Anything, mock.AnythingOfType("string")).Return("admin", nil).Once()
			},
			want: "admin",
		},
		{
			name:  "success: redis not configured",
			token: token,
			mockCall: func(r *redismocks.RedisRepository) {
				r.On("Available").Return(false).Once()
			},
			want: "admin",
		},
		{
			name:    "error: invalid token format",
			token:   "invalid.token.string",
			wantErr: true,
		},
		{
			name:  "error: session not found in redis",
			token: token,
			mockCall: func(r *redismocks.RedisRepository) {
				r.On("Available").Return(true).Once()
				r.On("GetSession", mock.Anything, mock.AnythingOfType("string")).Return("", errors.New("redis: nil")).Once()
			},
			wantErr: true,
		},
		{
			name:  "error: session belongs to someone else",
			token: token,
			mockCall: func(r *redismocks.RedisRepository) {
				r.On("Available").Return(true).Once()
				r.On("GetSession", mock.Anything, mock.AnythingOfType("string")).Return("intruder", nil).Once()
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			redisRepo := redismocks.NewRedisRepository(t)
			if tt.mockCall != nil {
				tt.mockCall(redisRepo)
			}
			app := appadmin.NewAdminApp(cfg, txmocks.NewTxRepository(t), submissionmocks.NewSubmissionRepository(t), redisRepo)

			got, err := app.ValidateToken(context.Background(), tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("ValidateToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdminApp_Logout(t *testing.T) {
	cfg := authConfig(t)
	token := login(t, cfg)

	redisRepo := redismocks.NewRedisRepository(t)
	redisRepo.On("Available").Return(true).Once()
	redisRepo.On("DeleteSession", mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()
	app := appadmin.NewAdminApp(cfg, txmocks.NewTxRepository(t), submissionmocks.NewSubmissionRepository(t), redisRepo)

	if err := app.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	assertErrCode(t, app.Logout(context.Background(), "garbage"), constant.ErrUnauthorize)
}

func TestAdminApp_ListSubmissions(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	items := []model.SubmissionEntity{
		{ID: "b", Name: "Bob", Status: constant.SubmissionStatusNew, CreatedAt: now},
		{ID: "a", Name: "Ann", Status: constant.SubmissionStatusResolved, CreatedAt: now.Add(-time.Hour)},
	}

	repo := submissionmocks.NewSubmissionRepository(t)
	repo.On("List", mock.Anything).Return(items, nil).Once()
	repo.On("List", mock.Anything).Return(nil, errors.New("db error")).Once()
	app := appadmin.NewAdminApp(&config.Config{}, txmocks.NewTxRepository(t), repo, redismocks.NewRedisRepository(t))

	got, err := app.ListSubmissions(context.Background())
	if err != nil {
		t.Fatalf("ListSubmissions() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("ListSubmissions() = %+v", got)
	}

	_, err = app.ListSubmissions(context.Background())
	assertErrCode(t, err, constant.ErrInternal)
}

func TestAdminApp_GetSubmission(t *testing.T) {
	repo := submissionmocks.NewSubmissionRepository(t)
	repo.On("GetByID", mock.Anything, "a").Return(&model.SubmissionEntity{ID: "a"}, nil).Once()
	repo.On("GetByID", mock.Anything, "missing").Return(nil, nil).Once()
	app := appadmin.NewAdminApp(&config.Config{}, txmocks.NewTxRepository(t), repo, redismocks.NewRedisRepository(t))

	got, err := app.GetSubmission(context.Background(), "a")
	if err != nil || got.ID != "a" {
		t.Fatalf("GetSubmission() = %+v, %v", got, err)
	}
	_, err = app.GetSubmission(context.Background(), "missing")
	assertErrCode(t, err, constant.ErrNotFound)
}

func TestAdminApp_UpdateStatus(t *testing.T) {
	created := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	type fields struct {
		txRepo         *txmocks.TxRepository
		submissionRepo *submissionmocks.SubmissionRepository
	}
	tests := []struct {
		name       string
		id         string
		status     constant.SubmissionStatus
		mockCall   func(f fields)
		wantStatus constant.SubmissionStatus
		wantErr    bool
		errCode    constant.ErrorType
	}{
		{
			name:   "success: any status may follow any other",
			id:     "a",
			status: constant.SubmissionStatusNew,
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.submissionRepo.On("GetByIDTx", mock.Anything, tx, "a").
					Return(&model.SubmissionEntity{ID: "a", Status: constant.SubmissionStatusResolved, CreatedAt: created}, nil).Once()
				f.submissionRepo.On("UpdateStatusTx", mock.Anything, tx, "a", constant.SubmissionStatusNew, now).Return(nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()
			},
			wantStatus: constant.SubmissionStatusNew,
		},
		{
			name:    "error: status outside the closed set",
			id:      "a",
			status:  constant.SubmissionStatus("archived"),
			wantErr: true,
			errCode: constant.ErrValidation,
		},
		{
			name:   "error: unknown id",
			id:     "missing",
			status: constant.SubmissionStatusResolved,
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.submissionRepo.On("GetByIDTx", mock.Anything, tx, "missing").Return(nil, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
		{
			name:   "error: begin tx fails",
			id:     "a",
			status: constant.SubmissionStatusResolved,
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
		{
			name:   "error: update fails and is rolled back",
			id:     "a",
			status: constant.SubmissionStatusCancelled,
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.submissionRepo.On("GetByIDTx", mock.Anything, tx, "a").
					Return(&model.SubmissionEntity{ID: "a", Status: constant.SubmissionStatusNew, CreatedAt: created}, nil).Once()
				f.submissionRepo.On("UpdateStatusTx", mock.Anything, tx, "a", constant.SubmissionStatusCancelled, now).Return(errors.New("deadlock")).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
		{
			name:   "error: commit fails",
			id:     "a",
			status: constant.SubmissionStatusInProgress,
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.submissionRepo.On("GetByIDTx", mock.Anything, tx, "a").
					Return(&model.SubmissionEntity{ID: "a", Status: constant.SubmissionStatusNew, CreatedAt: created}, nil).Once()
				f.submissionRepo.On("UpdateStatusTx", mock.Anything, tx, "a", constant.SubmissionStatusInProgress, now).Return(nil).Once()
				f.txRepo.On("CommitTx", tx).Return(errors.New("commit failed")).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := fields{
				txRepo:         txmocks.NewTxRepository(t),
				submissionRepo: submissionmocks.NewSubmissionRepository(t),
			}
			if tt.mockCall != nil {
				tt.mockCall(f)
			}
			app := appadmin.NewAdminApp(&config.Config{}, f.txRepo, f.submissionRepo, redismocks.NewRedisRepository(t),
				appadmin.WithClock(func() time.Time { return now }))

			got, err := app.UpdateStatus(context.Background(), tt.id, tt.status)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UpdateStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrCode(t, err, tt.errCode)
				return
			}
			if got.Status != tt.wantStatus {
				t.Fatalf("status = %s, want %s", got.Status, tt.wantStatus)
			}
			if got.UpdatedAt == nil || !got.UpdatedAt.Equal(now) {
				t.Fatalf("updated_at = %v, want %v", got.UpdatedAt, now)
			}
			if !got.CreatedAt.Equal(created) {
				t.Fatalf("created_at changed to %v", got.CreatedAt)
			}
		})
	}
}

func TestAdminApp_UpdateStatus_Idempotent(t *testing.T) {
	created := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	clock := created
	tick := func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	txRepo := txmocks.NewTxRepository(t)
	repo := submissionmocks.NewSubmissionRepository(t)
	tx := &sqlx.Tx{}
	stored := &model.SubmissionEntity{ID: "a", Status: constant.SubmissionStatusNew, CreatedAt: created}

	txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Twice()
	txRepo.On("CommitTx", tx).Return(nil).Twice()
	repo.On("GetByIDTx", mock.Anything, tx, "a").Return(func(context.Context, *sqlx.Tx, string) (*model.SubmissionEntity, error) {
		cp := *stored
		return &cp, nil
	}).Twice()
	repo.On("UpdateStatusTx", mock.Anything, tx, "a", constant.SubmissionStatusResolved, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			stored.Status = args.Get(3).(constant.SubmissionStatus)
			ts := args.Get(4).(time.Time)
			stored.UpdatedAt = &ts
		}).
		Return(nil).Twice()

	app := appadmin.NewAdminApp(&config.Config{}, txRepo, repo, redismocks.NewRedisRepository(t), appadmin.WithClock(tick))

	first, err := app.UpdateStatus(context.Background(), "a", constant.SubmissionStatusResolved)
	if err != nil {
		t.Fatalf("first UpdateStatus() error = %v", err)
	}
	second, err := app.UpdateStatus(context.Background(), "a", constant.SubmissionStatusResolved)
	if err != nil {
		t.Fatalf("second UpdateStatus() error = %v", err)
	}

	if first.Status != second.Status || stored.Status != constant.SubmissionStatusResolved {
		t.Fatalf("status changed between identical updates: %s -> %s", first.Status, second.Status)
	}
	if !second.UpdatedAt.After(*first.UpdatedAt) {
		t.Fatalf("updated_at did not advance: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
}
