package admin

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/muhammadheryan/landing-api/cmd/config"
	"github.com/muhammadheryan/landing-api/constant"
	"github.com/muhammadheryan/landing-api/model"
	redisrepo "github.com/muhammadheryan/landing-api/repository/redis"
	submissionrepo "github.com/muhammadheryan/landing-api/repository/submission"
	txrepo "github.com/muhammadheryan/landing-api/repository/tx"
	utilsContext "github.com/muhammadheryan/landing-api/utils/context"
	"github.com/muhammadheryan/landing-api/utils/errors"
	"github.com/muhammadheryan/landing-api/utils/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AdminApp interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Logout(ctx context.Context, tokenString string) error
	ValidateToken(ctx context.Context, tokenString string) (string, error)
	ListSubmissions(ctx context.Context) ([]model.SubmissionEntity, error)
	GetSubmission(ctx context.Context, id string) (*model.SubmissionEntity, error)
	UpdateStatus(ctx context.Context, id string, status constant.SubmissionStatus) (*model.SubmissionEntity, error)
}

type AdminAppImpl struct {
	config         *config.Config
	txRepo         txrepo.TxRepository
	submissionRepo submissionrepo.SubmissionRepository
	redisRepo      redisrepo.Repository
	now            func() time.Time
}

type Option func(*AdminAppImpl)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *AdminAppImpl) {
		s.now = now
	}
}

func NewAdminApp(config *config.Config, txRepo txrepo.TxRepository, submissionRepo submissionrepo.SubmissionRepository, redisRepo redisrepo.Repository, opts ...Option) AdminApp {
	s := &AdminAppImpl{
		config:         config,
		txRepo:         txRepo,
		submissionRepo: submissionRepo,
		redisRepo:      redisRepo,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AdminAppImpl) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if s.config.Auth.AdminPasswordHash == "" || s.config.Auth.JWTSecret == "" {
		logger.Warn("[Login] admin login attempted but credentials are not configured")
		return nil, errors.SetCustomError(constant.ErrInvalidCredential)
	}

	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.config.Auth.AdminUsername)) != 1 {
		return nil, errors.SetCustomError(constant.ErrInvalidCredential)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.Auth.AdminPasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.SetCustomError(constant.ErrInvalidCredential)
	}

	token, jti, expiresAt, err := s.generateJWT(req.Username)
	if err != nil {
		logger.Error("[Login] err generateJWT", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if s.redisRepo.Available() {
		err = s.redisRepo.SetSession(ctx, jti, req.Username, s.config.Auth.SessionExpTime)
		if err != nil {
			logger.Error("[Login] err SetSession", zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
	}

	return &model.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AdminAppImpl) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return errors.SetCustomError(constant.ErrUnauthorize)
	}
	if !s.redisRepo.Available() {
		return nil
	}
	if err := s.redisRepo.DeleteSession(ctx, claims.ID); err != nil {
		logger.Error("[Logout] err DeleteSession", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

// ValidateToken returns the admin username of a valid token. When Redis is
// configured the session must also still exist there.
func (s *AdminAppImpl) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return "", err
	}

	if !s.redisRepo.Available() {
		return claims.Subject, nil
	}

	username, err := s.redisRepo.GetSession(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("invalid or expired session")
	}
	if username != claims.Subject {
		return "", fmt.Errorf("token does not match admin session")
	}

	return username, nil
}

func (s *AdminAppImpl) ListSubmissions(ctx context.Context) ([]model.SubmissionEntity, error) {
	items, err := s.submissionRepo.List(ctx)
	if err != nil {
		logger.Error("[ListSubmissions] err submissionRepo.List", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return items, nil
}

func (s *AdminAppImpl) GetSubmission(ctx context.Context, id string) (*model.SubmissionEntity, error) {
	item, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("[GetSubmission] err submissionRepo.GetByID", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if item == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}
	return item, nil
}

// UpdateStatus moves a submission to any of the four statuses. There is no
// transition graph; repeating a status only refreshes updated_at.
func (s *AdminAppImpl) UpdateStatus(ctx context.Context, id string, status constant.SubmissionStatus) (*model.SubmissionEntity, error) {
	if !status.IsValid() {
		return nil, errors.SetValidationError([]string{"Status must be one of new, in_progress, resolved, cancelled"})
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[UpdateStatus] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	item, err := s.submissionRepo.GetByIDTx(ctx, tx, id)
	if err != nil {
		logger.Error("[UpdateStatus] get submission", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if item == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	updatedAt := s.now().UTC()
	if err := s.submissionRepo.UpdateStatusTx(ctx, tx, id, status, updatedAt); err != nil {
		logger.Error("[UpdateStatus] update status", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[UpdateStatus] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	admin, _ := utilsContext.GetAdmin(ctx)
	logger.Info("[UpdateStatus] status changed",
		zap.String("id", id),
		zap.String("from", string(item.Status)),
		zap.String("to", string(status)),
		zap.String("admin", admin),
	)

	item.Status = status
	item.UpdatedAt = &updatedAt
	return item, nil
}

func (s *AdminAppImpl) parseToken(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.config.Auth.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("token missing jti")
	}
	return claims, nil
}

// generateJWT creates a JWT token for the admin
func (s *AdminAppImpl) generateJWT(username string) (string, string, time.Time, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return "", "", time.Time{}, err
	}
	now := s.now()
	expiresAt := now.Add(s.config.Auth.JWTExpiration)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        newUUID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Auth.JWTSecret))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, claims.ID, expiresAt, nil
}
