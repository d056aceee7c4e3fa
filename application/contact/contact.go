package contact

import (
	"context"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadheryan/landing-api/cmd/config"
	"github.com/muhammadheryan/landing-api/constant"
	"github.com/muhammadheryan/landing-api/model"
	submissionrepo "github.com/muhammadheryan/landing-api/repository/submission"
	"github.com/muhammadheryan/landing-api/utils/errors"
	"github.com/muhammadheryan/landing-api/utils/logger"
	"github.com/muhammadheryan/landing-api/utils/ratelimit"
	validatorx "github.com/muhammadheryan/landing-api/utils/validator"
	"go.uber.org/zap"
)

type ContactApp interface {
	Submit(ctx context.Context, clientID string, req *model.ContactRequest) (*model.ContactResponse, error)
	// Allow runs the rate-limit check on its own, before the body is parsed.
	Allow(ctx context.Context, clientID string) error
}

// Notifier forwards a stored submission to the site operator.
type Notifier interface {
	Notify(ctx context.Context, sub *model.SubmissionEntity) error
}

type contactAppImpl struct {
	config         *config.Config
	limiter        ratelimit.Limiter
	submissionRepo submissionrepo.SubmissionRepository
	notifier       Notifier
	now            func() time.Time
	newID          func() (uuid.UUID, error)
}

type Option func(*contactAppImpl)

func WithClock(now func() time.Time) Option {
	return func(s *contactAppImpl) {
		s.now = now
	}
}

func WithIDGenerator(newID func() (uuid.UUID, error)) Option {
	return func(s *contactAppImpl) {
		s.newID = newID
	}
}

// NewContactApp wires the intake pipeline. A nil notifier disables notifications.
func NewContactApp(config *config.Config, limiter ratelimit.Limiter, submissionRepo submissionrepo.SubmissionRepository, notifier Notifier, opts ...Option) ContactApp {
	s := &contactAppImpl{
		config:         config,
		limiter:        limiter,
		submissionRepo: submissionRepo,
		notifier:       notifier,
		now:            time.Now,
		newID:          uuid.NewRandom,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *contactAppImpl) Allow(ctx context.Context, clientID string) error {
	decision, err := s.limiter.Allow(ctx, clientID)
	if err != nil {
		logger.Error("[Allow] err limiter.Allow", zap.String("client", clientID), zap.String("error", err.Error()))
		return errors.SetInternalError(s.config.Contact.FallbackEmail)
	}
	if !decision.Allowed {
		logger.Warn("[Allow] rate limited", zap.String("client", clientID))
		return errors.SetRateLimitError(decision.RetryAfter)
	}
	return nil
}

// Submit validates req and, when valid, stores and forwards it. Storage and
// notification failures are logged only; once validation passes the visitor
// always gets the acknowledgment.
func (s *contactAppImpl) Submit(ctx context.Context, clientID string, req *model.ContactRequest) (*model.ContactResponse, error) {
	if req == nil {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	trimmed := model.ContactRequest{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		ServiceType: strings.TrimSpace(req.ServiceType),
		Message:     strings.TrimSpace(req.Message),
	}

	if err := validatorx.ValidateStruct(&trimmed); err != nil {
		details := validatorx.Messages(err)
		logger.Info("[Submit] validation failed", zap.String("client", clientID), zap.Strings("details", details))
		return nil, errors.SetValidationError(details)
	}

	id, err := s.newID()
	if err != nil {
		logger.Error("[Submit] err newID", zap.String("error", err.Error()))
		return nil, errors.SetInternalError(s.config.Contact.FallbackEmail)
	}

	sub := &model.SubmissionEntity{
		ID:          id.String(),
		Name:        html.EscapeString(trimmed.Name),
		ServiceType: trimmed.ServiceType,
		Message:     html.EscapeString(trimmed.Message),
		Status:      constant.SubmissionStatusNew,
		CreatedAt:   s.now().UTC(),
	}
	if trimmed.Email != "" {
		email := trimmed.Email
		sub.Email = &email
	}
	if trimmed.Phone != "" {
		phone := html.EscapeString(trimmed.Phone)
		sub.Phone = &phone
	}

	s.dispatch(ctx, sub)

	return &model.ContactResponse{
		Success: true,
		Message: constant.ContactAcknowledgment,
	}, nil
}

// dispatch runs the store write and the notification side by side. Each gets
// its own deadline and survives the caller going away.
func (s *contactAppImpl) dispatch(ctx context.Context, sub *model.SubmissionEntity) {
	base := context.WithoutCancel(ctx)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		storeCtx, cancel := context.WithTimeout(base, s.config.Contact.StoreTimeout)
		defer cancel()
		if err := s.submissionRepo.Create(storeCtx, sub); err != nil {
			logger.Error("[Submit] err submissionRepo.Create", zap.String("id", sub.ID), zap.String("error", err.Error()))
		}
	}()

	if s.notifier != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			notifyCtx, cancel := context.WithTimeout(base, s.config.Contact.NotifyTimeout)
			defer cancel()
			if err := s.notifier.Notify(notifyCtx, sub); err != nil {
				logger.Error("[Submit] err notifier.Notify", zap.String("id", sub.ID), zap.String("error", err.Error()))
			}
		}()
	}

	wg.Wait()
}
