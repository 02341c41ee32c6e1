package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/inventory-order-api/config"
	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	repo "github.com/oksasatya/inventory-order-api/internal/domain/repository"
	"github.com/oksasatya/inventory-order-api/pkg/mailer"
	mailtpl "github.com/oksasatya/inventory-order-api/pkg/mailer/templates"
)

type VerificationService struct {
	Users  repo.UserRepository
	Tokens repo.VerificationTokenRepository
	Audit  *AuditService
	Mail   mailer.Queue
	Cfg    *config.Config
	Logger *logrus.Logger

	now func() time.Time
}

func NewVerificationService(users repo.UserRepository, tokens repo.VerificationTokenRepository, audit *AuditService, mail mailer.Queue, cfg *config.Config, logger *logrus.Logger) *VerificationService {
	return &VerificationService{
		Users:  users,
		Tokens: tokens,
		Audit:  audit,
		Mail:   mail,
		Cfg:    cfg,
		Logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Issue creates a fresh token for u and enqueues the verification email.
func (s *VerificationService) Issue(ctx context.Context, u *entity.User) (*entity.EmailVerificationToken, error) {
	now := s.now()
	t := &entity.EmailVerificationToken{
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.Cfg.VerifyTokenTTL),
	}
	if err := s.Tokens.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create verification token: %w", err)
	}
	if s.Mail != nil {
		url := strings.TrimRight(s.Cfg.VerifyBaseURL, "/") + "/" + t.ID
		job := mailer.EmailJob{
			To:       u.Email,
			Template: mailtpl.VerifyEmail,
			Data:     mailtpl.NewVerifyEmailData(s.Cfg, u.Username, u.Email, url, mailtpl.WithExpiresAt(t.ExpiresAt)),
		}
		if err := s.Mail.Enqueue(ctx, job); err != nil {
			s.Logger.WithFields(logrus.Fields{"op": "VerificationService.Issue", "user_id": u.ID}).WithError(err).Warn("enqueue verification email failed")
		}
	}
	return t, nil
}

// Verify consumes the token and marks its user verified. Expired tokens are deleted and rejected.
func (s *VerificationService) Verify(ctx context.Context, tokenID string) Result[*entity.User] {
	log := s.Logger.WithFields(logrus.Fields{"op": "VerificationService.Verify", "token_id": tokenID})

	t, err := s.Tokens.GetByID(ctx, tokenID)
	if errors.Is(err, repo.ErrNotFound) {
		log.Warn("verification token not found")
		return NotFound[*entity.User]("verification token not found")
	}
	if err != nil {
		log.WithError(err).Error("load verification token failed")
		return Internal[*entity.User]()
	}
	log = log.WithField("user_id", t.UserID)

	if t.Expired(s.now()) {
		if err := s.Tokens.Delete(ctx, t.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
			log.WithError(err).Warn("delete expired token failed")
		}
		log.Warn("verification token expired")
		return BadRequest[*entity.User]("verification token has expired")
	}

	if err := s.Users.SetVerified(ctx, t.UserID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			log.Warn("token owner not found")
			return NotFound[*entity.User]("user not found")
		}
		log.WithError(err).Error("mark user verified failed")
		return Internal[*entity.User]()
	}
	if err := s.Tokens.Delete(ctx, t.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		log.WithError(err).Error("delete used token failed")
		return Internal[*entity.User]()
	}
	u, err := s.Users.GetByID(ctx, t.UserID)
	if err != nil {
		log.WithError(err).Error("reload user failed")
		return Internal[*entity.User]()
	}
	s.Audit.Record(ctx, u.ID, fmt.Sprintf("Verified email %s for user %s", u.Email, u.ID))
	return OK(u)
}

// PurgeExpired deletes every expired token. It runs from the scheduler.
func (s *VerificationService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.Tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"op": "VerificationService.PurgeExpired"}).WithError(err).Error("purge expired tokens failed")
		return 0, err
	}
	if n > 0 {
		s.Logger.WithFields(logrus.Fields{"op": "VerificationService.PurgeExpired", "deleted": n}).Info("expired verification tokens purged")
	}
	return n, nil
}
