package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	repo "github.com/oksasatya/inventory-order-api/internal/domain/repository"
)

// DateLayout is the format of the by-date audit query.
const DateLayout = "2006-01-02"

type AuditService struct {
	Repo   repo.AuditLogRepository
	Sink   AuditSink
	Logger *logrus.Logger
}

func NewAuditService(r repo.AuditLogRepository, sink AuditSink, logger *logrus.Logger) *AuditService {
	return &AuditService{Repo: r, Sink: sink, Logger: logger}
}

// Record hands an entry to the sink and returns immediately.
func (s *AuditService) Record(ctx context.Context, userID, action string) {
	if s == nil || s.Sink == nil {
		return
	}
	s.Sink.Send(ctx, entity.AuditLog{
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Action:    action,
	})
}

func (s *AuditService) All(ctx context.Context) Result[[]entity.AuditLog] {
	logs, err := s.Repo.List(ctx)
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"op": "AuditService.All"}).WithError(err).Error("list audit logs failed")
		return Internal[[]entity.AuditLog]()
	}
	return OK(logs)
}

func (s *AuditService) ByUser(ctx context.Context, userID string) Result[[]entity.AuditLog] {
	logs, err := s.Repo.ListByUser(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return OK([]entity.AuditLog{})
	}
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"op": "AuditService.ByUser", "user_id": userID}).WithError(err).Error("list audit logs failed")
		return Internal[[]entity.AuditLog]()
	}
	return OK(logs)
}

// ByDate returns the entries recorded on the given UTC calendar day (YYYY-MM-DD).
func (s *AuditService) ByDate(ctx context.Context, day string) Result[[]entity.AuditLog] {
	from, err := time.ParseInLocation(DateLayout, day, time.UTC)
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"op": "AuditService.ByDate", "date": day}).Warn("malformed date")
		return BadRequest[[]entity.AuditLog]("date must be formatted as YYYY-MM-DD")
	}
	logs, err := s.Repo.ListBetween(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"op": "AuditService.ByDate", "date": day}).WithError(err).Error("list audit logs failed")
		return Internal[[]entity.AuditLog]()
	}
	return OK(logs)
}
