package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	"github.com/oksasatya/inventory-order-api/internal/domain/repository"
)

// ErrBadMessage marks a queue message that can never be stored.
var ErrBadMessage = errors.New("bad audit message")

// Store decodes one queued entry and inserts it. Errors wrapping ErrBadMessage should not be requeued.
func Store(ctx context.Context, repo repository.AuditLogRepository, body []byte) error {
	var l entity.AuditLog
	if err := json.Unmarshal(body, &l); err != nil {
		return fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if strings.TrimSpace(l.Action) == "" || l.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing action or timestamp", ErrBadMessage)
	}
	return repo.Insert(ctx, &l)
}
