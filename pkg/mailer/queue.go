package mailer

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Queue accepts email jobs for asynchronous delivery.
type Queue interface {
	Enqueue(ctx context.Context, job EmailJob) error
}

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// RabbitQueue publishes jobs for cmd/email_worker.
type RabbitQueue struct {
	pub JSONPublisher
}

func NewRabbitQueue(pub JSONPublisher) *RabbitQueue { return &RabbitQueue{pub: pub} }

func (q *RabbitQueue) Enqueue(ctx context.Context, job EmailJob) error {
	return q.pub.PublishJSON(ctx, job)
}

// LogQueue is used when email sending is disabled or no broker is configured.
// It logs the job and keeps it in memory so tests can inspect it.
type LogQueue struct {
	logger *logrus.Logger

	mu   sync.Mutex
	jobs []EmailJob
}

func NewLogQueue(logger *logrus.Logger) *LogQueue { return &LogQueue{logger: logger} }

func (q *LogQueue) Enqueue(_ context.Context, job EmailJob) error {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()
	if q.logger != nil {
		q.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email job (not sent)")
	}
	return nil
}

// Jobs returns a copy of the jobs seen so far.
func (q *LogQueue) Jobs() []EmailJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]EmailJob, len(q.jobs))
	copy(out, q.jobs)
	return out
}
