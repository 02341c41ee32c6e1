package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/inventory-order-api/config"
	"github.com/oksasatya/inventory-order-api/internal/infrastructure/audit"
	pginfra "github.com/oksasatya/inventory-order-api/internal/infrastructure/postgres"
	"github.com/oksasatya/inventory-order-api/pkg/helpers"
)

// audit_worker drains AUDIT_QUEUE into the audit_logs table. It is only needed
// when the API runs with AUDIT_TRANSPORT=rabbitmq.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-audit-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQAuditQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()
	repo := pginfra.NewAuditLogRepository(pool)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.WithError(err).Fatal("amqp dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.WithError(err).Fatal("amqp channel")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(64, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQAuditQueue); err != nil {
		logger.WithError(err).Fatal("queue declare")
	}
	msgs, err := ch.Consume(cfg.RabbitMQAuditQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			c, cancelMsg := context.WithTimeout(ctx, 5*time.Second)
			err := audit.Store(c, repo, msg.Body)
			cancelMsg()
			switch {
			case err == nil:
			case errors.Is(err, audit.ErrBadMessage):
				logger.WithError(err).Warn("dropping audit message")
			default:
				logger.WithError(err).WithField("message_id", msg.MessageId).Error("store audit entry failed")
			}
			_ = helpers.Settle(msg, err)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQAuditQueue).Info("audit worker listening")
	<-stop
	logger.Info("shutting down...")
	cancel()
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
