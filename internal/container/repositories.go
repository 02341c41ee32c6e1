package container

import (
	repo "github.com/oksasatya/inventory-order-api/internal/domain/repository"
	pginfra "github.com/oksasatya/inventory-order-api/internal/infrastructure/postgres"
)

const StorageMemory = "memory"

// Repositories groups the persistence ports for the configured storage driver.
type Repositories struct {
	Users     repo.UserRepository
	Products  repo.ProductRepository
	Orders    repo.OrderRepository
	AuditLogs repo.AuditLogRepository
	Tokens    repo.VerificationTokenRepository
}

// GetRepositories returns in-memory repositories for STORAGE_DRIVER=memory and
// Postgres repositories over the shared pool otherwise.
func GetRepositories() Repositories {
	if cfg != nil && cfg.StorageDriver == StorageMemory {
		s := GetMemoryStore()
		return Repositories{
			Users:     s.Users(),
			Products:  s.Products(),
			Orders:    s.Orders(),
			AuditLogs: s.AuditLogs(),
			Tokens:    s.VerificationTokens(),
		}
	}
	return Repositories{
		Users:     pginfra.NewUserRepository(pgPool),
		Products:  pginfra.NewProductRepository(pgPool),
		Orders:    pginfra.NewOrderRepository(pgPool),
		AuditLogs: pginfra.NewAuditLogRepository(pgPool),
		Tokens:    pginfra.NewVerificationTokenRepository(pgPool),
	}
}
