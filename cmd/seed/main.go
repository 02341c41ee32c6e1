package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/inventory-order-api/config"
	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	repo "github.com/oksasatya/inventory-order-api/internal/domain/repository"
	pginfra "github.com/oksasatya/inventory-order-api/internal/infrastructure/postgres"
	"github.com/oksasatya/inventory-order-api/pkg/helpers"
)

var sampleProducts = []entity.Product{
	{Name: "Mechanical Keyboard", Description: "87-key, hot-swappable switches", Price: decimal.RequireFromString("89.90"), StockQuantity: 25},
	{Name: "USB-C Hub", Description: "7-in-1 with HDMI and card reader", Price: decimal.RequireFromString("34.50"), StockQuantity: 60},
	{Name: "27\" Monitor", Description: "1440p IPS panel", Price: decimal.RequireFromString("279.00"), StockQuantity: 4},
	{Name: "Laptop Stand", Description: "Aluminium, adjustable height", Price: decimal.RequireFromString("49.99"), StockQuantity: 13},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	products := pginfra.NewProductRepository(pool)

	username := "admin"
	email := "admin@example.com"
	password := "password123"
	u, err := users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		hash, salt, err := helpers.GenerateHashAndSalt(password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		u = &entity.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			PasswordSalt: salt,
			Role:         entity.RoleAdmin,
			IsVerified:   true,
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}
		fmt.Printf("seeded admin: id=%s username=%s password=%s\n", u.ID, username, password)
	case err != nil:
		log.Fatalf("failed to look up admin: %v", err)
	default:
		fmt.Printf("admin already present: id=%s\n", u.ID)
	}

	existing, err := products.List(ctx)
	if err != nil {
		log.Fatalf("failed to list products: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d product(s) already present, skipping sample catalogue\n", len(existing))
		return
	}
	for i := range sampleProducts {
		p := sampleProducts[i]
		if err := products.Create(ctx, &p); err != nil {
			log.Fatalf("failed to seed product %q: %v", p.Name, err)
		}
		fmt.Printf("seeded product: id=%s name=%s stock=%d\n", p.ID, p.Name, p.StockQuantity)
	}
}
