package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the quantity below which a product is shown as Low.
const LowStockThreshold = 5

// StockStatus is the customer-facing classification of a stock quantity.
type StockStatus string

const (
	StockUnavailable StockStatus = "Unavailable"
	StockLow         StockStatus = "Low"
	StockAvailable   StockStatus = "Available"
)

type Product struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	ImageURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StockStatusOf classifies a raw stock quantity.
func StockStatusOf(qty int) StockStatus {
	switch {
	case qty < 0:
		return StockUnavailable
	case qty < LowStockThreshold:
		return StockLow
	default:
		return StockAvailable
	}
}

func (p *Product) StockStatus() StockStatus { return StockStatusOf(p.StockQuantity) }
