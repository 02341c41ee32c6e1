package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
)

type userView struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsVerified  bool       `json:"is_verified"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserView(u *entity.User) userView {
	return userView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        string(u.Role),
		IsVerified:  u.IsVerified,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// productView is what customers see: the stock level is reduced to a status.
type productView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	StockStatus string          `json:"stock_status"`
	ImageURL    string          `json:"image_url,omitempty"`
}

type adminProductView struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toProductView(p *entity.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		StockStatus: string(p.StockStatus()),
		ImageURL:    p.ImageURL,
	}
}

func toAdminProductView(p *entity.Product) adminProductView {
	return adminProductView{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProductViews(ps []entity.Product) []productView {
	out := make([]productView, 0, len(ps))
	for i := range ps {
		out = append(out, toProductView(&ps[i]))
	}
	return out
}

func toAdminProductViews(ps []entity.Product) []adminProductView {
	out := make([]adminProductView, 0, len(ps))
	for i := range ps {
		out = append(out, toAdminProductView(&ps[i]))
	}
	return out
}

type orderItemView struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type orderView struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Status    string          `json:"status"`
	OrderDate time.Time       `json:"order_date"`
	Price     decimal.Decimal `json:"price"`
	Items     []orderItemView `json:"items"`
}

func toOrderView(o *entity.Order) orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemView{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		})
	}
	return orderView{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    string(o.Status),
		OrderDate: o.OrderDate,
		Price:     o.Price,
		Items:     items,
	}
}

func toOrderViews(orders []entity.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderView(&orders[i]))
	}
	return out
}
