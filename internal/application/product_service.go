package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	repo "github.com/oksasatya/inventory-order-api/internal/domain/repository"
)

const (
	maxProductNameLen = 200
	defaultSearchSize = 20
	priceScale        = 2
	maxStockQuantity  = math.MaxInt32
)

// maxPrice is the first value that no longer fits NUMERIC(12,2).
var maxPrice = decimal.New(1, 10)

type ProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
}

// ProductUpdate carries the fields to change; nil fields are left alone.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
}

type ProductService struct {
	Repo   repo.ProductRepository
	Audit  *AuditService
	Index  ProductIndex
	Images ImageStore
	Logger *logrus.Logger
}

func NewProductService(r repo.ProductRepository, audit *AuditService, index ProductIndex, images ImageStore, logger *logrus.Logger) *ProductService {
	return &ProductService{Repo: r, Audit: audit, Index: index, Images: images, Logger: logger}
}

func validateName(name string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n == 0 || n > maxProductNameLen {
		return fmt.Sprintf("name must be between 1 and %d characters", maxProductNameLen)
	}
	return ""
}

func validatePrice(p decimal.Decimal) string {
	switch {
	case !p.IsPositive():
		return "price must be greater than 0"
	case !p.Equal(p.Round(priceScale)):
		return fmt.Sprintf("price must have at most %d decimal places", priceScale)
	case p.GreaterThanOrEqual(maxPrice):
		return "price must be less than " + maxPrice.String()
	}
	return ""
}

func validateStock(qty int) string {
	switch {
	case qty < 0:
		return "stock quantity must not be negative"
	case qty > maxStockQuantity:
		return fmt.Sprintf("stock quantity must not exceed %d", maxStockQuantity)
	}
	return ""
}

func joinProblems(problems ...string) string {
	out := problems[:0]
	for _, p := range problems {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "; ")
}

func (s *ProductService) Create(ctx context.Context, actorID string, in ProductInput) Result[*entity.Product] {
	log := s.Logger.WithFields(logrus.Fields{"op": "ProductService.Create", "user_id": actorID})

	if msg := joinProblems(validateName(in.Name), validatePrice(in.Price), validateStock(in.StockQuantity)); msg != "" {
		log.WithField("problems", msg).Warn("invalid product")
		return BadRequest[*entity.Product](msg)
	}

	p := &entity.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		log.WithError(err).Error("create product failed")
		return Internal[*entity.Product]()
	}
	s.Audit.Record(ctx, actorID, fmt.Sprintf("Created product %s (%s) price %s stock %d", p.ID, p.Name, p.Price.StringFixed(2), p.StockQuantity))
	s.index(ctx, p)
	return Created(p)
}

func (s *ProductService) Get(ctx context.Context, id string) Result[*entity.Product] {
	p, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		s.Logger.WithFields(logrus.Fields{"op": "ProductService.Get", "product_id": id}).Warn("product not found")
		return NotFound[*entity.Product]("product not found")
	}
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"op": "ProductService.Get", "product_id": id}).WithError(err).Error("load product failed")
		return Internal[*entity.Product]()
	}
	return OK(p)
}

func (s *ProductService) List(ctx context.Context) Result[[]entity.Product] {
	ps, err := s.Repo.List(ctx)
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"op": "ProductService.List"}).WithError(err).Error("list products failed")
		return Internal[[]entity.Product]()
	}
	return OK(ps)
}

// Update changes name, description and price. Each changed field gets its own audit entry.
func (s *ProductService) Update(ctx context.Context, actorID, id string, upd ProductUpdate) Result[*entity.Product] {
	log := s.Logger.WithFields(logrus.Fields{"op": "ProductService.Update", "user_id": actorID, "product_id": id})

	var problems []string
	if upd.Name != nil {
		problems = append(problems, validateName(*upd.Name))
	}
	if upd.Price != nil {
		problems = append(problems, validatePrice(*upd.Price))
	}
	if msg := joinProblems(problems...); msg != "" {
		log.WithField("problems", msg).Warn("invalid product update")
		return BadRequest[*entity.Product](msg)
	}

	r := s.Get(ctx, id)
	if !r.Succeeded() {
		return r
	}
	p := r.Value()

	var changes []string
	if upd.Name != nil && strings.TrimSpace(*upd.Name) != p.Name {
		name := strings.TrimSpace(*upd.Name)
		changes = append(changes, fmt.Sprintf("Updated product %s name from %q to %q", p.ID, p.Name, name))
		p.Name = name
	}
	if upd.Description != nil && *upd.Description != p.Description {
		changes = append(changes, fmt.Sprintf("Updated product %s description from %q to %q", p.ID, p.Description, *upd.Description))
		p.Description = *upd.Description
	}
	if upd.Price != nil && !upd.Price.Equal(p.Price) {
		changes = append(changes, fmt.Sprintf("Updated product %s price from %s to %s", p.ID, p.Price.StringFixed(2), upd.Price.StringFixed(2)))
		p.Price = *upd.Price
	}
	if len(changes) == 0 {
		return OK(p)
	}

	if err := s.Repo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			log.Warn("product vanished during update")
			return NotFound[*entity.Product]("product not found")
		}
		log.WithError(err).Error("update product failed")
		return Internal[*entity.Product]()
	}
	for _, c := range changes {
		s.Audit.Record(ctx, actorID, c)
	}
	s.index(ctx, p)
	return OK(p)
}

func (s *ProductService) UpdateStock(ctx context.Context, actorID, id string, qty int) Result[*entity.Product] {
	log := s.Logger.WithFields(logrus.Fields{"op": "ProductService.UpdateStock", "user_id": actorID, "product_id": id})
	if msg := validateStock(qty); msg != "" {
		log.WithField("stock_quantity", qty).Warn("stock out of range")
		return BadRequest[*entity.Product](msg)
	}
	r := s.Get(ctx, id)
	if !r.Succeeded() {
		return r
	}
	p := r.Value()
	prev := p.StockQuantity
	if err := s.Repo.SetStock(ctx, id, qty); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound[*entity.Product]("product not found")
		}
		log.WithError(err).Error("set stock failed")
		return Internal[*entity.Product]()
	}
	p.StockQuantity = qty
	s.Audit.Record(ctx, actorID, fmt.Sprintf("Updated product %s stock from %d to %d", p.ID, prev, qty))
	s.index(ctx, p)
	return OK(p)
}

func (s *ProductService) Delete(ctx context.Context, actorID, id string) Result[*entity.Product] {
	log := s.Logger.WithFields(logrus.Fields{"op": "ProductService.Delete", "user_id": actorID, "product_id": id})
	r := s.Get(ctx, id)
	if !r.Succeeded() {
		return r
	}
	p := r.Value()
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound[*entity.Product]("product not found")
		}
		log.WithError(err).Error("delete product failed")
		return Internal[*entity.Product]()
	}
	s.Audit.Record(ctx, actorID, fmt.Sprintf("Deleted product %s (%s)", p.ID, p.Name))
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			log.WithError(err).Warn("remove product from index failed")
		}
	}
	s.removeImage(ctx, log, p.ImageURL)
	return OK(p)
}

// removeImage deletes an image that is no longer referenced. Failures only leave an orphan object.
func (s *ProductService) removeImage(ctx context.Context, log *logrus.Entry, url string) {
	if url == "" || s.Images == nil {
		return
	}
	if err := s.Images.Delete(ctx, url); err != nil {
		log.WithError(err).WithField("image_url", url).Warn("delete image failed")
	}
}

// Search queries the product index and falls back to a substring scan
// when no index is configured or the index is unavailable.
func (s *ProductService) Search(ctx context.Context, q string) Result[[]entity.Product] {
	log := s.Logger.WithFields(logrus.Fields{"op": "ProductService.Search", "q": q})
	q = strings.TrimSpace(q)
	if q == "" {
		return BadRequest[[]entity.Product]("query must not be empty")
	}

	if s.Index != nil {
		ids, err := s.Index.Search(ctx, q, defaultSearchSize)
		if err == nil {
			out := make([]entity.Product, 0, len(ids))
			for _, id := range ids {
				p, err := s.Repo.GetByID(ctx, id)
				if err != nil {
					// stale index entry
					continue
				}
				out = append(out, *p)
			}
			return OK(out)
		}
		log.WithError(err).Warn("product index search failed, scanning repository")
	}

	all, err := s.Repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("list products failed")
		return Internal[[]entity.Product]()
	}
	needle := strings.ToLower(q)
	out := []entity.Product{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return OK(out)
}

// UploadImage stores the image under products/<id>/ and records its URL on the product.
func (s *ProductService) UploadImage(ctx context.Context, actorID, id, filename, contentType string, r io.Reader) Result[*entity.Product] {
	log := s.Logger.WithFields(logrus.Fields{"op": "ProductService.UploadImage", "user_id": actorID, "product_id": id})
	if s.Images == nil {
		log.Error("image storage not configured")
		return Failure[*entity.Product](KindInternal, "image storage not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return BadRequest[*entity.Product]("file must be an image")
	}
	res := s.Get(ctx, id)
	if !res.Succeeded() {
		return res
	}
	p := res.Value()

	objectPath := path.Join("products", id, uuid.NewString()+strings.ToLower(path.Ext(filename)))
	url, err := s.Images.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		log.WithError(err).Error("upload image failed")
		return Internal[*entity.Product]()
	}
	prev := p.ImageURL
	p.ImageURL = url
	if err := s.Repo.Update(ctx, p); err != nil {
		log.WithError(err).Error("record image url failed")
		return Internal[*entity.Product]()
	}
	s.Audit.Record(ctx, actorID, fmt.Sprintf("Updated product %s image to %s", p.ID, url))
	s.index(ctx, p)
	s.removeImage(ctx, log, prev)
	return OK(p)
}

func (s *ProductService) index(ctx context.Context, p *entity.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil {
		s.Logger.WithFields(logrus.Fields{"op": "ProductService.index", "product_id": p.ID}).WithError(err).Warn("index product failed")
	}
}
