package product

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"ymph-crud/internal/events"
	producterrors "ymph-crud/internal/product/errors"
	"ymph-crud/internal/shared/apperror"
	"ymph-crud/internal/shared/codegen"
	"ymph-crud/internal/shared/contextutil"
	"ymph-crud/internal/shared/counter"
	"ymph-crud/internal/shared/filter"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	FiltersCacheKey = "products:filters"

	DefaultCacheTTL = time.Hour
)

var searchColumns = []string{"products.name", "products.product_code", "products.description"}

type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (ProductResponse, error)
	GetAll(ctx context.Context, query ListProductsQuery) (ProductListResponse, error)
	GetByID(ctx context.Context, id uint) (ProductResponse, error)
	Update(ctx context.Context, id uint, req UpdateProductRequest) (ProductResponse, error)
	Delete(ctx context.Context, id uint, mode DeleteMode) (DeleteProductResponse, error)
}

type service struct {
	repo      Repository
	counter   counter.Repository
	publisher events.Publisher
	rdb       *redis.Client
	cacheTTL  time.Duration
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	repo Repository,
	counter counter.Repository,
	publisher events.Publisher,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithCache(repo, counter, publisher, rdb, DefaultCacheTTL, logger...)
}

func NewServiceWithCache(
	repo Repository,
	counter counter.Repository,
	publisher events.Publisher,
	rdb *redis.Client,
	cacheTTL time.Duration,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("product.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("product.service")
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &service{
		repo:      repo,
		counter:   counter,
		publisher: publisher,
		rdb:       rdb,
		cacheTTL:  cacheTTL,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (ProductResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create product requested", zap.String("category", req.Category))

	if err := validateProduct(req, false); err != nil {
		log.Warn("create product validation failed", zap.Error(err))
		return ProductResponse{}, err
	}

	p := &Product{}
	applyRequest(p, req)
	if p.Status == "" {
		p.Status = StatusActive
	}

	generated := p.ProductCode == ""
	var seq int64
	if generated {
		code, next, err := s.nextCode(ctx, p.Category)
		if err != nil {
			log.Error("create product generate code failed", zap.Error(err))
			return ProductResponse{}, apperror.Store(err)
		}
		p.ProductCode, seq = code, next
	}

	err := s.repo.Create(ctx, p)
	if generated && errors.Is(mapRepositoryError(err), producterrors.ErrProductCodeAlreadyExists) {
		log.Warn("product code collision, retrying once", zap.String("product_code", p.ProductCode))
		code, _, cerr := s.nextCode(ctx, p.Category)
		if cerr != nil {
			log.Error("create product regenerate code failed", zap.Error(cerr))
			return ProductResponse{}, apperror.Store(cerr)
		}
		if code == p.ProductCode {
			code = codegen.ProductCode(p.Category, seq+1)
		}
		p.ID = 0
		p.ProductCode = code
		err = s.repo.Create(ctx, p)
	}
	if err != nil {
		log.Error("create product persist failed", zap.Error(err))
		return ProductResponse{}, mapRepositoryError(err)
	}

	s.afterMutation(ctx, events.ActionCreated, p.ID, p.ProductCode)
	log.Info("create product success",
		zap.Uint("product_id", p.ID),
		zap.String("product_code", p.ProductCode),
	)

	return mapToResponse(ProductWithCreator{Product: *p}), nil
}

func (s *service) nextCode(ctx context.Context, category string) (string, int64, error) {
	next, err := s.counter.GetNextValue(ctx, counter.TypeProductCode, codegen.ProductPrefix(category))
	if err != nil {
		return "", 0, err
	}
	return codegen.ProductCode(category, next), next, nil
}

func (s *service) GetAll(ctx context.Context, query ListProductsQuery) (ProductListResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("get all products requested")

	query = query.Normalize()
	if query.Status != nil && !isValidStatus(*query.Status) {
		return ProductListResponse{}, apperror.Validation("Status", statusMessage)
	}

	q, err := filter.NewBuilder().
		Search(query.Search, searchColumns...).
		Equal("products.status", query.Status).
		Equal("products.category", query.Category).
		OrderByDesc("products.created_at").
		Build()
	if err != nil {
		log.Error("build product filter failed", zap.Error(err))
		return ProductListResponse{}, apperror.Store(err)
	}

	rows, err := s.repo.FindAll(ctx, q)
	if err != nil {
		log.Error("get all products failed", zap.Error(err))
		return ProductListResponse{}, mapRepositoryError(err)
	}

	filters, err := s.getFilters(ctx)
	if err != nil {
		log.Error("get product filters failed", zap.Error(err))
		return ProductListResponse{}, err
	}

	items := make([]ProductResponse, len(rows))
	for i, row := range rows {
		items[i] = mapToResponse(row)
	}

	return ProductListResponse{Items: items, Filters: filters}, nil
}

func (s *service) getFilters(ctx context.Context) (ProductFilters, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, FiltersCacheKey).Bytes()
		if err == nil {
			var f ProductFilters
			if json.Unmarshal(cached, &f) == nil {
				return f, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			contextutil.GetLogger(ctx, s.logger).Warn("product cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(FiltersCacheKey, func() (interface{}, error) {
		// Shared by every waiter; one caller hanging up must not fail the rest.
		ctx := context.WithoutCancel(ctx)
		categories, err := s.repo.DistinctCategories(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		if categories == nil {
			categories = []string{}
		}
		f := ProductFilters{Categories: categories}

		if s.rdb != nil {
			if data, err := json.Marshal(f); err == nil {
				if err := s.rdb.Set(ctx, FiltersCacheKey, data, s.cacheTTL).Err(); err != nil {
					contextutil.GetLogger(ctx, s.logger).Warn("product cache write failed", zap.Error(err))
				}
			}
		}
		return f, nil
	})
	if err != nil {
		return ProductFilters{}, err
	}

	return v.(ProductFilters), nil
}

func (s *service) GetByID(ctx context.Context, id uint) (ProductResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("get product by id requested", zap.Uint("product_id", id))

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Warn("get product by id failed", zap.Uint("product_id", id), zap.Error(err))
		return ProductResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, id uint, req UpdateProductRequest) (ProductResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update product requested", zap.Uint("product_id", id))

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Warn("update product fetch existing failed", zap.Uint("product_id", id), zap.Error(err))
		return ProductResponse{}, mapRepositoryError(err)
	}

	fields := CreateProductRequest(req)
	if err := validateProduct(fields, true); err != nil {
		log.Warn("update product validation failed", zap.Uint("product_id", id), zap.Error(err))
		return ProductResponse{}, err
	}

	p := row.Product
	applyRequest(&p, fields)
	if p.Status == "" {
		p.Status = StatusActive
	}

	if err := s.repo.Update(ctx, &p); err != nil {
		log.Error("update product persist failed", zap.Uint("product_id", id), zap.Error(err))
		return ProductResponse{}, mapRepositoryError(err)
	}

	s.afterMutation(ctx, events.ActionUpdated, p.ID, p.ProductCode)
	log.Info("update product success", zap.Uint("product_id", id))

	// Creator columns are stale if created_by changed.
	updated := ProductWithCreator{Product: p}
	if sameRef(row.CreatedBy, p.CreatedBy) {
		updated.CreatorCode = row.CreatorCode
		updated.CreatorFirstName = row.CreatorFirstName
		updated.CreatorLastName = row.CreatorLastName
	}
	return mapToResponse(updated), nil
}

// Delete removes a product. Soft mode marks it discontinued; re-soft-deleting
// an already discontinued product succeeds without writing.
func (s *service) Delete(ctx context.Context, id uint, mode DeleteMode) (DeleteProductResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if mode == "" {
		mode = DeleteSoft
	}
	log.Debug("delete product requested", zap.Uint("product_id", id), zap.String("mode", string(mode)))

	switch mode {
	case DeleteHard:
		if err := s.repo.Delete(ctx, id); err != nil {
			log.Warn("hard delete product failed", zap.Uint("product_id", id), zap.Error(err))
			return DeleteProductResponse{}, mapRepositoryError(err)
		}
		s.afterMutation(ctx, events.ActionDeleted, id, "")
		log.Info("hard delete product success", zap.Uint("product_id", id))
		return DeleteProductResponse{ID: id, Deleted: true, Mode: DeleteHard}, nil

	case DeleteSoft:
		row, err := s.repo.FindByID(ctx, id)
		if err != nil {
			log.Warn("soft delete product fetch failed", zap.Uint("product_id", id), zap.Error(err))
			return DeleteProductResponse{}, mapRepositoryError(err)
		}
		resp := DeleteProductResponse{ID: id, Deleted: true, Mode: DeleteSoft, Status: StatusDiscontinued}
		if row.Status == StatusDiscontinued {
			log.Info("soft delete product no-op, already discontinued", zap.Uint("product_id", id))
			return resp, nil
		}
		if err := s.repo.SoftDelete(ctx, id); err != nil {
			log.Warn("soft delete product failed", zap.Uint("product_id", id), zap.Error(err))
			return DeleteProductResponse{}, mapRepositoryError(err)
		}
		s.afterMutation(ctx, events.ActionSoftDeleted, id, row.ProductCode)
		log.Info("soft delete product success", zap.Uint("product_id", id))
		return resp, nil

	default:
		return DeleteProductResponse{}, apperror.Validation("Mode", "Delete mode must be one of: soft, hard.")
	}
}

func (s *service) afterMutation(ctx context.Context, action string, id uint, code string) {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, FiltersCacheKey).Err(); err != nil {
			log.Error("failed to invalidate product cache", zap.Error(err))
		}
	}

	if s.publisher == nil {
		return
	}
	event := events.NewRecordLifecycleEvent(events.EntityProduct, action, contextutil.GetRequestID(ctx), id, code)
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Error("publish product event failed",
			zap.String("event_type", event.EventType),
			zap.Uint("product_id", id),
			zap.Error(err),
		)
	}
}

// applyRequest copies validated input onto the entity. Values are trimmed,
// never escaped.
func applyRequest(p *Product, req CreateProductRequest) {
	p.ProductCode = strings.TrimSpace(req.ProductCode)
	p.Name = strings.TrimSpace(req.Name)
	p.Category = strings.TrimSpace(req.Category)
	p.Status = strings.TrimSpace(req.Status)

	p.Description = nil
	if desc := strings.TrimSpace(req.Description); desc != "" {
		p.Description = &desc
	}

	p.Price, _ = decimal.NewFromString(strings.TrimSpace(req.Price.String()))

	p.Cost = decimal.NullDecimal{}
	if cost := strings.TrimSpace(req.Cost.String()); cost != "" {
		if d, err := decimal.NewFromString(cost); err == nil {
			p.Cost = decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}

	p.StockQuantity, _ = strconv.Atoi(strings.TrimSpace(req.StockQuantity.String()))
	p.MinStockLevel, _ = strconv.Atoi(strings.TrimSpace(req.MinStockLevel.String()))

	p.Unit = strings.TrimSpace(req.Unit)
	if p.Unit == "" {
		p.Unit = DefaultUnit
	}

	p.CreatedBy = nil
	if ref := strings.TrimSpace(req.CreatedBy.String()); ref != "" {
		if n, err := strconv.ParseUint(ref, 10, 64); err == nil && n > 0 {
			id := uint(n)
			p.CreatedBy = &id
		}
	}
}

func mapToResponse(row ProductWithCreator) ProductResponse {
	p := row.Product
	resp := ProductResponse{
		ID:            p.ID,
		ProductCode:   p.ProductCode,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price.StringFixed(2),
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		Unit:          p.Unit,
		Status:        p.Status,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Cost.Valid {
		cost := p.Cost.Decimal.StringFixed(2)
		resp.Cost = &cost
	}
	if p.CreatedBy != nil && row.CreatorCode != nil {
		resp.Creator = &ProductCreator{
			ID:           *p.CreatedBy,
			EmployeeCode: *row.CreatorCode,
			FullName:     strings.TrimSpace(deref(row.CreatorFirstName) + " " + deref(row.CreatorLastName)),
		}
	}
	return resp
}

func sameRef(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
