package employee

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	employeeerrors "ymph-crud/internal/employee/errors"
	"ymph-crud/internal/events"
	"ymph-crud/internal/shared/apperror"
	"ymph-crud/internal/shared/codegen"
	"ymph-crud/internal/shared/contextutil"
	"ymph-crud/internal/shared/counter"
	"ymph-crud/internal/shared/filter"
	"ymph-crud/internal/shared/validation"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
)

const (
	FiltersCacheKey = "employees:filters"
	OptionsCacheKey = "employees:options"

	DefaultCacheTTL = time.Hour
)

var searchColumns = []string{"first_name", "last_name", "employee_code"}

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, query ListEmployeesQuery) (EmployeeListResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOption, error)
	GetByID(ctx context.Context, id uint) (EmployeeResponse, error)
	Update(ctx context.Context, id uint, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id uint) error
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
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
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

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create employee requested", zap.String("email", req.Email))

	if err := validateEmployee(req, false); err != nil {
		log.Warn("create employee validation failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	empl := &Employee{}
	applyRequest(empl, req)
	if empl.Status == "" {
		empl.Status = StatusActive
	}

	generated := empl.EmployeeCode == ""
	var seq int64
	if generated {
		code, next, err := s.nextCode(ctx)
		if err != nil {
			log.Error("create employee generate code failed", zap.Error(err))
			return EmployeeResponse{}, apperror.Store(err)
		}
		empl.EmployeeCode, seq = code, next
	}

	err := s.repo.Create(ctx, empl)
	if generated && errors.Is(mapRepositoryError(err), employeeerrors.ErrEmployeeCodeAlreadyExists) {
		// Another request took the code between count and insert.
		log.Warn("employee code collision, retrying once", zap.String("employee_code", empl.EmployeeCode))
		code, next, cerr := s.nextCode(ctx)
		if cerr != nil {
			log.Error("create employee regenerate code failed", zap.Error(cerr))
			return EmployeeResponse{}, apperror.Store(cerr)
		}
		if code == empl.EmployeeCode {
			next = seq + 1
			code = codegen.EmployeeCode(next)
		}
		empl.ID = 0
		empl.EmployeeCode = code
		err = s.repo.Create(ctx, empl)
	}
	if err != nil {
		log.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.afterMutation(ctx, events.ActionCreated, empl)
	log.Info("create employee success",
		zap.Uint("employee_id", empl.ID),
		zap.String("employee_code", empl.EmployeeCode),
	)

	return mapToResponse(*empl), nil
}

func (s *service) nextCode(ctx context.Context) (string, int64, error) {
	next, err := s.counter.GetNextValue(ctx, counter.TypeEmployeeCode, codegen.EmployeePrefix)
	if err != nil {
		return "", 0, err
	}
	return codegen.EmployeeCode(next), next, nil
}

func (s *service) GetAll(ctx context.Context, query ListEmployeesQuery) (EmployeeListResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("get all employees requested")

	query = query.Normalize()
	if query.Status != nil && !isValidStatus(*query.Status) {
		return EmployeeListResponse{}, apperror.Validation("Status", statusMessage)
	}

	q, err := filter.NewBuilder().
		Search(query.Search, searchColumns...).
		Equal("status", query.Status).
		Equal("department", query.Department).
		Equal("position", query.Position).
		Build()
	if err != nil {
		log.Error("build employee filter failed", zap.Error(err))
		return EmployeeListResponse{}, apperror.Store(err)
	}

	empls, err := s.repo.FindAll(ctx, q)
	if err != nil {
		log.Error("get all employees failed", zap.Error(err))
		return EmployeeListResponse{}, mapRepositoryError(err)
	}

	filters, err := s.getFilters(ctx)
	if err != nil {
		log.Error("get employee filters failed", zap.Error(err))
		return EmployeeListResponse{}, err
	}

	return EmployeeListResponse{
		Items:   mapToListResponse(empls),
		Filters: filters,
	}, nil
}

func (s *service) getFilters(ctx context.Context) (EmployeeFilters, error) {
	if cached, ok := s.readCache(ctx, FiltersCacheKey); ok {
		var f EmployeeFilters
		if json.Unmarshal(cached, &f) == nil {
			return f, nil
		}
	}

	v, err, _ := s.sf.Do(FiltersCacheKey, func() (interface{}, error) {
		// Shared by every waiter; one caller hanging up must not fail the rest.
		ctx := context.WithoutCancel(ctx)
		departments, err := s.repo.DistinctValues(ctx, "department")
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		positions, err := s.repo.DistinctValues(ctx, "position")
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		f := EmployeeFilters{
			Departments: nonNil(departments),
			Positions:   nonNil(positions),
		}
		s.writeCache(ctx, FiltersCacheKey, f)
		return f, nil
	})
	if err != nil {
		return EmployeeFilters{}, err
	}

	return v.(EmployeeFilters), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeOption, error) {
	// 1. Cek Redis
	if cached, ok := s.readCache(ctx, OptionsCacheKey); ok {
		var resp []EmployeeOption
		if json.Unmarshal(cached, &resp) == nil {
			return resp, nil
		}
	}

	// 2. Singleflight untuk handle traffic tinggi saat form produk dibuka
	v, err, _ := s.sf.Do(OptionsCacheKey, func() (interface{}, error) {
		// Shared by every waiter; one caller hanging up must not fail the rest.
		ctx := context.WithoutCancel(ctx)
		empls, err := s.repo.FindActiveOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOption, len(empls))
		for i, e := range empls {
			resp[i] = EmployeeOption{
				ID:           e.ID,
				EmployeeCode: e.EmployeeCode,
				FirstName:    e.FirstName,
				LastName:     e.LastName,
				FullName:     e.FullName(),
			}
		}

		// 3. Simpan ke Redis
		s.writeCache(ctx, OptionsCacheKey, resp)
		return resp, nil
	})
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("get employee options failed", zap.Error(err))
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(ctx context.Context, id uint) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("get employee by id requested", zap.Uint("employee_id", id))

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Warn("get employee by id failed", zap.Uint("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id uint, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update employee requested", zap.Uint("employee_id", id))

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Warn("update employee fetch existing failed", zap.Uint("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	fields := CreateEmployeeRequest(req)
	if err := validateEmployee(fields, true); err != nil {
		log.Warn("update employee validation failed", zap.Uint("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	applyRequest(empl, fields)
	if empl.Status == "" {
		empl.Status = StatusActive
	}

	if err := s.repo.Update(ctx, empl); err != nil {
		log.Error("update employee persist failed", zap.Uint("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.afterMutation(ctx, events.ActionUpdated, empl)
	log.Info("update employee success", zap.Uint("employee_id", id))

	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("delete employee requested", zap.Uint("employee_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Warn("delete employee failed", zap.Uint("employee_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.afterMutation(ctx, events.ActionDeleted, &Employee{ID: id})
	log.Info("delete employee success", zap.Uint("employee_id", id))
	return nil
}

// afterMutation drops cached lists and publishes the lifecycle event.
// Neither step can fail the request.
func (s *service) afterMutation(ctx context.Context, action string, empl *Employee) {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, FiltersCacheKey, OptionsCacheKey).Err(); err != nil {
			log.Error("failed to invalidate employee cache", zap.Error(err))
		}
	}

	if s.publisher == nil {
		return
	}
	event := events.NewRecordLifecycleEvent(
		events.EntityEmployee,
		action,
		contextutil.GetRequestID(ctx),
		empl.ID,
		empl.EmployeeCode,
	)
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Error("publish employee event failed",
			zap.String("event_type", event.EventType),
			zap.Uint("employee_id", empl.ID),
			zap.Error(err),
		)
	}
}

func (s *service) readCache(ctx context.Context, key string) ([]byte, bool) {
	if s.rdb == nil {
		return nil, false
	}
	cached, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			contextutil.GetLogger(ctx, s.logger).Warn("employee cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return cached, true
}

func (s *service) writeCache(ctx context.Context, key string, v any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("employee cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// applyRequest copies validated input onto the entity. Values are trimmed,
// never escaped.
func applyRequest(empl *Employee, req CreateEmployeeRequest) {
	empl.EmployeeCode = strings.TrimSpace(req.EmployeeCode)
	empl.FirstName = strings.TrimSpace(req.FirstName)
	empl.LastName = strings.TrimSpace(req.LastName)
	empl.Email = strings.TrimSpace(req.Email)
	empl.Position = strings.TrimSpace(req.Position)
	empl.Department = strings.TrimSpace(req.Department)
	empl.Status = strings.TrimSpace(req.Status)

	empl.Phone = nil
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		empl.Phone = &phone
	}

	if t, err := time.Parse(validation.DateLayout, strings.TrimSpace(req.HireDate)); err == nil {
		empl.HireDate = datatypes.Date(t)
	}

	empl.Salary = decimal.NullDecimal{}
	if salary := strings.TrimSpace(req.Salary.String()); salary != "" {
		if d, err := decimal.NewFromString(salary); err == nil {
			empl.Salary = decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           empl.ID,
		EmployeeCode: empl.EmployeeCode,
		FirstName:    empl.FirstName,
		LastName:     empl.LastName,
		FullName:     empl.FullName(),
		Email:        empl.Email,
		Phone:        empl.Phone,
		Position:     empl.Position,
		Department:   empl.Department,
		HireDate:     time.Time(empl.HireDate).Format(validation.DateLayout),
		Status:       empl.Status,
		CreatedAt:    empl.CreatedAt,
		UpdatedAt:    empl.UpdatedAt,
	}
	if empl.Salary.Valid {
		salary := empl.Salary.Decimal.StringFixed(2)
		resp.Salary = &salary
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
