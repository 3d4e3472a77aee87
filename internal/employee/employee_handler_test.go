package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"ymph-crud/internal/employee"
	employeeerrors "ymph-crud/internal/employee/errors"
	"ymph-crud/internal/middleware"
	"ymph-crud/internal/shared/apperror"

	employeeMock "ymph-crud/internal/employee/mock"
	counterMock "ymph-crud/internal/shared/counter/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fakeEmployeeService struct {
	CreateFn     func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetAllFn     func(ctx context.Context, query employee.ListEmployeesQuery) (employee.EmployeeListResponse, error)
	GetOptionsFn func(ctx context.Context) ([]employee.EmployeeOption, error)
	GetByIDFn    func(ctx context.Context, id uint) (employee.EmployeeResponse, error)
	UpdateFn     func(ctx context.Context, id uint, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	DeleteFn     func(ctx context.Context, id uint) error
}

func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeEmployeeService) GetAll(ctx context.Context, query employee.ListEmployeesQuery) (employee.EmployeeListResponse, error) {
	return f.GetAllFn(ctx, query)
}
func (f *fakeEmployeeService) GetOptions(ctx context.Context) ([]employee.EmployeeOption, error) {
	return f.GetOptionsFn(ctx)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, id uint) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeEmployeeService) Update(ctx context.Context, id uint, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, id uint) error {
	return f.DeleteFn(ctx, id)
}

func setupRouter(svc employee.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	employee.RegisterRoutes(r.Group("/api/v1"), employee.NewHandler(svc), middleware.RateLimits{})
	return r
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestEmployeeHandler_Create(t *testing.T) {
	t.Run("success from form post", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "Ana", req.FirstName)
				assert.Equal(t, "2024-01-15", req.HireDate)
				assert.Equal(t, "1500.00", req.Salary.String())
				return employee.EmployeeResponse{ID: 1, EmployeeCode: "EMP00001", FirstName: req.FirstName, Status: "active"}, nil
			},
		}
		form := url.Values{
			"first_name": {"Ana"},
			"last_name":  {"Cruz"},
			"email":      {"ana@x.com"},
			"position":   {"Clerk"},
			"department": {"HR"},
			"hire_date":  {"2024-01-15"},
			"salary":     {"1500.00"},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decode(t, w)
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), `"employee_code":"EMP00001"`)
	})

	t.Run("success from json with numeric salary", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "1500.5", req.Salary.String())
				return employee.EmployeeResponse{ID: 2}, nil
			},
		}
		body := `{"first_name":"Ana","last_name":"Cruz","email":"ana@x.com","position":"Clerk","department":"HR","hire_date":"2024-01-15","salary":1500.5}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		svc := &fakeEmployeeService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(`{"first_name":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidInput, decode(t, w).Error.Code)
	})

	t.Run("service validation error", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, apperror.RequiredField("First name")
			},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		assert.False(t, env.Ok)
		assert.Equal(t, "First name is required.", env.Error.Message)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeEmailAlreadyExists
			},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperror.CodeConflict, decode(t, w).Error.Code)
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	t.Run("passes explicit filters", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetAllFn: func(ctx context.Context, q employee.ListEmployeesQuery) (employee.EmployeeListResponse, error) {
				assert.Equal(t, "Cruz", *q.Search)
				assert.Equal(t, "active", *q.Status)
				assert.Nil(t, q.Position)
				return employee.EmployeeListResponse{
					Items:   []employee.EmployeeResponse{{ID: 1, LastName: "Cruz"}},
					Filters: employee.EmployeeFilters{Departments: []string{"HR"}, Positions: []string{"Clerk"}},
				}, nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/employees?search=Cruz&status=active", nil)
		w := httptest.NewRecorder()

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decode(t, w)
		assert.Equal(t, float64(1), env.Meta["total"])
		assert.Contains(t, string(env.Data), `"departments":["HR"]`)
	})

	t.Run("blank parameters are absent filters", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetAllFn: func(ctx context.Context, q employee.ListEmployeesQuery) (employee.EmployeeListResponse, error) {
				assert.Nil(t, q.Search)
				assert.Nil(t, q.Status)
				assert.Nil(t, q.Department)
				assert.Nil(t, q.Position)
				return employee.EmployeeListResponse{Items: []employee.EmployeeResponse{}}, nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/employees?search=&status=&department=&position=", nil)
		w := httptest.NewRecorder()

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode(t, w).Ok)
	})

	t.Run("invalid status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employee.NewService(employeeMock.NewMockRepository(ctrl), counterMock.NewMockRepository(ctrl), nil, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/employees?status=retired", nil)
		w := httptest.NewRecorder()

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Status must be one of: active, inactive, terminated.", decode(t, w).Error.Message)
	})

	t.Run("store error is generic", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetAllFn: func(ctx context.Context, q employee.ListEmployeesQuery) (employee.EmployeeListResponse, error) {
				return employee.EmployeeListResponse{}, apperror.Store(errors.New("pq: password authentication failed"))
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
		w := httptest.NewRecorder()

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", decode(t, w).Error.Message)
		assert.NotContains(t, w.Body.String(), "password")
	})
}

func TestEmployeeHandler_GetOptions(t *testing.T) {
	svc := &fakeEmployeeService{
		GetOptionsFn: func(ctx context.Context) ([]employee.EmployeeOption, error) {
			return []employee.EmployeeOption{{ID: 4, FullName: "Ben Abad"}}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/options", nil)
	w := httptest.NewRecorder()

	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ben Abad")
}

func TestEmployeeHandler_GetById(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-1"} {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/"+id, nil)
			w := httptest.NewRecorder()

			setupRouter(&fakeEmployeeService{}).ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, id)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetByIDFn: func(ctx context.Context, id uint) (employee.EmployeeResponse, error) {
				assert.Equal(t, uint(42), id)
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/42", nil)
		w := httptest.NewRecorder()

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Employee not found.", decode(t, w).Error.Message)
	})
}

func TestEmployeeHandler_Update(t *testing.T) {
	svc := &fakeEmployeeService{
		UpdateFn: func(ctx context.Context, id uint, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
			assert.Equal(t, uint(5), id)
			assert.Equal(t, "EMP00005", req.EmployeeCode)
			return employee.EmployeeResponse{ID: id, EmployeeCode: req.EmployeeCode}, nil
		},
	}
	body := `{"employee_code":"EMP00005","first_name":"Ana"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/employees/5", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEmployeeHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			DeleteFn: func(ctx context.Context, id uint) error { return nil },
		}
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/employees/9", nil)
		w := httptest.NewRecorder()

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":9,"deleted":true,"mode":"hard"}`, string(decode(t, w).Data))
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeEmployeeService{
			DeleteFn: func(ctx context.Context, id uint) error { return employeeerrors.ErrEmployeeNotFound },
		}
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/employees/9", nil)
		w := httptest.NewRecorder()

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
