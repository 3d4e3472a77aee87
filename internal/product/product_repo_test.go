package product_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ymph-crud/internal/product"
	"ymph-crud/internal/shared/filter"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupRepoTest(t *testing.T) (product.Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	assert.NoError(t, err)

	return product.NewRepository(db), mock
}

var productColumns = []string{
	"id", "product_code", "name", "description", "category", "price", "cost",
	"stock_quantity", "min_stock_level", "unit", "status", "created_by", "created_at", "updated_at",
	"creator_code", "creator_first_name", "creator_last_name",
}

func TestProductRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		p := &product.Product{
			ProductCode: "BEV00001", Name: "Cold Brew", Category: "Beverages",
			Price: decimal.RequireFromString("3.5"), Unit: "unit", Status: product.StatusActive,
		}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `products`").
			WillReturnResult(sqlmock.NewResult(12, 1))
		mock.ExpectCommit()

		err := repo.Create(ctx, p)

		assert.NoError(t, err)
		assert.Equal(t, uint(12), p.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate entry surfaces driver error", func(t *testing.T) {
		repo, mock := setupRepoTest(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `products`").
			WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'BEV00001' for key 'products.uq_product_code'"})
		mock.ExpectRollback()

		err := repo.Create(ctx, &product.Product{ProductCode: "BEV00001"})

		var myErr *mysqldriver.MySQLError
		assert.True(t, errors.As(err, &myErr))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_FindAll(t *testing.T) {
	repo, mock := setupRepoTest(t)
	term, category := "brew", "Beverages"
	q, err := filter.NewBuilder().
		Search(&term, "products.name", "products.product_code").
		Equal("products.category", &category).
		OrderByDesc("products.created_at").
		Build()
	assert.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery("SELECT products.\\*, employees.employee_code AS creator_code.* FROM `products` "+
		"LEFT JOIN employees ON employees.id = products.created_by "+
		"WHERE \\(LOWER\\(products.name\\) LIKE \\? ESCAPE '!' OR LOWER\\(products.product_code\\) LIKE \\? ESCAPE '!'\\) "+
		"AND products.category = \\? ORDER BY products.created_at DESC").
		WithArgs("%brew%", "%brew%", "Beverages").
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(1, "BEV00001", "Cold Brew", nil, "Beverages", "3.50", nil, 10, 2, "unit", "active", 7, now, now, "EMP00007", "Ana", "Cruz").
			AddRow(2, "BEV00002", "Tea", "green", "Beverages", "2.00", "0.80", 0, 0, "unit", "active", nil, now, now, nil, nil, nil))

	rows, err := repo.FindAll(context.Background(), q)

	assert.NoError(t, err)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, "EMP00007", *rows[0].CreatorCode)
		assert.Equal(t, uint(7), *rows[0].CreatedBy)
		assert.True(t, rows[0].Price.Equal(decimal.RequireFromString("3.5")))
		assert.Nil(t, rows[1].CreatedBy)
		assert.Nil(t, rows[1].CreatorCode)
		assert.True(t, rows[1].Cost.Valid)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		mock.ExpectQuery("SELECT products.\\*.* FROM `products` LEFT JOIN employees .* WHERE products.id = \\?").
			WillReturnRows(sqlmock.NewRows(productColumns))

		_, err := repo.FindByID(context.Background(), 404)

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("found", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		now := time.Now()
		mock.ExpectQuery("SELECT products.\\*.* FROM `products` LEFT JOIN employees .* WHERE products.id = \\?").
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow(3, "BEV00003", "Latte", nil, "Beverages", "4.00", nil, 1, 0, "cup", "discontinued", 99, now, now, nil, nil, nil))

		row, err := repo.FindByID(context.Background(), 3)

		assert.NoError(t, err)
		assert.Equal(t, product.StatusDiscontinued, row.Status)
		assert.Equal(t, uint(99), *row.CreatedBy)
		assert.Nil(t, row.CreatorCode)
	})
}

func TestProductRepository_DistinctCategories(t *testing.T) {
	repo, mock := setupRepoTest(t)
	mock.ExpectQuery("SELECT DISTINCT .*category.* FROM `products` ORDER BY category").
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Bakery").AddRow("Beverages"))

	values, err := repo.DistinctCategories(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []string{"Bakery", "Beverages"}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update(t *testing.T) {
	repo, mock := setupRepoTest(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products` SET .* WHERE .*`id` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &product.Product{
		ID: 4, ProductCode: "BEV00004", Name: "Tea", Category: "Beverages", Status: "active",
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_SoftDelete(t *testing.T) {
	t.Run("marks discontinued", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `products` SET `status`=\\?,`updated_at`=\\? WHERE id = \\?").
			WithArgs(product.StatusDiscontinued, sqlmock.AnyArg(), 6).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.SoftDelete(context.Background(), 6))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `products`").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.SoftDelete(context.Background(), 6)

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestProductRepository_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM `products` WHERE `products`.`id` = \\?").
			WithArgs(6).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(context.Background(), 6))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM `products`").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), 6)

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
