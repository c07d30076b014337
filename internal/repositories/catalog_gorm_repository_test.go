package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kasir/internal/models"
	"kasir/internal/repositories"
)

type catalogRepositorySuite struct {
	suite.Suite

	db   *gorm.DB
	repo *repositories.GORMCatalogRepository
}

// entry point to run the tests in the suite
func TestCatalogRepositorySuite(t *testing.T) {
	suite.Run(t, new(catalogRepositorySuite))
}

// before all tests in the suite
func (suite *catalogRepositorySuite) SetupSuite() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	var err error
	suite.db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	suite.Require().NoError(err)

	suite.repo = repositories.NewGORMCatalogRepository(suite.db)
	suite.Require().NoError(suite.repo.Migrate())
}

// after all tests in the suite
func (suite *catalogRepositorySuite) TearDownSuite() {
	if sqlDB, err := suite.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (suite *catalogRepositorySuite) TearDownTest() {
	suite.NoError(suite.repo.ReplaceAll(context.Background(), nil))
}

func (suite *catalogRepositorySuite) TestReplaceAllAndFetch() {
	tests := []struct {
		name     string
		products []models.RawProduct
	}{
		{name: "sample menu keeps order", products: repositories.SampleMenu()},
		{name: "random products", products: randomRawProducts(8)},
		{name: "empty catalog", products: []models.RawProduct{}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := context.Background()

			require.NoError(t, suite.repo.ReplaceAll(ctx, tt.products))

			got, err := suite.repo.FetchProducts(ctx)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.products, got, decimalComparer))

			n, err := suite.repo.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.products)), n)
		})
	}
}

func (suite *catalogRepositorySuite) TestReplaceAllOverwrites() {
	t := suite.T()
	ctx := context.Background()

	require.NoError(t, suite.repo.ReplaceAll(ctx, repositories.SampleMenu()))
	replacement := randomRawProducts(2)
	require.NoError(t, suite.repo.ReplaceAll(ctx, replacement))

	got, err := suite.repo.FetchProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(replacement, got, decimalComparer))
}

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})

func randomRawProducts(n int) []models.RawProduct {
	products := make([]models.RawProduct, n)
	for i := range products {
		products[i] = models.RawProduct{
			// descending ids so that position, not id, decides the order
			ID:          1000 - i,
			Title:       gofakeit.ProductName(),
			Price:       decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
			Category:    gofakeit.ProductCategory(),
			Thumbnail:   gofakeit.URL(),
			Description: gofakeit.ProductDescription(),
		}
	}
	return products
}
