package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sokohub/backend/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDashboardRepository(t *testing.T) (*GormDashboardRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockGormDB(t)
	return NewGormDashboardRepository(gormDB), mock, mockDB
}

func TestGormDashboardRepository_TopProducts(t *testing.T) {
	t.Run("ranks active products by view count", func(t *testing.T) {
		repo, mock, mockDB := newMockDashboardRepository(t)
		defer mockDB.Close()

		first := uuid.New()
		second := uuid.New()

		rows := sqlmock.NewRows([]string{"product_id", "name", "slug", "price", "view_count", "contact_reveal_count"}).
			AddRow(first, "Solar Lamp", "solar-lamp", decimal.NewFromInt(1200), 900, 12).
			AddRow(second, "Kiondo Basket", "kiondo-basket", decimal.NewFromInt(1500), 400, 30)

		mock.ExpectQuery(`SELECT id AS product_id, name, slug, price, view_count, contact_reveal_count FROM "products" WHERE is_active = \$1 ORDER BY view_count DESC LIMIT .*`).
			WithArgs(true, 10).
			WillReturnRows(rows)

		ranks, err := repo.TopProducts(context.Background(), report.RankByViews, 10)

		assert.NoError(t, err)
		require.Len(t, ranks, 2)
		assert.Equal(t, first, ranks[0].ProductID)
		assert.Equal(t, int64(900), ranks[0].ViewCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deactivated listings never rank", func(t *testing.T) {
		repo, mock, mockDB := newMockDashboardRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT id AS product_id, name, slug, price, view_count, contact_reveal_count FROM "products" WHERE is_active = \$1 ORDER BY contact_reveal_count DESC LIMIT .*`).
			WithArgs(true, 10).
			WillReturnRows(sqlmock.NewRows([]string{"product_id"}))

		ranks, err := repo.TopProducts(context.Background(), report.RankByContacts, 10)

		assert.NoError(t, err)
		assert.Empty(t, ranks)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDashboardRepository_CounterTotalsSince(t *testing.T) {
	t.Run("windows on product creation time", func(t *testing.T) {
		repo, mock, mockDB := newMockDashboardRepository(t)
		defer mockDB.Close()

		cutoff := time.Now().AddDate(0, 0, -30)

		rows := sqlmock.NewRows([]string{"views", "contacts"}).AddRow(5400, 210)
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(view_count\), 0\) AS views, COALESCE\(SUM\(contact_reveal_count\), 0\) AS contacts FROM "products" WHERE created_at >= \$1`).
			WithArgs(cutoff).
			WillReturnRows(rows)

		views, contacts, err := repo.CounterTotalsSince(context.Background(), cutoff)

		assert.NoError(t, err)
		assert.Equal(t, int64(5400), views)
		assert.Equal(t, int64(210), contacts)
	})
}
