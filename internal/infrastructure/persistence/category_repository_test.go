package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newMockCategoryRepository(t *testing.T) (*GormCategoryRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockGormDB(t)
	return NewGormCategoryRepository(gormDB), mock, mockDB
}

func TestGormCategoryRepository_FindBySlug(t *testing.T) {
	t.Run("finds category by slug", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "slug", "description"}).
			AddRow(categoryID, "Electronics", "electronics", "Gadgets and devices")

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE slug = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("electronics", 1).
			WillReturnRows(rows)

		category, err := repo.FindBySlug(context.Background(), "electronics")

		assert.NoError(t, err)
		assert.Equal(t, categoryID, category.ID)
		assert.Equal(t, "Electronics", category.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown slug", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE slug = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		category, err := repo.FindBySlug(context.Background(), "missing")

		assert.Nil(t, category)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCategoryRepository_ExistsByName(t *testing.T) {
	t.Run("matches case-insensitively", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "categories" WHERE LOWER\(name\) = LOWER\(\$1\)`).
			WithArgs("ELECTRONICS").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByName(context.Background(), "ELECTRONICS", uuid.Nil)

		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("excludes the category being renamed", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "categories" WHERE LOWER\(name\) = LOWER\(\$1\) AND id <> \$2`).
			WithArgs("Electronics", categoryID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByName(context.Background(), "Electronics", categoryID)

		assert.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormCategoryRepository_Delete(t *testing.T) {
	t.Run("deletes existing category", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()

		mock.ExpectExec(`DELETE FROM "categories" WHERE id = \$1`).
			WithArgs(categoryID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), categoryID)

		assert.NoError(t, err)
	})

	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()

		mock.ExpectExec(`DELETE FROM "categories" WHERE id = \$1`).
			WithArgs(categoryID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), categoryID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
