package database_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/sportmap/backend/internal/adapters/database"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
	"github.com/courtside/sportmap/backend/internal/infrastructure/clients/postgres"
)

func newMockReviewAdapter(t *testing.T) (repositories.ReviewRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewReviewAdapter(postgres.NewClientFromDB(db)), mock
}

func TestReviewAdapterCountByFacility(t *testing.T) {
	adapter, mock := newMockReviewAdapter(t)
	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := adapter.CountByFacility(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestReviewAdapterAverageRatingByFacility(t *testing.T) {
	t.Run("returns the mean rating", func(t *testing.T) {
		adapter, mock := newMockReviewAdapter(t)
		mock.ExpectQuery(`SELECT AVG`).
			WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(4.25))

		average, err := adapter.AverageRatingByFacility(context.Background(), "f1")
		require.NoError(t, err)
		require.NotNil(t, average)
		assert.Equal(t, 4.25, *average)
	})

	t.Run("returns nil when the facility has no reviews", func(t *testing.T) {
		adapter, mock := newMockReviewAdapter(t)
		mock.ExpectQuery(`SELECT AVG`).
			WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))

		average, err := adapter.AverageRatingByFacility(context.Background(), "f1")
		require.NoError(t, err)
		assert.Nil(t, average)
	})
}
