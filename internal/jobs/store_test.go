package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcatarino/order-extractor/constants"
	"github.com/mcatarino/order-extractor/internal/common"
	"github.com/mcatarino/order-extractor/internal/entity"
)

func TestNewJob(t *testing.T) {
	job := NewJob("/tmp/upload/abc.pdf", "order.pdf")
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "order.pdf", job.Filename)
	assert.Equal(t, "/tmp/upload/abc.pdf", job.FilePath)
	assert.Equal(t, constants.JobStatusQueued, job.Status)
	assert.False(t, job.CreatedAt.IsZero())
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	job := NewJob("/tmp/a.pdf", "a.pdf")
	require.NoError(t, store.Create(ctx, job))

	// Duplicate creation is rejected.
	err := store.Create(ctx, job)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusQueued, got.Status)

	job.Status = constants.JobStatusCompleted
	job.Progress = 100
	job.Result = &entity.ExtractionResult{PageCount: 3}
	require.NoError(t, store.Update(ctx, job))

	got, err = store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 3, got.Result.PageCount)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	err = store.Update(ctx, Job{ID: "missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Create(ctx, NewJob("/tmp/a.pdf", "a.pdf")))
	require.NoError(t, store.Create(ctx, NewJob("/tmp/b.pdf", "b.pdf")))

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
	for _, s := range summaries {
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, constants.JobStatusQueued, s.Status)
	}
}

func TestSQLiteStoreLifecycle(t *testing.T) {
	store, err := OpenSQLite(t.TempDir() + "/jobs.db")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	job := NewJob("/tmp/a.pdf", "a.pdf")
	require.NoError(t, store.Create(ctx, job))

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", got.Filename)
	assert.Nil(t, got.Result)

	job.Status = constants.JobStatusCompleted
	job.Result = &entity.ExtractionResult{
		PageCount: 2,
		Supplier:  "GANT",
		Products: []entity.Product{{
			Name:         "Shirt",
			MaterialCode: "111111",
			Colors: []entity.ColorVariant{{
				ColorCode: "008",
				Sizes:     []entity.SizeQuantity{{Size: "M", Quantity: 1}},
			}},
		}},
	}
	require.NoError(t, store.Update(ctx, job))

	got, err = store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "GANT", got.Result.Supplier)
	require.Len(t, got.Result.Products, 1)
	assert.Equal(t, "111111", got.Result.Products[0].MaterialCode)

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, job.ID, summaries[0].ID)
}

func TestSQLiteStoreNotFound(t *testing.T) {
	store, err := OpenSQLite(t.TempDir() + "/jobs.db")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	_, err = store.Get(ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	err = store.Update(ctx, Job{ID: "missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
