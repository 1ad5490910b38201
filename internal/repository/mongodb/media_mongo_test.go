package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"modelviewer/internal/model"
	"modelviewer/internal/repository"
)

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMediaMongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMediaMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		in := &model.Media{ID: "m-1", MediaURL: "http://x/a.glb", StorageKey: "3d-models/a.glb", FileType: model.FileKindGLB, CreatedAt: now}
		got, err := repo.Create(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, "m-1", got.ID)
		assert.NotSame(t, in, got)
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewMediaMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.Create(ctx, &model.Media{ID: "m-1"})

		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	mt.Run("find latest", func(mt *mtest.T) {
		repo := NewMediaMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "m-2"},
			{Key: "media_url", Value: "http://x/b.gltf"},
			{Key: "storage_key", Value: "3d-models/b.gltf"},
			{Key: "file_type", Value: "gltf"},
			{Key: "original_name", Value: "b.gltf"},
			{Key: "created_at", Value: now},
		}))

		got, err := repo.FindLatest(ctx)

		require.NoError(t, err)
		assert.Equal(t, "m-2", got.ID)
		assert.Equal(t, model.FileKindGLTF, got.FileType)
		assert.Equal(t, "3d-models/b.gltf", got.StorageKey)
	})

	mt.Run("find latest on empty collection", func(mt *mtest.T) {
		repo := NewMediaMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := repo.FindLatest(ctx)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		repo := NewMediaMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := repo.FindByID(ctx, "nope")

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMediaMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(t, repo.Delete(ctx, "m-1"))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewMediaMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(t, repo.Delete(ctx, "m-1"), repository.ErrNotFound)
	})
}
