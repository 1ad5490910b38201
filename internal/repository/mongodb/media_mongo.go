package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"modelviewer/internal/model"
	"modelviewer/internal/repository"
)

// MediaMongo is a MongoDB implementation of repository.MediaRepository.
// Documents use the service-assigned UUID string as _id.
type MediaMongo struct {
	col *mongo.Collection
}

func NewMediaMongo(col *mongo.Collection) *MediaMongo {
	return &MediaMongo{col: col}
}

var _ repository.MediaRepository = (*MediaMongo)(nil)

var latestSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// EnsureIndexes creates the index backing FindLatest.
func (r *MediaMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    latestSort,
		Options: options.Index().SetName("media_created_idx"),
	})
	return err
}

func (r *MediaMongo) Create(ctx context.Context, m *model.Media) (*model.Media, error) {
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return nil, translate(err)
	}
	out := *m
	return &out, nil
}

func (r *MediaMongo) FindLatest(ctx context.Context) (*model.Media, error) {
	var m model.Media
	opts := options.FindOne().SetSort(latestSort)
	if err := r.col.FindOne(ctx, bson.D{}, opts).Decode(&m); err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MediaMongo) FindByID(ctx context.Context, id string) (*model.Media, error) {
	var m model.Media
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MediaMongo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
