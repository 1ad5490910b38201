package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"modelviewer/internal/model"
	"modelviewer/internal/repository"
)

// SettingsMongo is a MongoDB implementation of repository.SettingsRepository.
type SettingsMongo struct {
	col *mongo.Collection
}

func NewSettingsMongo(col *mongo.Collection) *SettingsMongo {
	return &SettingsMongo{col: col}
}

var _ repository.SettingsRepository = (*SettingsMongo)(nil)

// EnsureIndexes creates the unique media_id index that keeps one record per media.
func (r *SettingsMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "media_id", Value: 1}},
		Options: options.Index().SetName("settings_media_uidx").SetUnique(true),
	})
	return err
}

// UpsertByMediaID overwrites every editable field; _id and created_at are
// only written when the document is inserted. Two concurrent first saves
// both try to insert; the loser hits the unique index and retries once,
// which then matches the winner's document and updates it.
func (r *SettingsMongo) UpsertByMediaID(ctx context.Context, s *model.Settings) (*model.Settings, error) {
	filter := bson.M{"media_id": s.MediaID}
	update := bson.M{
		"$set": bson.M{
			"background_color": s.BackgroundColor,
			"wireframe_mode":   s.WireframeMode,
			"material_type":    s.MaterialType,
			"hdri_preset":      s.HDRIPreset,
			"updated_at":       s.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        s.ID,
			"created_at": s.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out model.Settings
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if mongo.IsDuplicateKeyError(err) {
		err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	}
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *SettingsMongo) ListByMediaID(ctx context.Context, mediaID string) ([]model.Settings, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"media_id": mediaID}, opts)
	if err != nil {
		return nil, translate(err)
	}
	defer cur.Close(ctx)

	out := make([]model.Settings, 0, 1)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SettingsMongo) DeleteByMediaID(ctx context.Context, mediaID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"media_id": mediaID})
	return translate(err)
}
