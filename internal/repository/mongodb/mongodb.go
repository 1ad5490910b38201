// Package mongodb stores media and settings as MongoDB documents.
package mongodb

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"modelviewer/internal/repository"
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(repository.ErrConflict, err)
	default:
		return err
	}
}
