package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrVersionConflict is returned when a version-checked write finds the document changed.
var ErrVersionConflict = errors.New("document was modified concurrently")

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
