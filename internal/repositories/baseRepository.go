package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"modshop/internal/database"
	"modshop/internal/utils"
)

// CRUDRepository is the document-level contract shared by every resource collection.
// Callers assign the document ID before Create.
type CRUDRepository[T any] interface {
	Create(ctx context.Context, doc *T) (*T, error)
	Find(ctx context.Context, filter bson.M) ([]T, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Replace(ctx context.Context, id primitive.ObjectID, doc *T) (*mongo.UpdateResult, error)
	Update(ctx context.Context, id primitive.ObjectID, updateFields bson.M) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
}

type mongoRepository[T any] struct {
	db         database.Service
	collection string
	repository string
}

func newMongoRepository[T any](db database.Service, collection, repository string) *mongoRepository[T] {
	return &mongoRepository[T]{db: db, collection: collection, repository: repository}
}

func (r *mongoRepository[T]) coll() *mongo.Collection {
	return r.db.Database().Collection(r.collection)
}

// observe starts a query timer. The returned func records the duration and, when *errp
// holds an error other than ErrNoDocuments, counts the failure.
func (r *mongoRepository[T]) observe(queryType string, errp *error) func() {
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, r.repository, status).Observe(v)
	}))
	return func() {
		if *errp != nil && !errors.Is(*errp, mongo.ErrNoDocuments) {
			status = "error"
			utils.DBQueryErrorsTotal.WithLabelValues(queryType, r.repository).Inc()
		}
		timer.ObserveDuration()
	}
}

func (r *mongoRepository[T]) Create(ctx context.Context, doc *T) (_ *T, err error) {
	defer r.observe("create", &err)()

	if _, err = r.coll().InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert %s: %w", r.repository, err)
	}
	return doc, nil
}

// Find returns matching documents, newest first.
func (r *mongoRepository[T]) Find(ctx context.Context, filter bson.M) (_ []T, err error) {
	defer r.observe("find", &err)()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching %s documents: %w", r.repository, err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding %s documents: %w", r.repository, err)
	}
	return docs, nil
}

func (r *mongoRepository[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return r.findOne(ctx, "findById", bson.M{"_id": id})
}

// findOne passes mongo.ErrNoDocuments through unwrapped.
func (r *mongoRepository[T]) findOne(ctx context.Context, queryType string, filter bson.M) (_ *T, err error) {
	defer r.observe(queryType, &err)()

	var doc T
	if err = r.coll().FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *mongoRepository[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) (_ *mongo.UpdateResult, err error) {
	defer r.observe("replace", &err)()

	result, err := r.coll().ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to replace %s: %w", r.repository, err)
	}
	return result, nil
}

func (r *mongoRepository[T]) Update(ctx context.Context, id primitive.ObjectID, updateFields bson.M) (_ *mongo.UpdateResult, err error) {
	defer r.observe("update", &err)()

	result, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateFields})
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", r.repository, err)
	}
	return result, nil
}

func (r *mongoRepository[T]) Delete(ctx context.Context, id primitive.ObjectID) (_ *mongo.DeleteResult, err error) {
	defer r.observe("delete", &err)()

	result, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", r.repository, err)
	}
	return result, nil
}

func (r *mongoRepository[T]) Count(ctx context.Context, filter bson.M) (_ int64, err error) {
	defer r.observe("count", &err)()

	count, err := r.coll().CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s documents: %w", r.repository, err)
	}
	return count, nil
}
