package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modshop/internal/database"
	"modshop/internal/models"
)

type OrderRepository interface {
	CRUDRepository[models.Order]
	SetEmailStatus(ctx context.Context, id primitive.ObjectID, status string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type orderRepository struct {
	*mongoRepository[models.Order]
}

func NewOrderRepository(db database.Service) OrderRepository {
	return &orderRepository{newMongoRepository[models.Order](db, database.OrdersCollection, "order")}
}

func (r *orderRepository) SetEmailStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.Update(ctx, id, bson.M{"emailStatus": status, "updatedAt": time.Now().UTC()})
	return err
}

func (r *orderRepository) CountByStatus(ctx context.Context) (_ map[string]int64, err error) {
	defer r.observe("countByStatus", &err)()

	pipeline := bson.A{
		bson.M{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := r.coll().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders by status: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding order status counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
