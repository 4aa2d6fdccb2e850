package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-service/internal/metrics"
	"ecommerce-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) CreateOrder(ctx context.Context, o *models.Order) error {
	start := time.Now()
	defer func() {
		metrics.OrderProcessingTime.WithLabelValues("db", "save_order").Observe(time.Since(start).Seconds())
	}()

	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.Status == "" {
		o.Status = models.StatusProcessing
	}
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	if _, err := m.orders.InsertOne(ctx, o); err != nil {
		metrics.DBOperations.WithLabelValues("save", "error").Inc()
		return err
	}
	metrics.DBOperations.WithLabelValues("save", "success").Inc()
	return nil
}

func (m *MongoDB) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	start := time.Now()
	defer func() {
		metrics.OrderProcessingTime.WithLabelValues("db", "get_order").Observe(time.Since(start).Seconds())
	}()

	var o models.Order
	err := m.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.DBOperations.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("заказ %s не найден: %w", id.Hex(), err)
	} else if err != nil {
		metrics.DBOperations.WithLabelValues("get", "error").Inc()
		return nil, err
	}
	metrics.DBOperations.WithLabelValues("get", "success").Inc()
	return &o, nil
}

func (m *MongoDB) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := m.orders.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		metrics.DBOperations.WithLabelValues("update", "error").Inc()
		return err
	}
	if res.MatchedCount == 0 {
		metrics.DBOperations.WithLabelValues("update", "error").Inc()
		return fmt.Errorf("заказ %s не найден: %w", id.Hex(), mongo.ErrNoDocuments)
	}
	metrics.DBOperations.WithLabelValues("update", "success").Inc()
	return nil
}

func (m *MongoDB) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		metrics.DBOperations.WithLabelValues("delete", "error").Inc()
		return err
	}
	if res.DeletedCount == 0 {
		metrics.DBOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("заказ %s не найден: %w", id.Hex(), mongo.ErrNoDocuments)
	}
	metrics.DBOperations.WithLabelValues("delete", "success").Inc()
	return nil
}

func (m *MongoDB) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return m.findOrders(ctx, bson.M{"user": userID}, nil)
}

func (m *MongoDB) AllOrders(ctx context.Context) ([]models.Order, error) {
	return m.findOrders(ctx, bson.M{}, nil)
}

func (m *MongoDB) LatestOrders(ctx context.Context, limit int64) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	return m.findOrders(ctx, bson.M{}, opts)
}

func (m *MongoDB) OrdersCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	return m.findOrders(ctx, createdBetween(from, to), nil)
}

func (m *MongoDB) CountOrdersByStatus(ctx context.Context, status string) (int64, error) {
	count, err := m.orders.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		metrics.DBOperations.WithLabelValues("count", "error").Inc()
		return 0, err
	}
	metrics.DBOperations.WithLabelValues("count", "success").Inc()
	return count, nil
}

func (m *MongoDB) findOrders(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = m.orders.Find(ctx, filter, opts)
	} else {
		cursor, err = m.orders.Find(ctx, filter)
	}
	if err != nil {
		metrics.DBOperations.WithLabelValues("find", "error").Inc()
		return nil, err
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		metrics.DBOperations.WithLabelValues("find", "error").Inc()
		return nil, err
	}
	metrics.DBOperations.WithLabelValues("find", "success").Inc()
	return orders, nil
}
