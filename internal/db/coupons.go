package db

import (
	"context"
	"errors"
	"fmt"

	"ecommerce-service/internal/metrics"
	"ecommerce-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (m *MongoDB) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, err := m.coupons.InsertOne(ctx, c); err != nil {
		metrics.DBOperations.WithLabelValues("save", "error").Inc()
		return err
	}
	metrics.DBOperations.WithLabelValues("save", "success").Inc()
	return nil
}

func (m *MongoDB) CouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := m.coupons.FindOne(ctx, bson.M{"couponCode": code}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.DBOperations.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("купон %q не найден: %w", code, err)
	} else if err != nil {
		metrics.DBOperations.WithLabelValues("get", "error").Inc()
		return nil, err
	}
	metrics.DBOperations.WithLabelValues("get", "success").Inc()
	return &c, nil
}

func (m *MongoDB) AllCoupons(ctx context.Context) ([]models.Coupon, error) {
	cursor, err := m.coupons.Find(ctx, bson.M{})
	if err != nil {
		metrics.DBOperations.WithLabelValues("find", "error").Inc()
		return nil, err
	}

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		metrics.DBOperations.WithLabelValues("find", "error").Inc()
		return nil, err
	}
	metrics.DBOperations.WithLabelValues("find", "success").Inc()
	return coupons, nil
}

func (m *MongoDB) DeleteCoupon(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.coupons.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		metrics.DBOperations.WithLabelValues("delete", "error").Inc()
		return err
	}
	if res.DeletedCount == 0 {
		metrics.DBOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("купон %s не найден: %w", id.Hex(), mongo.ErrNoDocuments)
	}
	metrics.DBOperations.WithLabelValues("delete", "success").Inc()
	return nil
}
