package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-service/internal/metrics"
	"ecommerce-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (m *MongoDB) CreateUser(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := m.users.InsertOne(ctx, u); err != nil {
		metrics.DBOperations.WithLabelValues("save", "error").Inc()
		return err
	}
	metrics.DBOperations.WithLabelValues("save", "success").Inc()
	return nil
}

func (m *MongoDB) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := m.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.DBOperations.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("пользователь %s не найден: %w", id, err)
	} else if err != nil {
		metrics.DBOperations.WithLabelValues("get", "error").Inc()
		return nil, err
	}
	metrics.DBOperations.WithLabelValues("get", "success").Inc()
	return &u, nil
}

func (m *MongoDB) DeleteUser(ctx context.Context, id string) error {
	res, err := m.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		metrics.DBOperations.WithLabelValues("delete", "error").Inc()
		return err
	}
	if res.DeletedCount == 0 {
		metrics.DBOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("пользователь %s не найден: %w", id, mongo.ErrNoDocuments)
	}
	metrics.DBOperations.WithLabelValues("delete", "success").Inc()
	return nil
}

func (m *MongoDB) AllUsers(ctx context.Context) ([]models.User, error) {
	return m.findUsers(ctx, bson.M{})
}

func (m *MongoDB) UsersCreatedBetween(ctx context.Context, from, to time.Time) ([]models.User, error) {
	return m.findUsers(ctx, createdBetween(from, to))
}

func (m *MongoDB) CountUsers(ctx context.Context) (int64, error) {
	return m.countUsers(ctx, bson.M{})
}

func (m *MongoDB) CountUsersByGender(ctx context.Context, gender string) (int64, error) {
	return m.countUsers(ctx, bson.M{"gender": gender})
}

func (m *MongoDB) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	return m.countUsers(ctx, bson.M{"role": role})
}

func (m *MongoDB) findUsers(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := m.users.Find(ctx, filter)
	if err != nil {
		metrics.DBOperations.WithLabelValues("find", "error").Inc()
		return nil, err
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		metrics.DBOperations.WithLabelValues("find", "error").Inc()
		return nil, err
	}
	metrics.DBOperations.WithLabelValues("find", "success").Inc()
	return users, nil
}

func (m *MongoDB) countUsers(ctx context.Context, filter bson.M) (int64, error) {
	count, err := m.users.CountDocuments(ctx, filter)
	if err != nil {
		metrics.DBOperations.WithLabelValues("count", "error").Inc()
		return 0, err
	}
	metrics.DBOperations.WithLabelValues("count", "success").Inc()
	return count, nil
}
