package db

import (
	"context"
	"errors"
	"time"

	"ecommerce-service/internal/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var _ interfaces.Database = (*MongoDB)(nil)

// ErrInsufficientStock возвращается при попытке списать больше товара,
// чем есть на складе.
var ErrInsufficientStock = errors.New("недостаточно товара на складе")

type MongoDB struct {
	client   *mongo.Client
	products *mongo.Collection
	orders   *mongo.Collection
	users    *mongo.Collection
	coupons  *mongo.Collection
}

func NewMongoDB(ctx context.Context, uri, dbName string) (*MongoDB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	database := client.Database(dbName)
	return &MongoDB{
		client:   client,
		products: database.Collection("products"),
		orders:   database.Collection("orders"),
		users:    database.Collection("users"),
		coupons:  database.Collection("coupons"),
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// createdBetween — общий фильтр по дате создания для статистики.
func createdBetween(from, to time.Time) bson.M {
	return bson.M{
		"createdAt": bson.M{
			"$gte": from,
			"$lte": to,
		},
	}
}
