package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-service/internal/interfaces"
	"ecommerce-service/internal/metrics"
	"ecommerce-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := m.products.InsertOne(ctx, p); err != nil {
		metrics.DBOperations.WithLabelValues("save", "error").Inc()
		return err
	}
	metrics.DBOperations.WithLabelValues("save", "success").Inc()
	return nil
}

func (m *MongoDB) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := m.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.DBOperations.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("товар %s не найден: %w", id.Hex(), err)
	} else if err != nil {
		metrics.DBOperations.WithLabelValues("get", "error").Inc()
		return nil, err
	}
	metrics.DBOperations.WithLabelValues("get", "success").Inc()
	return &p, nil
}

func (m *MongoDB) UpdateProduct(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now()
	res, err := m.products.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		metrics.DBOperations.WithLabelValues("update", "error").Inc()
		return err
	}
	if res.MatchedCount == 0 {
		metrics.DBOperations.WithLabelValues("update", "error").Inc()
		return fmt.Errorf("товар %s не найден: %w", p.ID.Hex(), mongo.ErrNoDocuments)
	}
	metrics.DBOperations.WithLabelValues("update", "success").Inc()
	return nil
}

func (m *MongoDB) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		metrics.DBOperations.WithLabelValues("delete", "error").Inc()
		return err
	}
	if res.DeletedCount == 0 {
		metrics.DBOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("товар %s не найден: %w", id.Hex(), mongo.ErrNoDocuments)
	}
	metrics.DBOperations.WithLabelValues("delete", "success").Inc()
	return nil
}

func (m *MongoDB) LatestProducts(ctx context.Context, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	return m.findProducts(ctx, bson.M{}, opts)
}

func (m *MongoDB) AllProducts(ctx context.Context) ([]models.Product, error) {
	return m.findProducts(ctx, bson.M{}, nil)
}

// SearchProducts возвращает страницу каталога и общее число товаров,
// попавших под фильтр.
func (m *MongoDB) SearchProducts(ctx context.Context, q interfaces.ProductQuery) ([]models.Product, int64, error) {
	filter := bson.M{}
	if q.Search != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: q.Search, Options: "i"}}
	}
	if q.MaxPrice > 0 {
		filter["price"] = bson.M{"$lte": q.MaxPrice}
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}

	opts := options.Find()
	switch q.Sort {
	case "asc":
		opts.SetSort(bson.M{"price": 1})
	case "desc":
		opts.SetSort(bson.M{"price": -1})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
		if q.Page > 1 {
			opts.SetSkip(int64(q.Limit * (q.Page - 1)))
		}
	}

	products, err := m.findProducts(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	total, err := m.products.CountDocuments(ctx, filter)
	if err != nil {
		metrics.DBOperations.WithLabelValues("count", "error").Inc()
		return nil, 0, err
	}
	return products, total, nil
}

func (m *MongoDB) CountProducts(ctx context.Context) (int64, error) {
	return m.countProducts(ctx, bson.M{})
}

func (m *MongoDB) CountProductsInCategory(ctx context.Context, category string) (int64, error) {
	return m.countProducts(ctx, bson.M{"category": category})
}

func (m *MongoDB) CountProductsOutOfStock(ctx context.Context) (int64, error) {
	return m.countProducts(ctx, bson.M{"stock": 0})
}

func (m *MongoDB) DistinctCategories(ctx context.Context) ([]string, error) {
	raw, err := m.products.Distinct(ctx, "category", bson.M{})
	if err != nil {
		metrics.DBOperations.WithLabelValues("distinct", "error").Inc()
		return nil, err
	}
	categories := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	metrics.DBOperations.WithLabelValues("distinct", "success").Inc()
	return categories, nil
}

func (m *MongoDB) ProductsCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Product, error) {
	return m.findProducts(ctx, createdBetween(from, to), nil)
}

// ReduceStock атомарно списывает количество с проверкой остатка: фильтр
// пропускает документ только при stock >= quantity.
func (m *MongoDB) ReduceStock(ctx context.Context, productID primitive.ObjectID, quantity int) error {
	res, err := m.products.UpdateOne(ctx,
		bson.M{"_id": productID, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
	)
	if err != nil {
		metrics.DBOperations.WithLabelValues("update", "error").Inc()
		return err
	}
	if res.MatchedCount == 0 {
		metrics.DBOperations.WithLabelValues("update", "error").Inc()
		// различаем отсутствие товара и нехватку остатка
		count, cerr := m.products.CountDocuments(ctx, bson.M{"_id": productID})
		if cerr != nil {
			return cerr
		}
		if count == 0 {
			return fmt.Errorf("товар %s не найден: %w", productID.Hex(), mongo.ErrNoDocuments)
		}
		return fmt.Errorf("товар %s: %w", productID.Hex(), ErrInsufficientStock)
	}
	metrics.DBOperations.WithLabelValues("update", "success").Inc()
	return nil
}

// RestoreStock возвращает списанное количество (компенсация при неудачном заказе).
func (m *MongoDB) RestoreStock(ctx context.Context, productID primitive.ObjectID, quantity int) error {
	_, err := m.products.UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$inc": bson.M{"stock": quantity}},
	)
	if err != nil {
		metrics.DBOperations.WithLabelValues("update", "error").Inc()
		return err
	}
	metrics.DBOperations.WithLabelValues("update", "success").Inc()
	return nil
}

func (m *MongoDB) findProducts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = m.products.Find(ctx, filter, opts)
	} else {
		cursor, err = m.products.Find(ctx, filter)
	}
	if err != nil {
		metrics.DBOperations.WithLabelValues("find", "error").Inc()
		return nil, err
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		metrics.DBOperations.WithLabelValues("find", "error").Inc()
		return nil, err
	}
	metrics.DBOperations.WithLabelValues("find", "success").Inc()
	return products, nil
}

func (m *MongoDB) countProducts(ctx context.Context, filter bson.M) (int64, error) {
	count, err := m.products.CountDocuments(ctx, filter)
	if err != nil {
		metrics.DBOperations.WithLabelValues("count", "error").Inc()
		return 0, err
	}
	metrics.DBOperations.WithLabelValues("count", "success").Inc()
	return count, nil
}
