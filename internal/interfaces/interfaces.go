package interfaces

import (
	"context"
	"time"

	"ecommerce-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductQuery — параметры поиска по каталогу (GET /products/all).
type ProductQuery struct {
	Search   string
	Category string
	MaxPrice float64
	Sort     string // "asc" или "desc" по цене
	Page     int
	Limit    int
}

// Database интерфейс для работы с хранилищем документов
type Database interface {
	// товары
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	LatestProducts(ctx context.Context, limit int64) ([]models.Product, error)
	AllProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, q ProductQuery) ([]models.Product, int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountProductsInCategory(ctx context.Context, category string) (int64, error)
	CountProductsOutOfStock(ctx context.Context) (int64, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	ProductsCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Product, error)
	ReduceStock(ctx context.Context, productID primitive.ObjectID, quantity int) error
	RestoreStock(ctx context.Context, productID primitive.ObjectID, quantity int) error

	// заказы
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status string) error
	DeleteOrder(ctx context.Context, id primitive.ObjectID) error
	OrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	AllOrders(ctx context.Context) ([]models.Order, error)
	LatestOrders(ctx context.Context, limit int64) ([]models.Order, error)
	OrdersCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
	CountOrdersByStatus(ctx context.Context, status string) (int64, error)

	// пользователи
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	AllUsers(ctx context.Context) ([]models.User, error)
	UsersCreatedBetween(ctx context.Context, from, to time.Time) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	CountUsersByGender(ctx context.Context, gender string) (int64, error)
	CountUsersByRole(ctx context.Context, role string) (int64, error)

	// купоны
	CreateCoupon(ctx context.Context, c *models.Coupon) error
	CouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	AllCoupons(ctx context.Context) ([]models.Coupon, error)
	DeleteCoupon(ctx context.Context, id primitive.ObjectID) error

	Close(ctx context.Context) error
}

// Cache интерфейс для работы с кэшем. Значения хранятся сериализованными,
// типизацию поверх дают хелперы пакета cache.
type Cache interface {
	Has(key string) bool
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	DeleteMany(keys []string)
}
