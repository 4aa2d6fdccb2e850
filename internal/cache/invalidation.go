package cache

import (
	"ecommerce-service/internal/interfaces"
	"ecommerce-service/internal/metrics"
)

// Фиксированные ключи кэшируемых выборок.
const (
	KeyLatestProducts = "latest-products"
	KeyCategories     = "categories"
	KeyAdminProducts  = "admin-products"
	KeyAllOrders      = "all-orders"

	KeyAdminStats      = "admin-stats"
	KeyAdminPieCharts  = "admin-pie-charts"
	KeyAdminBarCharts  = "admin-bar-charts"
	KeyAdminLineCharts = "admin-line-charts"
)

func ProductKey(id string) string { return "product-" + id }

func OrderKey(id string) string { return "order-" + id }

func MyOrdersKey(userID string) string { return "my-orders-" + userID }

// InvalidationEvent описывает только что выполненную мутацию: какие ресурсы
// затронуты и их идентификаторы. Живет только на время вызова Invalidate.
type InvalidationEvent struct {
	Product bool
	Order   bool
	Admin   bool

	UserID     string
	OrderID    string
	ProductIDs []string
}

// AffectedKeys — чистая функция: по событию мутации вычисляет полный набор
// ключей, которые стали неактуальными. Правила применяются независимо и
// объединяются.
func (e InvalidationEvent) AffectedKeys() []string {
	var keys []string

	if e.Product {
		keys = append(keys, KeyLatestProducts, KeyCategories, KeyAdminProducts)
		for _, id := range e.ProductIDs {
			keys = append(keys, ProductKey(id))
		}
	}

	if e.Order {
		keys = append(keys, KeyAllOrders)
		if e.UserID != "" {
			keys = append(keys, MyOrdersKey(e.UserID))
		}
		if e.OrderID != "" {
			keys = append(keys, OrderKey(e.OrderID))
		}
	}

	if e.Admin {
		keys = append(keys,
			KeyAdminStats,
			KeyAdminPieCharts,
			KeyAdminBarCharts,
			KeyAdminLineCharts,
		)
	}

	return keys
}

// Invalidate удаляет из кэша все ключи, затронутые событием. Вызывается
// синхронно после записи в БД, до отправки ответа клиенту.
func Invalidate(c interfaces.Cache, e InvalidationEvent) {
	keys := e.AffectedKeys()
	if len(keys) == 0 {
		return
	}
	c.DeleteMany(keys)
	metrics.CacheInvalidations.Add(float64(len(keys)))
}
