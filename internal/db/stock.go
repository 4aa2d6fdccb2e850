package db

import (
	"context"
	"fmt"
	"log"

	"ecommerce-service/internal/interfaces"
	"ecommerce-service/models"
)

// ReduceOrderStock списывает остатки по всем позициям заказа. Каждое списание
// атомарно проверяет остаток; при нехватке по любой позиции уже примененные
// списания возвращаются и заказ целиком считается неуспешным.
func ReduceOrderStock(ctx context.Context, store interfaces.Database, items []models.OrderItem) error {
	for i, item := range items {
		if err := store.ReduceStock(ctx, item.ProductID, item.Quantity); err != nil {
			for _, applied := range items[:i] {
				if rerr := store.RestoreStock(ctx, applied.ProductID, applied.Quantity); rerr != nil {
					log.Printf("не удалось вернуть остаток товара %s: %v", applied.ProductID.Hex(), rerr)
				}
			}
			return fmt.Errorf("списание остатков: %w", err)
		}
	}
	return nil
}
