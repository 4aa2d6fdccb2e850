package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ecommerce-service/internal/cache"
	"ecommerce-service/internal/db"
	"ecommerce-service/internal/metrics"
	"ecommerce-service/internal/validation"
	"ecommerce-service/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func (h *Handler) NewOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.Tracer.Start(r.Context(), "http.new_order")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.OrderProcessingTime.WithLabelValues("api", "new_order").Observe(time.Since(start).Seconds())
	}()

	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		errMsg := "некорректный JSON"
		writeError(w, http.StatusBadRequest, errMsg)
		span.RecordError(err)
		span.SetStatus(codes.Error, errMsg)
		metrics.OrdersProcessed.WithLabelValues("api", "validation_error").Inc()
		return
	}

	if err := validation.ValidateOrder(&order); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		span.RecordError(err)
		span.SetStatus(codes.Error, "валидация не пройдена")
		metrics.OrdersProcessed.WithLabelValues("api", "validation_error").Inc()
		return
	}

	// сначала списываем остатки: при нехватке по любой позиции заказ
	// не создается вовсе
	if err := db.ReduceOrderStock(ctx, h.DB, order.OrderedItems); err != nil {
		writeStoreError(w, err, "товар не найден")
		span.RecordError(err)
		span.SetStatus(codes.Error, "списание остатков не удалось")
		metrics.OrdersProcessed.WithLabelValues("api", "error").Inc()
		return
	}

	if err := h.DB.CreateOrder(ctx, &order); err != nil {
		for _, item := range order.OrderedItems {
			if rerr := h.DB.RestoreStock(ctx, item.ProductID, item.Quantity); rerr != nil {
				log.Printf("не удалось вернуть остаток товара %s: %v", item.ProductID.Hex(), rerr)
			}
		}
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		span.RecordError(err)
		span.SetStatus(codes.Error, "сохранение заказа не удалось")
		metrics.OrdersProcessed.WithLabelValues("api", "error").Inc()
		return
	}

	cache.Invalidate(h.Cache, cache.InvalidationEvent{
		Product:    true,
		Order:      true,
		Admin:      true,
		UserID:     order.User,
		ProductIDs: orderProductIDs(order.OrderedItems),
	})

	span.SetAttributes(attribute.String("order.id", order.ID.Hex()))
	span.SetStatus(codes.Ok, "заказ создан")
	metrics.OrdersProcessed.WithLabelValues("api", "success").Inc()

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Заказ успешно создан",
	})
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "пожалуйста, войдите в систему")
		return
	}

	key := cache.MyOrdersKey(userID)
	orders, ok := cache.Lookup[[]models.Order](h.Cache, key)
	if !ok {
		var err error
		orders, err = h.DB.OrdersByUser(r.Context(), userID)
		if err != nil {
			writeStoreError(w, err, "заказы не найдены")
			return
		}
		if err := cache.Store(h.Cache, key, orders); err != nil {
			writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"myOrders": orders,
	})
}

func (h *Handler) AllOrders(w http.ResponseWriter, r *http.Request) {
	orders, ok := cache.Lookup[[]models.Order](h.Cache, cache.KeyAllOrders)
	if !ok {
		var err error
		orders, err = h.DB.AllOrders(r.Context())
		if err != nil {
			writeStoreError(w, err, "заказы не найдены")
			return
		}
		if err := cache.Store(h.Cache, cache.KeyAllOrders, orders); err != nil {
			writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"allOrders": orders,
	})
}

func (h *Handler) SingleOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.Tracer.Start(r.Context(), "http.get_order")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		errMsg := "неверный ID"
		writeError(w, http.StatusBadRequest, errMsg)
		span.SetStatus(codes.Error, errMsg)
		return
	}
	span.SetAttributes(attribute.String("order.id", id.Hex()))

	key := cache.OrderKey(id.Hex())
	order, ok := cache.Lookup[*models.Order](h.Cache, key)
	if !ok {
		order, err = h.DB.GetOrder(ctx, id)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "заказ не найден")
			writeStoreError(w, err, "заказ не найден")
			return
		}
		if err := cache.Store(h.Cache, key, order); err != nil {
			writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
			return
		}
	} else {
		log.Printf("Заказ %s найден в кэше", id.Hex())
	}

	span.SetStatus(codes.Ok, "заказ получен")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"singleOrder": order,
	})
}

// ProcessOrder двигает статус заказа ровно на один шаг вперед.
func (h *Handler) ProcessOrder(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "неверный ID")
		return
	}

	order, err := h.DB.GetOrder(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "заказ не найден")
		return
	}

	if err := h.DB.UpdateOrderStatus(r.Context(), id, order.NextStatus()); err != nil {
		writeStoreError(w, err, "заказ не найден")
		return
	}

	cache.Invalidate(h.Cache, cache.InvalidationEvent{
		Order:   true,
		Admin:   true,
		UserID:  order.User,
		OrderID: id.Hex(),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Заказ обработан",
	})
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "неверный ID")
		return
	}

	order, err := h.DB.GetOrder(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "заказ не найден")
		return
	}

	if err := h.DB.DeleteOrder(r.Context(), id); err != nil {
		writeStoreError(w, err, "заказ не найден")
		return
	}

	cache.Invalidate(h.Cache, cache.InvalidationEvent{
		Order:   true,
		Admin:   true,
		UserID:  order.User,
		OrderID: id.Hex(),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Заказ удален",
	})
}

// orderProductIDs — уникальные ID товаров заказа для инвалидации кэша.
func orderProductIDs(items []models.OrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		hex := item.ProductID.Hex()
		if _, ok := seen[hex]; ok {
			continue
		}
		seen[hex] = struct{}{}
		ids = append(ids, hex)
	}
	return ids
}
