package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"ecommerce-service/internal/cache"
	"ecommerce-service/internal/db"
	"ecommerce-service/internal/interfaces"
	"ecommerce-service/internal/metrics"
	"ecommerce-service/internal/validation"
	"ecommerce-service/models"

	"github.com/segmentio/kafka-go"
)

// Consumer принимает заказы из внешних каналов (мобильное приложение,
// импорт с маркетплейсов) и проводит их тем же путем, что и HTTP-чекаут:
// валидация, списание остатков, запись, инвалидация кэша.
type Consumer struct {
	reader      *kafka.Reader
	dlqWriter   *kafka.Writer
	db          interfaces.Database
	cache       interfaces.Cache
	maxRetries  int
	retryDelay  time.Duration
	backoffMode string // "fixed" или "exponential"
}

func NewConsumer(brokers []string, topic, groupID, dlqTopic string, database interfaces.Database, c interfaces.Cache) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		CommitInterval: 0,
	})
	return &Consumer{
		reader: r,
		db:     database,
		cache:  c,
		dlqWriter: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    dlqTopic,
			Balancer: &kafka.LeastBytes{},
		},
		maxRetries:  3,
		retryDelay:  2 * time.Second,
		backoffMode: "exponential", // можно "fixed"
	}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Println("консюмер остановился по контексту")
				return
			}
			log.Println("Ошибка выборки Kafka:", err)
			continue
		}

		if err := c.processWithRetry(ctx, m); err != nil {
			log.Printf("Ошибка после всех ретраев: %v", err)
			c.sendToDLQ(ctx, m.Value)
		} else {
			c.commit(ctx, m)
		}
	}
}

// обёртка с ретраями
func (c *Consumer) processWithRetry(ctx context.Context, m kafka.Message) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err = c.processMessage(ctx, m)
		if err == nil {
			return nil
		}

		// невалидное сообщение ретраить бессмысленно
		var pErr *permanentError
		if errors.As(err, &pErr) {
			return err
		}

		// если последняя попытка — выходим
		if attempt == c.maxRetries {
			break
		}

		// ждем перед повтором
		delay := c.retryDelay
		if c.backoffMode == "exponential" {
			delay = time.Duration(float64(c.retryDelay) * math.Pow(2, float64(attempt)))
		}
		log.Printf("ошибка обработки (попытка %d/%d): %v, жду %v перед повтором", attempt+1, c.maxRetries, err, delay)

		select {
		case <-time.After(delay):
			// продолжаем ретрай
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (c *Consumer) processMessage(ctx context.Context, m kafka.Message) error {
	start := time.Now()
	defer func() {
		metrics.OrderProcessingTime.WithLabelValues("kafka", "process_order").Observe(time.Since(start).Seconds())
	}()

	var order models.Order
	if err := json.Unmarshal(m.Value, &order); err != nil {
		metrics.OrdersProcessed.WithLabelValues("kafka", "validation_error").Inc()
		return &permanentError{err: fmt.Errorf("ошибка при преобразовании JSON: %w", err)}
	}

	// валидация заказа
	if err := validation.ValidateOrder(&order); err != nil {
		metrics.OrdersProcessed.WithLabelValues("kafka", "validation_error").Inc()
		return &permanentError{err: fmt.Errorf("невалидные данные заказа: %w", err)}
	}

	if err := db.ReduceOrderStock(ctx, c.db, order.OrderedItems); err != nil {
		if errors.Is(err, db.ErrInsufficientStock) {
			metrics.OrdersProcessed.WithLabelValues("kafka", "validation_error").Inc()
			return &permanentError{err: err}
		}
		metrics.OrdersProcessed.WithLabelValues("kafka", "error").Inc()
		return err
	}

	if err := c.db.CreateOrder(ctx, &order); err != nil {
		// возвращаем списанные остатки, иначе ретрай спишет их повторно
		for _, item := range order.OrderedItems {
			if rerr := c.db.RestoreStock(ctx, item.ProductID, item.Quantity); rerr != nil {
				log.Printf("не удалось вернуть остаток товара %s: %v", item.ProductID.Hex(), rerr)
			}
		}
		metrics.OrdersProcessed.WithLabelValues("kafka", "error").Inc()
		return fmt.Errorf("ошибка сохранения в БД: %w", err)
	}

	cache.Invalidate(c.cache, cache.InvalidationEvent{
		Product:    true,
		Order:      true,
		Admin:      true,
		UserID:     order.User,
		ProductIDs: orderProductIDs(order.OrderedItems),
	})

	metrics.OrdersProcessed.WithLabelValues("kafka", "success").Inc()
	log.Printf("Заказ %s успешно обработан и сохранен", order.ID.Hex())
	return nil
}

func (c *Consumer) commit(ctx context.Context, m kafka.Message) {
	if err := c.reader.CommitMessages(ctx, m); err != nil {
		log.Println("Ошибка коммита:", err)
	}
}

func (c *Consumer) sendToDLQ(ctx context.Context, msg []byte) {
	err := c.dlqWriter.WriteMessages(ctx, kafka.Message{
		Value: msg,
	})
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("контекст отменён, выйдем")
		case errors.Is(err, context.DeadlineExceeded):
			log.Println("таймаут при записи в DLQ")
		default:
			log.Println("не удалось отправить в DLQ:", err)
		}
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Println("Ошибка закрытия reader:", err)
	}
	if err := c.dlqWriter.Close(); err != nil {
		log.Println("Ошибка закрытия DLQ writer:", err)
	}
}

// permanentError — сообщение не станет валидным от повторов
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

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
