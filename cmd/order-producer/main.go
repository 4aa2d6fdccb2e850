package main

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type shippingInfo struct {
	Address string `json:"address" fake:"{street}"`
	City    string `json:"city" fake:"{city}"`
	State   string `json:"state" fake:"{state}"`
	Country string `json:"country" fake:"{country}"`
	Zipcode int    `json:"zipcode" fake:"{number:10000,99999}"`
}

type orderItem struct {
	Name      string  `json:"name" fake:"{productname}"`
	Photo     string  `json:"photo" fake:"{url}"`
	Price     float64 `json:"price" fake:"{price:100,5000}"`
	Quantity  int     `json:"quantity" fake:"{number:1,5}"`
	ProductID string  `json:"productId"`
}

type order struct {
	ShippingInfo    shippingInfo `json:"shippingInfo"`
	User            string       `json:"user" fake:"{uuid}"`
	Subtotal        float64      `json:"subtotal"`
	Tax             float64      `json:"tax"`
	ShippingCharges float64      `json:"shippingCharges" fake:"{price:0,200}"`
	Discount        float64      `json:"discount" fake:"{price:0,300}"`
	Total           float64      `json:"total"`
	Status          string       `json:"status"`
	OrderedItems    []orderItem  `json:"orderedItems" fakesize:"1,3"`
}

// reconcile приводит суммы заказа в согласованный вид:
// subtotal = сумма позиций, total = subtotal + tax + shipping - discount.
func (o *order) reconcile() {
	subtotal := 0.0
	for i := range o.OrderedItems {
		o.OrderedItems[i].ProductID = primitive.NewObjectID().Hex()
		subtotal += o.OrderedItems[i].Price * float64(o.OrderedItems[i].Quantity)
	}
	o.Subtotal = math.Round(subtotal*100) / 100
	o.Tax = math.Round(o.Subtotal*0.18*100) / 100

	if o.Discount >= o.Subtotal {
		o.Discount = 0
	}

	o.Total = math.Round((o.Subtotal+o.Tax+o.ShippingCharges-o.Discount)*100) / 100
	o.Status = "Processing"
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("файл .env не найден, используем переменные окружения")
	}

	brokerAddress := os.Getenv("KAFKA_BROKER")
	if brokerAddress == "" {
		log.Fatal("переменная окружения KAFKA_BROKER не установлена")
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokerAddress),
		Topic:    "orders",
		Balancer: &kafka.LeastBytes{},
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("Ошибка закрытия writer: %v", err)
		}
	}()

	gofakeit.Seed(time.Now().UnixNano())

	log.Println("Запускаем продюсер...")

	// 5 валидных заказов
	for i := 0; i < 5; i++ {
		var o order
		if err := gofakeit.Struct(&o); err != nil {
			log.Printf("Ошибка генерации заказа: %v", err)
			continue
		}
		o.reconcile()

		orderJSON, err := json.Marshal(o)
		if err != nil {
			log.Printf("Ошибка маршалинга JSON: %v", err)
			continue
		}

		err = writer.WriteMessages(context.Background(),
			kafka.Message{
				Key:   []byte(o.User),
				Value: orderJSON,
			},
		)
		if err != nil {
			log.Printf("Ошибка отправки сообщения: %v", err)
		} else {
			log.Printf("Заказ отправлен: user=%s total=%.2f", o.User, o.Total)
		}

		time.Sleep(1 * time.Second)
	}

	// невалидное сообщение — уйдет консьюмером в DLQ
	err := writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte("err_" + gofakeit.UUID()),
			Value: []byte(`{"invalid": json}`),
		},
	)
	if err != nil {
		log.Printf("Ошибка отправки невалидного сообщения: %v", err)
	} else {
		log.Println("Невалидное сообщение отправлено")
	}

	log.Println("Продюсер завершил работу")
}
