package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Загружаем .env
	if err := godotenv.Load(); err != nil {
		log.Println("файл .env не найден")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		log.Fatal("MONGO_URI is not set")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "Ecommerce"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Не удалось открыть базу данных: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("Ошибка закрытия DB: %v", err)
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}
	log.Println("подключение успешно")

	driver, err := mongodb.WithInstance(client, &mongodb.Config{DatabaseName: dbName})
	if err != nil {
		log.Fatalf("Не удалось создать драйвер миграций: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", dbName, driver)
	if err != nil {
		log.Fatalf("Не удалось создать мигратор: %v", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("миграции уже применены")
			return
		}
		log.Fatalf("Ошибка применения миграций: %v", err)
	}
	log.Println("миграции применены")
}
