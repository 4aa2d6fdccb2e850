package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"ecommerce-service/internal/cache"
	"ecommerce-service/internal/db"
	"ecommerce-service/internal/handlers"
	"ecommerce-service/internal/interfaces"
	"ecommerce-service/internal/kafka"
	"ecommerce-service/internal/middleware"
	"ecommerce-service/internal/stats"
	"ecommerce-service/internal/tracing"

	"github.com/gorilla/mux"
)

func main() {
	kafkaBrokers := []string{"kafka:9092"}
	if val := os.Getenv("KAFKA_BROKERS"); val != "" {
		kafkaBrokers = strings.Split(val, ",")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is not set")
	}
	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "Ecommerce"
	}

	productsPerPage := 8
	if val := os.Getenv("PRODUCT_PER_PAGE"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 {
			log.Fatalf("некорректный PRODUCT_PER_PAGE: %q", val)
		}
		productsPerPage = n
	}

	tp, err := tracing.InitTracer("ecommerce-service", os.Getenv("JAEGER_ENDPOINT"))
	if err != nil {
		log.Fatalf("Не удалось инициализировать трейсинг: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Ошибка остановки трейсинга: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var dbConn interfaces.Database
	dbConn, err = db.NewMongoDB(ctx, mongoURI, mongoDB)
	if err != nil {
		log.Fatal("Не удалось подключиться к базе данных:", err)
	}
	defer func() {
		if err := dbConn.Close(context.Background()); err != nil {
			log.Printf("Ошибка закрытия DB: %v", err)
		}
	}()

	var cacheStore interfaces.Cache = cache.New()

	// прогреваем горячие ключи каталога
	log.Println("Прогрев кэша каталога...")
	warmCache(ctx, dbConn, cacheStore)

	// Kafka Consumer (заказы из внешних каналов)
	consumer := kafka.NewConsumer(
		kafkaBrokers,
		"orders",
		"ecommerce_service_group",
		"orders_dlq",
		dbConn,
		cacheStore,
	)
	defer consumer.Close()
	go consumer.Run(ctx)

	aggregator := stats.New(dbConn, cacheStore)
	handler := handlers.NewHandler(cacheStore, dbConn, aggregator, tracing.GetTracer("handlers"), productsPerPage)

	router := newRouter(handler, dbConn)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Println("Запуск сервера на :" + port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Корректное завершение по SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("отключение сервера...")

	ctxTimeout, cancelTimeout := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelTimeout()
	if err := srv.Shutdown(ctxTimeout); err != nil {
		log.Fatalf("Сервер принудительно отключен: %v", err)
	}
}

func newRouter(h *handlers.Handler, database interfaces.Database) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.MetricsMiddleware)

	router.HandleFunc("/metrics", h.MetricsHandler)

	admin := middleware.AdminOnly(database)
	api := router.PathPrefix("/api/v1").Subrouter()

	// пользователи
	api.HandleFunc("/user/new", h.NewUser).Methods(http.MethodPost)
	api.Handle("/user/all", admin(http.HandlerFunc(h.AllUsers))).Methods(http.MethodGet)
	api.HandleFunc("/user/{id}", h.GetUser).Methods(http.MethodGet)
	api.Handle("/user/{id}", admin(http.HandlerFunc(h.DeleteUser))).Methods(http.MethodDelete)

	// товары
	api.Handle("/products/new", admin(http.HandlerFunc(h.NewProduct))).Methods(http.MethodPost)
	api.HandleFunc("/products/latest", h.LatestProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/categories", h.Categories).Methods(http.MethodGet)
	api.Handle("/products/admin-products", admin(http.HandlerFunc(h.AdminProducts))).Methods(http.MethodGet)
	api.HandleFunc("/products/all", h.AllProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.SingleProduct).Methods(http.MethodGet)
	api.Handle("/products/{id}", admin(http.HandlerFunc(h.UpdateProduct))).Methods(http.MethodPut)
	api.Handle("/products/{id}", admin(http.HandlerFunc(h.DeleteProduct))).Methods(http.MethodDelete)

	// заказы
	api.HandleFunc("/orders/new", h.NewOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/my", h.MyOrders).Methods(http.MethodGet)
	api.Handle("/orders/all", admin(http.HandlerFunc(h.AllOrders))).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", h.SingleOrder).Methods(http.MethodGet)
	api.Handle("/orders/{id}", admin(http.HandlerFunc(h.ProcessOrder))).Methods(http.MethodPut)
	api.Handle("/orders/{id}", admin(http.HandlerFunc(h.DeleteOrder))).Methods(http.MethodDelete)

	// платежи и купоны
	api.HandleFunc("/payment/create", h.CreatePayment).Methods(http.MethodPost)
	api.Handle("/payment/coupon/new", admin(http.HandlerFunc(h.NewCoupon))).Methods(http.MethodPost)
	api.Handle("/payment/coupon/all", admin(http.HandlerFunc(h.AllCoupons))).Methods(http.MethodGet)
	api.HandleFunc("/payment/discount", h.ApplyDiscount).Methods(http.MethodGet)
	api.Handle("/payment/coupon/{id}", admin(http.HandlerFunc(h.DeleteCoupon))).Methods(http.MethodDelete)

	// дашборд
	api.Handle("/dashboard/stats", admin(http.HandlerFunc(h.DashboardStats))).Methods(http.MethodGet)
	api.Handle("/dashboard/pie", admin(http.HandlerFunc(h.PieCharts))).Methods(http.MethodGet)
	api.Handle("/dashboard/bar", admin(http.HandlerFunc(h.BarChart))).Methods(http.MethodGet)
	api.Handle("/dashboard/line", admin(http.HandlerFunc(h.LineChart))).Methods(http.MethodGet)

	return router
}

// warmCache наполняет кэш самыми частыми выборками каталога. Неудача не
// фатальна: кэш добьется первым же запросом.
func warmCache(ctx context.Context, database interfaces.Database, c interfaces.Cache) {
	products, err := database.LatestProducts(ctx, 5)
	if err != nil {
		log.Printf("Прогрев кэша не удался: %v", err)
		return
	}
	if err := cache.Store(c, cache.KeyLatestProducts, products); err != nil {
		log.Printf("Прогрев кэша не удался: %v", err)
		return
	}

	categories, err := database.DistinctCategories(ctx)
	if err != nil {
		log.Printf("Прогрев кэша не удался: %v", err)
		return
	}
	if err := cache.Store(c, cache.KeyCategories, categories); err != nil {
		log.Printf("Прогрев кэша не удался: %v", err)
		return
	}

	log.Printf("Кэш прогрет: %d товаров, %d категорий", len(products), len(categories))
}
