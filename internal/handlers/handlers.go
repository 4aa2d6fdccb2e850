package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"ecommerce-service/internal/db"
	"ecommerce-service/internal/interfaces"
	"ecommerce-service/internal/stats"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	Cache  interfaces.Cache
	DB     interfaces.Database
	Stats  *stats.Aggregator
	Tracer trace.Tracer

	ProductsPerPage int
}

func NewHandler(c interfaces.Cache, database interfaces.Database, agg *stats.Aggregator, tracer trace.Tracer, productsPerPage int) *Handler {
	return &Handler{
		Cache:           c,
		DB:              database,
		Stats:           agg,
		Tracer:          tracer,
		ProductsPerPage: productsPerPage,
	}
}

// writeJSON сериализует ответ; все успешные ответы несут success=true в теле.
func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ошибка сериализации JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// writeStoreError переводит ошибку хранилища в HTTP-статус: отсутствие
// документа — ошибка клиента, остальное — ошибка сервера.
func writeStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		writeError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	if errors.Is(err, db.ErrInsufficientStock) {
		writeError(w, http.StatusBadRequest, "недостаточно товара на складе")
		return
	}
	writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

var promHandler = promhttp.Handler()

func (h *Handler) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	promHandler.ServeHTTP(w, r)
}
