package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"ecommerce-service/internal/interfaces"
	"ecommerce-service/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminOnly пропускает запрос дальше только для пользователя с ролью admin.
// Вызывающий идентифицируется query-параметром id.
func AdminOnly(db interfaces.Database) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.URL.Query().Get("id")
			if id == "" {
				deny(w, http.StatusUnauthorized, "пожалуйста, войдите в систему")
				return
			}

			user, err := db.GetUser(r.Context(), id)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					deny(w, http.StatusBadRequest, "неверный ID")
					return
				}
				deny(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
				return
			}

			if user.Role != models.RoleAdmin {
				deny(w, http.StatusForbidden, "доступно только администраторам")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	}); err != nil {
		log.Printf("ошибка сериализации JSON: %v", err)
	}
}
