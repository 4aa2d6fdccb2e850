package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ecommerce-service/internal/validation"
	"ecommerce-service/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreatePayment — заглушка платежного шлюза: выдает клиентский секрет
// без обращения к внешнему провайдеру.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректный JSON")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "пожалуйста, укажите корректную сумму")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"clientSecret": uuid.NewString(),
	})
}

func (h *Handler) NewCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CouponCode string  `json:"couponCode"`
		Amount     float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректный JSON")
		return
	}
	if req.CouponCode == "" || req.Amount == 0 {
		writeError(w, http.StatusBadRequest, "пожалуйста, укажите код купона и сумму")
		return
	}

	coupon := &models.Coupon{
		CouponCode: strings.ToLower(req.CouponCode),
		Amount:     req.Amount,
	}
	if err := validation.ValidateCoupon(coupon); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.DB.CreateCoupon(r.Context(), coupon); err != nil {
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Купон %s создан", coupon.CouponCode),
	})
}

func (h *Handler) AllCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.DB.AllCoupons(r.Context())
	if err != nil {
		writeStoreError(w, err, "купоны не найдены")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"coupons": coupons,
	})
}

func (h *Handler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("couponCode")
	if code == "" {
		writeError(w, http.StatusBadRequest, "пожалуйста, укажите код купона")
		return
	}

	coupon, err := h.DB.CouponByCode(r.Context(), strings.ToLower(code))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			writeError(w, http.StatusBadRequest, "неверный код купона")
			return
		}
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"discount": coupon.Amount,
	})
}

func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "неверный ID")
		return
	}

	if err := h.DB.DeleteCoupon(r.Context(), id); err != nil {
		writeStoreError(w, err, "купон не найден")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Купон удален",
	})
}
