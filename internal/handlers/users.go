package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ecommerce-service/internal/validation"
	"ecommerce-service/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRequest struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Photo  string `json:"photo"`
	Gender string `json:"gender"`
	DOB    string `json:"dob"`
}

func (h *Handler) NewUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректный JSON")
		return
	}

	if req.ID != "" {
		existing, err := h.DB.GetUser(r.Context(), req.ID)
		if err == nil {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "С возвращением, " + existing.Name,
			})
			return
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
			return
		}
	}

	if req.ID == "" || req.Name == "" || req.Email == "" || req.Photo == "" || req.Gender == "" || req.DOB == "" {
		writeError(w, http.StatusBadRequest, "пожалуйста, заполните все поля")
		return
	}

	dob, err := parseDOB(req.DOB)
	if err != nil {
		writeError(w, http.StatusBadRequest, "некорректная дата рождения")
		return
	}

	user := &models.User{
		ID:     req.ID,
		Name:   req.Name,
		Email:  req.Email,
		Photo:  req.Photo,
		Gender: req.Gender,
		Role:   models.RoleUser,
		DOB:    dob,
	}
	if err := validation.ValidateUser(user); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.DB.CreateUser(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Добро пожаловать, " + user.Name,
	})
}

func (h *Handler) AllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.DB.AllUsers(r.Context())
	if err != nil {
		writeStoreError(w, err, "пользователи не найдены")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   users,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user, err := h.DB.GetUser(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "неверный ID")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.DB.DeleteUser(r.Context(), id); err != nil {
		writeStoreError(w, err, "неверный ID")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Пользователь удален",
	})
}

func parseDOB(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
