package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"ecommerce-service/internal/cache"
	"ecommerce-service/internal/interfaces"
	"ecommerce-service/internal/validation"
	"ecommerce-service/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Photo       string  `json:"photo"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
}

func (h *Handler) NewProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректный JSON")
		return
	}

	if req.Name == "" || req.Price == 0 || req.Category == "" {
		writeError(w, http.StatusBadRequest, "пожалуйста, заполните все поля")
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Photo:       req.Photo,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    strings.ToLower(req.Category),
	}
	if err := validation.ValidateProduct(product); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.DB.CreateProduct(r.Context(), product); err != nil {
		writeStoreError(w, err, "товар не найден")
		return
	}

	cache.Invalidate(h.Cache, cache.InvalidationEvent{Product: true, Admin: true})

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Товар добавлен",
	})
}

func (h *Handler) LatestProducts(w http.ResponseWriter, r *http.Request) {
	products, ok := cache.Lookup[[]models.Product](h.Cache, cache.KeyLatestProducts)
	if !ok {
		var err error
		products, err = h.DB.LatestProducts(r.Context(), 5)
		if err != nil {
			writeStoreError(w, err, "товары не найдены")
			return
		}
		if err := cache.Store(h.Cache, cache.KeyLatestProducts, products); err != nil {
			writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"latestProducts": products,
	})
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, ok := cache.Lookup[[]string](h.Cache, cache.KeyCategories)
	if !ok {
		var err error
		categories, err = h.DB.DistinctCategories(r.Context())
		if err != nil {
			writeStoreError(w, err, "категории не найдены")
			return
		}
		if err := cache.Store(h.Cache, cache.KeyCategories, categories); err != nil {
			writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"categories": categories,
	})
}

func (h *Handler) AdminProducts(w http.ResponseWriter, r *http.Request) {
	products, ok := cache.Lookup[[]models.Product](h.Cache, cache.KeyAdminProducts)
	if !ok {
		var err error
		products, err = h.DB.AllProducts(r.Context())
		if err != nil {
			writeStoreError(w, err, "товары не найдены")
			return
		}
		if err := cache.Store(h.Cache, cache.KeyAdminProducts, products); err != nil {
			writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"adminProducts": products,
	})
}

// AllProducts — поиск по каталогу: фильтры, сортировка по цене, пагинация.
// Не кэшируется: комбинаций фильтров слишком много.
func (h *Handler) AllProducts(w http.ResponseWriter, r *http.Request) {
	query := interfaces.ProductQuery{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Sort:     r.URL.Query().Get("sort"),
		Page:     1,
		Limit:    h.ProductsPerPage,
	}
	if price := r.URL.Query().Get("price"); price != "" {
		p, err := strconv.ParseFloat(price, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "некорректная цена")
			return
		}
		query.MaxPrice = p
	}
	if page := r.URL.Query().Get("page"); page != "" {
		p, err := strconv.Atoi(page)
		if err != nil || p < 1 {
			writeError(w, http.StatusBadRequest, "некорректная страница")
			return
		}
		query.Page = p
	}

	products, total, err := h.DB.SearchProducts(r.Context(), query)
	if err != nil {
		writeStoreError(w, err, "товары не найдены")
		return
	}

	totalPages := 0
	if query.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(query.Limit)))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"products":   products,
		"totalPages": totalPages,
	})
}

func (h *Handler) SingleProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "неверный ID")
		return
	}

	key := cache.ProductKey(id.Hex())
	product, ok := cache.Lookup[*models.Product](h.Cache, key)
	if !ok {
		product, err = h.DB.GetProduct(r.Context(), id)
		if err != nil {
			writeStoreError(w, err, "товар не найден")
			return
		}
		if err := cache.Store(h.Cache, key, product); err != nil {
			writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"product": product,
	})
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "неверный ID")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректный JSON")
		return
	}

	product, err := h.DB.GetProduct(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "товар не найден")
		return
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Photo != "" {
		product.Photo = req.Photo
	}
	if req.Price > 0 {
		product.Price = req.Price
	}
	if req.Stock > 0 {
		product.Stock = req.Stock
	}
	if req.Category != "" {
		product.Category = strings.ToLower(req.Category)
	}

	if err := h.DB.UpdateProduct(r.Context(), product); err != nil {
		writeStoreError(w, err, "товар не найден")
		return
	}

	cache.Invalidate(h.Cache, cache.InvalidationEvent{
		Product:    true,
		Admin:      true,
		ProductIDs: []string{id.Hex()},
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Товар обновлен",
	})
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "неверный ID")
		return
	}

	if err := h.DB.DeleteProduct(r.Context(), id); err != nil {
		writeStoreError(w, err, "товар не найден")
		return
	}

	cache.Invalidate(h.Cache, cache.InvalidationEvent{
		Product:    true,
		Admin:      true,
		ProductIDs: []string{id.Hex()},
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Товар удален",
	})
}
