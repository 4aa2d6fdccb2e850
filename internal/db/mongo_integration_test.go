//go:build integration

package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ecommerce-service/internal/interfaces"
	"ecommerce-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupTestDB(t *testing.T) (*MongoDB, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	}

	mongoContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	port, err := mongoContainer.MappedPort(ctx, "27017")
	require.NoError(t, err)

	uri := fmt.Sprintf("mongodb://localhost:%s", port.Port())

	store, err := NewMongoDB(ctx, uri, "ecommerce_test")
	require.NoError(t, err)

	return store, func() {
		store.Close(ctx)
		mongoContainer.Terminate(ctx)
	}
}

func TestMongoDB_ProductLifecycle(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	product := &models.Product{
		Name:     "Кроссовки",
		Price:    4999,
		Stock:    3,
		Category: "shoes",
	}
	require.NoError(t, store.CreateProduct(ctx, product))
	require.False(t, product.ID.IsZero())

	loaded, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Кроссовки", loaded.Name)
	assert.Equal(t, 3, loaded.Stock)

	loaded.Price = 3999
	require.NoError(t, store.UpdateProduct(ctx, loaded))

	updated, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(3999), updated.Price)

	categories, err := store.DistinctCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"shoes"}, categories)

	require.NoError(t, store.DeleteProduct(ctx, product.ID))

	_, err = store.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestMongoDB_ReduceStock(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	product := &models.Product{Name: "Кепка", Price: 999, Stock: 2, Category: "hats"}
	require.NoError(t, store.CreateProduct(ctx, product))

	require.NoError(t, store.ReduceStock(ctx, product.ID, 2))

	// остаток ушел в ноль, дальнейшее списание отбивается
	err := store.ReduceStock(ctx, product.ID, 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	loaded, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Stock)

	require.NoError(t, store.RestoreStock(ctx, product.ID, 2))
	restored, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Stock)
}

func TestMongoDB_SearchProducts(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	for i, name := range []string{"Кроссовки беговые", "Кроссовки городские", "Кепка"} {
		category := "shoes"
		if i == 2 {
			category = "hats"
		}
		require.NoError(t, store.CreateProduct(ctx, &models.Product{
			Name:     name,
			Price:    float64(1000 * (i + 1)),
			Stock:    5,
			Category: category,
		}))
	}

	products, total, err := store.SearchProducts(ctx, interfaces.ProductQuery{
		Search: "Кроссовки",
		Page:   1,
		Limit:  10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, products, 2)

	products, total, err = store.SearchProducts(ctx, interfaces.ProductQuery{
		Category: "hats",
		MaxPrice: 5000,
		Page:     1,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "Кепка", products[0].Name)
}

func TestMongoDB_OrderLifecycle(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	order := &models.Order{
		ShippingInfo: models.ShippingInfo{
			Address: "Ploshad Mira 15",
			City:    "Kiryat Mozkin",
			State:   "Kraiot",
			Country: "Israel",
			Zipcode: 2639809,
		},
		User:     "u1",
		Subtotal: 100,
		Total:    100,
		OrderedItems: []models.OrderItem{
			{Name: "Кроссовки", Price: 50, Quantity: 2},
		},
	}
	require.NoError(t, store.CreateOrder(ctx, order))
	require.False(t, order.ID.IsZero())
	assert.Equal(t, models.StatusProcessing, order.Status)

	loaded, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", loaded.User)

	byUser, err := store.OrdersByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	require.NoError(t, store.UpdateOrderStatus(ctx, order.ID, models.StatusShipped))
	shipped, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, shipped.Status)

	count, err := store.CountOrdersByStatus(ctx, models.StatusShipped)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, store.DeleteOrder(ctx, order.ID))
	_, err = store.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestMongoDB_CreatedBetween(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	user := &models.User{
		ID:     "u1",
		Name:   "Test Testov",
		Email:  "test@gmail.com",
		Photo:  "https://example.com/photo.jpg",
		Role:   models.RoleUser,
		Gender: models.GenderMale,
		DOB:    time.Date(1995, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateUser(ctx, user))

	now := time.Now()
	users, err := store.UsersCreatedBetween(ctx, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, users, 1)

	users, err = store.UsersCreatedBetween(ctx, now.AddDate(0, -2, 0), now.AddDate(0, -1, 0))
	require.NoError(t, err)
	assert.Empty(t, users)
}
